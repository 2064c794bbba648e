package bootstrap

import (
	"time"

	"shine/app/repositories"
	"shine/pkg/config"
	"shine/pkg/logger"
	"shine/pkg/queue"
	"shine/pkg/redis"
)

// SetupQueue 启动通知派发队列的 worker 组
func SetupQueue() *queue.Worker {
	if redis.Manager == nil {
		logger.ErrorString("Queue", "Setup", "Redis manager not initialized")
		return nil
	}

	queueService := queue.NewQueueService()

	worker := queue.NewWorker(queueService, repositories.NewNotificationRepository(), queue.WorkerConfig{
		WorkerCount:     config.GetInt("queue.worker_count", 5),
		MaxRetries:      config.GetInt("queue.retry_times", 3),
		ShutdownTimeout: 30 * time.Second,
	})

	worker.Start()

	logger.InfoString("Queue", "Setup", "通知队列服务启动成功")
	return worker
}
