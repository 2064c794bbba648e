package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shine/app/models/notification"
	"shine/app/repositories"
	"shine/pkg/logger"
)

// Worker 通知派发工作器组
// 从队列取出通知、落库并记录送达；失败的通知记日志后丢回队列重试
type Worker struct {
	queueService *QueueService
	repo         *repositories.NotificationRepository
	stopChan     chan struct{}
	workerCount  int
	metrics      *QueueMetrics
	wg           sync.WaitGroup
	config       WorkerConfig
}

// WorkerConfig 工作器配置
type WorkerConfig struct {
	WorkerCount     int           // 并发工作器数量
	MaxRetries      int           // 单条通知的最大重试次数
	ShutdownTimeout time.Duration // 关闭超时时间
}

// NewWorker 创建新的工作器组
func NewWorker(qs *QueueService, repo *repositories.NotificationRepository, config WorkerConfig) *Worker {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 5 // 默认工作器数量
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 30 * time.Second
	}

	return &Worker{
		queueService: qs,
		repo:         repo,
		stopChan:     make(chan struct{}),
		workerCount:  config.WorkerCount,
		metrics:      NewQueueMetrics(),
		config:       config,
	}
}

// Start 启动工作器组
func (w *Worker) Start() {
	for i := 0; i < w.workerCount; i++ {
		w.wg.Add(1)
		go w.startWorker(i)
	}
}

// startWorker 启动单个工作器
func (w *Worker) startWorker(id int) {
	defer w.wg.Done()

	logger.InfoString("Worker", "Start", fmt.Sprintf("notification worker %d started", id))

	for {
		select {
		case <-w.stopChan:
			logger.InfoString("Worker", "Stop", fmt.Sprintf("notification worker %d stopping", id))
			return
		default:
			if err := w.processNext(); err != nil {
				logger.ErrorString("Worker", "Error", fmt.Sprintf("worker %d: %v", id, err))
				time.Sleep(time.Second) // 错误恢复延迟
			}
		}
	}
}

// processNext 取出并处理下一条通知
func (w *Worker) processNext() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	task, err := w.queueService.Pop(ctx, 5*time.Second)
	if err != nil {
		return fmt.Errorf("pop notification error: %w", err)
	}
	if task == nil {
		return nil // 队列为空
	}

	return w.handleTask(ctx, task)
}

// handleTask 处理单条通知：落库即视为送达
func (w *Worker) handleTask(ctx context.Context, task *NotificationTask) error {
	start := time.Now()
	defer func() {
		w.metrics.RecordProcessLatency(time.Since(start))
	}()

	n := &notification.Notification{
		RecipientID:     task.RecipientID,
		Title:           task.Title,
		Message:         task.Message,
		Type:            task.Type,
		FulfillmentID:   task.FulfillmentID,
		FulfillmentType: task.FulfillmentType,
		ActionURL:       task.ActionURL,
	}

	var lastErr error
	for attempt := 0; attempt < w.config.MaxRetries; attempt++ {
		if lastErr = w.repo.Create(ctx, n); lastErr == nil {
			w.metrics.RecordSuccess(OpProcess)
			logger.InfoString("Worker", "Delivered",
				fmt.Sprintf("通知送达 收件人:%s 类型:%s", task.RecipientID, task.Type))
			return nil
		}
		time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
	}

	w.metrics.RecordError(OpProcess)
	return fmt.Errorf("deliver notification error: %w", lastErr)
}

// Stop 优雅关闭工作器组
func (w *Worker) Stop() {
	close(w.stopChan)

	// 等待所有工作器完成
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InfoString("Worker", "Stop", "all notification workers stopped gracefully")
	case <-time.After(w.config.ShutdownTimeout):
		logger.WarnString("Worker", "Stop", "notification worker shutdown timed out")
	}
}
