// Package queue 基于 Redis 的通知派发队列
//
// 通知相对履约事务是 fire-and-forget：入队失败只记日志，绝不回滚履约；
// 至少送达一次即可，重复通知不构成正确性问题。
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"shine/pkg/config"
	"shine/pkg/redis"
)

// NotificationTask 待派发的通知
type NotificationTask struct {
	ID              string    `json:"id"`
	RecipientID     string    `json:"recipient_id"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	Type            string    `json:"type"`
	FulfillmentID   uint64    `json:"fulfillment_id"`
	FulfillmentType string    `json:"fulfillment_type"`
	ActionURL       string    `json:"action_url"`
	CreatedAt       time.Time `json:"created_at"`
}

// QueueService Redis 通知队列服务
// 支持高并发入队和可靠的任务处理
type QueueService struct {
	client      *redis.RedisClient
	prefix      string
	rateLimiter *rate.Limiter
	metrics     *QueueMetrics
}

// NewQueueService 创建新的队列服务实例
func NewQueueService() *QueueService {
	rateLimit := config.GetInt("queue.rate_limit", 1000)
	burst := config.GetInt("queue.rate_burst", rateLimit)

	return &QueueService{
		client:      redis.GetRedis(redis.QueueDB),
		prefix:      config.GetString("redis.queue_prefix", "shine"),
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), burst),
		metrics:     NewQueueMetrics(),
	}
}

// Dispatch 将通知推入队列
// 支持限流和监控指标收集
func (q *QueueService) Dispatch(ctx context.Context, task *NotificationTask) error {
	// 应用限流
	if err := q.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	start := time.Now()
	defer func() {
		q.metrics.RecordPushLatency(time.Since(start))
	}()

	// 序列化任务
	taskJSON, err := json.Marshal(task)
	if err != nil {
		q.metrics.RecordError(OpPush)
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := fmt.Sprintf("%s:notifications", q.prefix)
	if err := q.client.Client.LPush(ctx, key, taskJSON).Err(); err != nil {
		q.metrics.RecordError(OpPush)
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}

	q.metrics.RecordSuccess(OpPush)
	return nil
}

// Pop 从队列中取出一条通知，队列为空时阻塞至超时并返回 nil
func (q *QueueService) Pop(ctx context.Context, timeout time.Duration) (*NotificationTask, error) {
	key := fmt.Sprintf("%s:notifications", q.prefix)

	result, err := q.client.Client.BRPop(ctx, timeout, key).Result()
	if err != nil {
		if err == goredis.Nil || err == context.DeadlineExceeded {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop notification from queue: %w", err)
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("invalid result from queue")
	}

	var task NotificationTask
	if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	return &task, nil
}

// Length 当前队列长度
func (q *QueueService) Length(ctx context.Context) (int64, error) {
	key := fmt.Sprintf("%s:notifications", q.prefix)
	return q.client.Client.LLen(ctx, key).Result()
}

// Ping 检查队列服务健康状态
func (q *QueueService) Ping(ctx context.Context) error {
	return q.client.Ping()
}
