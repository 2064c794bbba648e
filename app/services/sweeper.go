package services

import (
	"context"
	"fmt"
	"time"

	"shine/app/repositories"
	"shine/pkg/config"
	"shine/pkg/logger"
)

// PaymentSweeper 后台清扫器
//
// 周期性把超过 TTL 仍停在 pending 的支付置为 canceled，
// 这是唯一允许在没有用户动作的情况下做 pending → canceled 的路径。
type PaymentSweeper struct {
	payments *repositories.PaymentRepository
	interval time.Duration
	ttl      time.Duration
	stopChan chan struct{}
}

// NewPaymentSweeper 按配置创建清扫器
func NewPaymentSweeper(payments *repositories.PaymentRepository) *PaymentSweeper {
	return &PaymentSweeper{
		payments: payments,
		interval: time.Duration(config.GetInt("sweep.interval_minutes", 60)) * time.Minute,
		ttl:      time.Duration(config.GetInt("sweep.pending_ttl_hours", 24)) * time.Hour,
		stopChan: make(chan struct{}),
	}
}

// Start 启动清扫循环
func (s *PaymentSweeper) Start() {
	go s.run()
}

func (s *PaymentSweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.InfoString("清扫器", "Start",
		fmt.Sprintf("间隔 %s，pending 保留 %s", s.interval, s.ttl))

	for {
		select {
		case <-s.stopChan:
			logger.InfoString("清扫器", "Stop", "payment sweeper stopped")
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *PaymentSweeper) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.payments.SweepStalePending(ctx, s.ttl)
	if err != nil {
		logger.ErrorString("清扫器", "Sweep", fmt.Sprintf("清扫失败: %v", err))
		return
	}
	if n > 0 {
		logger.InfoString("清扫器", "Sweep", fmt.Sprintf("取消了 %d 笔过期 pending 支付", n))
	}
}

// Stop 停止清扫循环
func (s *PaymentSweeper) Stop() {
	close(s.stopChan)
}
