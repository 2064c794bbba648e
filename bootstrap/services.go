package bootstrap

import (
	"shine/app/repositories"
	"shine/app/services"
	"shine/pkg/database"
	"shine/pkg/gateway/types"
	"shine/pkg/logger"
	"shine/pkg/queue"
)

// SetupServices 组装支付结算链路的服务
//
// 依赖关系：网关适配器 → 支付服务 → 履约器 → 结算 → 通知队列。
// 返回的服务注入路由层，进程里不留全局服务变量。
func SetupServices(adapter types.Adapter) *services.PaymentService {
	payments := repositories.NewPaymentRepository()
	catalog := repositories.NewCatalogRepository()

	finalizer := services.NewFinalizer(database.DB, payments,
		services.NewBeautyFinalizer(repositories.NewAppointmentRepository(), catalog),
		services.NewLaundryFinalizer(repositories.NewLaundryRepository()),
		services.NewCleaningFinalizer(repositories.NewCleaningRepository(), catalog),
	)

	settlement := services.NewSettlementService(repositories.NewEarningRepository(), payments)

	logger.InfoString("Services", "Setup", "支付结算链路服务组装完成")
	return services.NewPaymentService(adapter, payments, finalizer, settlement, queue.NewQueueService())
}

// SetupSweeper 启动后台清扫器
func SetupSweeper() *services.PaymentSweeper {
	sweeper := services.NewPaymentSweeper(repositories.NewPaymentRepository())
	sweeper.Start()
	return sweeper
}
