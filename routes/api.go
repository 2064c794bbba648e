package routes

import (
	"github.com/gin-gonic/gin"

	"shine/app/http/controllers/api/v1/appointment"
	"shine/app/http/controllers/api/v1/cleaning"
	"shine/app/http/controllers/api/v1/laundry"
	"shine/app/http/controllers/api/v1/ops"
	"shine/app/http/controllers/api/v1/payment"
	"shine/app/http/middlewares"
	"shine/app/repositories"
	"shine/app/services"
)

// 路由限流配置
const (
	// 全局限流：每小时每IP 30000 请求
	GlobalRateLimit = "30000-H"
	// 创建支付会话限流：每小时每IP 100 请求
	CreatePaymentLimit = "100-H"
	// 核验轮询限流：每分钟每IP 300 请求
	VerifyLimit = "300-M"
	// 网关回调限流：每分钟每IP 600 请求
	WebhookLimit = "600-M"
)

// RegisterAPIRoutes 注册所有 API 路由
func RegisterAPIRoutes(r *gin.Engine, paymentService *services.PaymentService) {
	v1 := r.Group("/v1")

	v1.Use(
		middlewares.Recovery(),
		middlewares.SecurityHeaders(),
		middlewares.LimitIP(GlobalRateLimit),
		middlewares.Cors(),
		middlewares.AuthContext(),
	)

	payments := repositories.NewPaymentRepository()
	settlement := services.NewSettlementService(repositories.NewEarningRepository(), payments)

	// 支付相关路由
	paymentRoutes := v1.Group("/payments")
	{
		pc := payment.NewPaymentController(paymentService)

		// 创建托管支付会话（台账先落库再跳转网关）
		// POST /v1/payments
		paymentRoutes.POST("",
			middlewares.LimitIP(CreatePaymentLimit),
			pc.Store,
		)

		// 网关回调入口，与轮询汇入同一条核验管线
		// POST /v1/payments/webhook
		paymentRoutes.POST("/webhook",
			middlewares.LimitIP(WebhookLimit),
			pc.Webhook,
		)

		// 客户端轮询入口：核验支付并推进履约
		// GET /v1/payments/:reference/verify
		paymentRoutes.GET("/:reference/verify",
			middlewares.LimitIP(VerifyLimit),
			pc.Verify,
		)

		// 查询台账记录
		// GET /v1/payments/:reference
		paymentRoutes.GET("/:reference",
			middlewares.LimitIP(VerifyLimit),
			pc.Show,
		)
	}

	// 美容预约路由（专家操作）
	appointmentRoutes := v1.Group("/appointments")
	{
		ac := appointment.NewAppointmentController(
			repositories.NewAppointmentRepository(), payments, settlement)

		appointmentRoutes.GET("/:id", ac.Show)
		appointmentRoutes.POST("/:id/confirm", middlewares.AuthRequired(), ac.Confirm)
		appointmentRoutes.POST("/:id/complete", middlewares.AuthRequired(), ac.Complete)
		appointmentRoutes.POST("/:id/cancel", middlewares.AuthRequired(), ac.Cancel)
	}

	// 洗衣订单路由
	laundryRoutes := v1.Group("/laundry-orders")
	{
		lc := laundry.NewLaundryController(
			repositories.NewLaundryRepository(), payments, settlement)

		laundryRoutes.GET("/:id", lc.Show)
		laundryRoutes.POST("/:id/advance", middlewares.AuthRequired(), lc.Advance)
		laundryRoutes.POST("/:id/assign", middlewares.AuthRequired(), lc.Assign)
		laundryRoutes.POST("/:id/cancel", middlewares.AuthRequired(), lc.Cancel)
	}

	// 保洁订单路由
	cleaningRoutes := v1.Group("/cleaning-orders")
	{
		cc := cleaning.NewCleaningController(repositories.NewCleaningRepository())

		cleaningRoutes.GET("/:id", cc.Show)
		cleaningRoutes.POST("/:id/confirm", middlewares.AuthRequired(), cc.Confirm)
		cleaningRoutes.POST("/:id/start", middlewares.AuthRequired(), cc.Start)
		cleaningRoutes.POST("/:id/complete", middlewares.AuthRequired(), cc.Complete)
		cleaningRoutes.POST("/:id/cancel", middlewares.AuthRequired(), cc.Cancel)
	}

	// 运营对账路由
	opsRoutes := v1.Group("/ops", middlewares.AuthRequired())
	{
		oc := ops.NewOpsController(payments, repositories.NewEarningRepository(), repositories.NewUserRepository())

		// 待人工对账的支付列表
		opsRoutes.GET("/unlinked-payments", oc.UnlinkedPayments)
		// 专家收入汇总
		opsRoutes.GET("/specialists/:specialist_id/earnings", oc.SpecialistEarnings)
	}
}
