// Package payment 支付相关的 API 控制器
package payment

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shine/app/http/middlewares"
	"shine/app/models/payment"
	"shine/app/requests"
	"shine/app/services"
	"shine/pkg/errs"
	"shine/pkg/response"
)

type PaymentController struct {
	paymentService *services.PaymentService
}

// NewPaymentController 创建支付控制器
func NewPaymentController(service *services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: service,
	}
}

// Store 创建托管支付会话
// POST /v1/payments
func (pc *PaymentController) Store(c *gin.Context) {
	req, err := requests.ValidateCreatePayment(c)
	if err != nil {
		response.BadRequest(c, err, err.Error())
		return
	}

	// 预约类支付必须是登录用户，履约和通知都需要收件人
	userID := middlewares.CurrentUserID(c)
	if userID == "" {
		response.Abort400(c, "预约支付需要登录")
		return
	}

	metadata := payment.JSON(req.Metadata)
	if metadata == nil {
		metadata = payment.JSON{}
	}
	metadata["type"] = req.Type

	result, err := pc.paymentService.CreateSession(c.Request.Context(), &services.CreateSessionInput{
		UserID:      userID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		CallbackURL: req.CallbackURL,
		Description: req.Description,
		Metadata:    metadata,
	})
	if err != nil {
		if errors.Is(err, errs.ErrGatewayUnavailable) {
			response.Abort500(c, "支付网关暂时不可用，请稍后再试")
			return
		}
		response.ServerError(c, err, "创建支付会话失败")
		return
	}

	response.Created(c, result)
}

// Verify 客户端轮询入口：核验支付并推进履约管线
// GET /v1/payments/:reference/verify
func (pc *PaymentController) Verify(c *gin.Context) {
	reference := c.Param("reference")

	result, err := pc.paymentService.ProcessVerification(c.Request.Context(), reference)
	if err != nil {
		pc.abortPipelineError(c, err)
		return
	}

	response.Data(c, result)
}

// Webhook 网关回调入口，与轮询汇入同一条管线
// POST /v1/payments/webhook
//
// 回调体里的结果不可信，一律拿参考号向网关主动核验。
// 未知参考号回 200，网关才不会无限重发。
func (pc *PaymentController) Webhook(c *gin.Context) {
	req, err := requests.ValidateWebhook(c)
	if err != nil {
		response.BadRequest(c, err, err.Error())
		return
	}

	result, err := pc.paymentService.ProcessVerification(c.Request.Context(), req.Data.Reference)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			response.JSON(c, gin.H{"received": true})
			return
		}
		pc.abortPipelineError(c, err)
		return
	}

	response.Data(c, result)
}

// Show 查询支付台账记录
// GET /v1/payments/:reference
func (pc *PaymentController) Show(c *gin.Context) {
	p, err := pc.paymentService.GetPayment(c.Request.Context(), c.Param("reference"))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			response.Abort404(c, "支付记录不存在")
			return
		}
		response.ServerError(c, err)
		return
	}
	response.Data(c, p)
}

// abortPipelineError 把管线错误映射成对外响应
func (pc *PaymentController) abortPipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		response.Abort404(c, "支付记录不存在")
	case errors.Is(err, errs.ErrAmountMismatch):
		// 金额不一致已记录并转人工对账，对外不暴露细节
		response.Abort409(c, "支付核验异常，已转人工处理")
	case errors.Is(err, errs.ErrInvalidStateTransition):
		response.Abort409(c, "支付状态不允许该操作")
	case errors.Is(err, errs.ErrGatewayUnavailable):
		response.Abort500(c, "支付网关暂时不可用，请稍后再试")
	default:
		response.ServerError(c, err)
	}
}
