// Package appointment 美容预约的 API 控制器
package appointment

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"shine/app/models/appointment"
	"shine/app/repositories"
	"shine/app/services"
	"shine/pkg/errs"
	"shine/pkg/logger"
	"shine/pkg/response"
)

type AppointmentController struct {
	appointments *repositories.AppointmentRepository
	payments     *repositories.PaymentRepository
	settlement   *services.SettlementService
}

// NewAppointmentController 创建预约控制器
func NewAppointmentController(
	appointments *repositories.AppointmentRepository,
	payments *repositories.PaymentRepository,
	settlement *services.SettlementService,
) *AppointmentController {
	return &AppointmentController{
		appointments: appointments,
		payments:     payments,
		settlement:   settlement,
	}
}

// Show 查询预约
// GET /v1/appointments/:id
func (ac *AppointmentController) Show(c *gin.Context) {
	a, ok := ac.load(c)
	if !ok {
		return
	}
	response.Data(c, a)
}

// Confirm 专家确认预约，订单号自此对客户可见
// POST /v1/appointments/:id/confirm
func (ac *AppointmentController) Confirm(c *gin.Context) {
	ac.transition(c, (*appointment.Appointment).Confirm)
}

// Complete 完成预约并触发专家收入结算
// POST /v1/appointments/:id/complete
//
// 结算自身是幂等的（payment_id 唯一约束），重复完成请求会被状态机
// 拦住，崩溃后重放则由结算闸门兜底。
func (ac *AppointmentController) Complete(c *gin.Context) {
	ctx := c.Request.Context()

	a, ok := ac.load(c)
	if !ok {
		return
	}

	if err := a.Complete(); err != nil {
		response.Abort409(c, fmt.Sprintf("预约当前状态为 %s，不能完成", a.Status))
		return
	}
	if err := ac.appointments.Save(ctx, a); err != nil {
		response.ServerError(c, err)
		return
	}

	// 美容预约在 completed 时结算全额线上实收；
	// 状态流转已提交，结算失败时支付会被打上对账标记
	p, err := ac.payments.GetByID(ctx, a.PaymentID)
	if err != nil {
		logger.ErrorString("预约", "Complete",
			fmt.Sprintf("预约 %s 的支付记录缺失: %v", a.OrderNumber, err))
	} else {
		_, _ = ac.settlement.SettleOrFlag(ctx, p, a.SpecialistID)
	}

	response.Data(c, a)
}

// Cancel 取消预约
// POST /v1/appointments/:id/cancel
func (ac *AppointmentController) Cancel(c *gin.Context) {
	ac.transition(c, (*appointment.Appointment).Cancel)
}

// load 按路径参数加载预约，找不到时直接写响应
func (ac *AppointmentController) load(c *gin.Context) (*appointment.Appointment, bool) {
	a, err := ac.appointments.GetByID(c.Request.Context(), cast.ToUint64(c.Param("id")))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			response.Abort404(c, "预约不存在")
			return nil, false
		}
		response.ServerError(c, err)
		return nil, false
	}
	return a, true
}

// transition 加载、流转、保存的公共路径
func (ac *AppointmentController) transition(c *gin.Context, apply func(*appointment.Appointment) error) {
	a, ok := ac.load(c)
	if !ok {
		return
	}

	if err := apply(a); err != nil {
		response.Abort409(c, fmt.Sprintf("预约当前状态为 %s，不允许该流转", a.Status))
		return
	}
	if err := ac.appointments.Save(c.Request.Context(), a); err != nil {
		response.ServerError(c, err)
		return
	}

	response.Data(c, a)
}
