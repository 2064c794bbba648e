// Package laundry 洗衣订单的 API 控制器
package laundry

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"shine/app/models/laundry"
	"shine/app/repositories"
	"shine/app/requests"
	"shine/app/services"
	"shine/pkg/errs"
	"shine/pkg/logger"
	"shine/pkg/response"
)

type LaundryController struct {
	orders     *repositories.LaundryRepository
	payments   *repositories.PaymentRepository
	settlement *services.SettlementService
}

// NewLaundryController 创建洗衣订单控制器
func NewLaundryController(
	orders *repositories.LaundryRepository,
	payments *repositories.PaymentRepository,
	settlement *services.SettlementService,
) *LaundryController {
	return &LaundryController{
		orders:     orders,
		payments:   payments,
		settlement: settlement,
	}
}

// Show 查询洗衣订单
// GET /v1/laundry-orders/:id
func (lc *LaundryController) Show(c *gin.Context) {
	o, ok := lc.load(c)
	if !ok {
		return
	}
	response.Data(c, o)
}

// Advance 把订单推进到下一个相邻状态
// POST /v1/laundry-orders/:id/advance
//
// 状态链单向逐级推进，跳级和回退都会被模型拒绝。
func (lc *LaundryController) Advance(c *gin.Context) {
	o, ok := lc.load(c)
	if !ok {
		return
	}

	if err := o.Advance(); err != nil {
		response.Abort409(c, fmt.Sprintf("订单当前状态为 %s，不能推进", o.Status))
		return
	}
	if err := lc.orders.Save(c.Request.Context(), o); err != nil {
		response.ServerError(c, err)
		return
	}

	response.Data(c, o)
}

// Assign 专家接单，同时补结之前悬置的收入
// POST /v1/laundry-orders/:id/assign
//
// 洗衣订单支付成功时还没有专家，结算悬置到接单时刻补做；
// 接单本身只允许一次（specialist_id 为空的条件更新）。
func (lc *LaundryController) Assign(c *gin.Context) {
	req, err := requests.ValidateAssignSpecialist(c)
	if err != nil {
		response.BadRequest(c, err, err.Error())
		return
	}

	ctx := c.Request.Context()
	o, ok := lc.load(c)
	if !ok {
		return
	}
	if o.IsTerminal() {
		response.Abort409(c, fmt.Sprintf("订单当前状态为 %s，不能接单", o.Status))
		return
	}

	assigned, err := lc.orders.AssignSpecialist(ctx, o.ID, req.SpecialistID)
	if err != nil {
		response.ServerError(c, err)
		return
	}
	if !assigned {
		response.Abort409(c, "订单已被其他专家接走")
		return
	}
	o.SpecialistID = &req.SpecialistID

	// 接单时补做结算，结算闸门保证重复接单回放也只产生一条收入；
	// 接单是一次性的，结算失败时支付会被打上对账标记
	p, err := lc.payments.GetByID(ctx, o.PaymentID)
	if err != nil {
		logger.ErrorString("洗衣", "Assign",
			fmt.Sprintf("订单 %s 的支付记录缺失: %v", o.OrderNumber, err))
	} else {
		_, _ = lc.settlement.SettleOrFlag(ctx, p, req.SpecialistID)
	}

	response.Data(c, o)
}

// Cancel 取消订单，送达之前的任何状态均可
// POST /v1/laundry-orders/:id/cancel
func (lc *LaundryController) Cancel(c *gin.Context) {
	o, ok := lc.load(c)
	if !ok {
		return
	}

	if err := o.Cancel(); err != nil {
		response.Abort409(c, fmt.Sprintf("订单当前状态为 %s，不能取消", o.Status))
		return
	}
	if err := lc.orders.Save(c.Request.Context(), o); err != nil {
		response.ServerError(c, err)
		return
	}

	response.Data(c, o)
}

func (lc *LaundryController) load(c *gin.Context) (*laundry.LaundryOrder, bool) {
	o, err := lc.orders.GetByID(c.Request.Context(), cast.ToUint64(c.Param("id")))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			response.Abort404(c, "洗衣订单不存在")
			return nil, false
		}
		response.ServerError(c, err)
		return nil, false
	}
	return o, true
}
