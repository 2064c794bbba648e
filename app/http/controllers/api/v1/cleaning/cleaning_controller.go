// Package cleaning 保洁订单的 API 控制器
package cleaning

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"shine/app/models/cleaning"
	"shine/app/repositories"
	"shine/pkg/errs"
	"shine/pkg/response"
)

type CleaningController struct {
	orders *repositories.CleaningRepository
}

// NewCleaningController 创建保洁订单控制器
func NewCleaningController(orders *repositories.CleaningRepository) *CleaningController {
	return &CleaningController{orders: orders}
}

// Show 查询保洁订单
// GET /v1/cleaning-orders/:id
func (cc *CleaningController) Show(c *gin.Context) {
	o, ok := cc.load(c)
	if !ok {
		return
	}
	response.Data(c, o)
}

// Confirm 专家确认订单
// POST /v1/cleaning-orders/:id/confirm
func (cc *CleaningController) Confirm(c *gin.Context) {
	cc.transition(c, (*cleaning.CleaningOrder).Confirm)
}

// Start 开始上门服务
// POST /v1/cleaning-orders/:id/start
func (cc *CleaningController) Start(c *gin.Context) {
	cc.transition(c, (*cleaning.CleaningOrder).Start)
}

// Complete 完成服务
// POST /v1/cleaning-orders/:id/complete
// 预约费已在履约时结算，完成只推进状态
func (cc *CleaningController) Complete(c *gin.Context) {
	cc.transition(c, (*cleaning.CleaningOrder).Complete)
}

// Cancel 取消订单
// POST /v1/cleaning-orders/:id/cancel
func (cc *CleaningController) Cancel(c *gin.Context) {
	cc.transition(c, (*cleaning.CleaningOrder).Cancel)
}

func (cc *CleaningController) load(c *gin.Context) (*cleaning.CleaningOrder, bool) {
	o, err := cc.orders.GetByID(c.Request.Context(), cast.ToUint64(c.Param("id")))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			response.Abort404(c, "保洁订单不存在")
			return nil, false
		}
		response.ServerError(c, err)
		return nil, false
	}
	return o, true
}

// transition 加载、流转、保存的公共路径
func (cc *CleaningController) transition(c *gin.Context, apply func(*cleaning.CleaningOrder) error) {
	o, ok := cc.load(c)
	if !ok {
		return
	}

	if err := apply(o); err != nil {
		response.Abort409(c, fmt.Sprintf("订单当前状态为 %s，不允许该流转", o.Status))
		return
	}
	if err := cc.orders.Save(c.Request.Context(), o); err != nil {
		response.ServerError(c, err)
		return
	}

	response.Data(c, o)
}
