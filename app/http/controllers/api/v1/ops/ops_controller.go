// Package ops 运营对账的 API 控制器
package ops

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"shine/app/repositories"
	"shine/pkg/errs"
	"shine/pkg/response"
)

type OpsController struct {
	payments *repositories.PaymentRepository
	earnings *repositories.EarningRepository
	users    *repositories.UserRepository
}

// NewOpsController 创建运营控制器
func NewOpsController(payments *repositories.PaymentRepository, earnings *repositories.EarningRepository, users *repositories.UserRepository) *OpsController {
	return &OpsController{payments: payments, earnings: earnings, users: users}
}

// UnlinkedPayments 待人工对账的支付列表
// GET /v1/ops/unlinked-payments
//
// 包含两类：已完成但没有履约回链的支付（履约失败或崩溃残留）、
// 被标记的支付（金额不一致、元数据无法解析）。
func (oc *OpsController) UnlinkedPayments(c *gin.Context) {
	limit := cast.ToInt(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	ps, err := oc.payments.ListForReconciliation(c.Request.Context(), limit)
	if err != nil {
		response.ServerError(c, err)
		return
	}

	response.Data(c, gin.H{
		"payments": ps,
		"count":    len(ps),
	})
}

// SpecialistEarnings 专家收入汇总
// GET /v1/ops/specialists/:specialist_id/earnings
func (oc *OpsController) SpecialistEarnings(c *gin.Context) {
	specialistID := c.Param("specialist_id")

	ctx := c.Request.Context()
	sp, err := oc.users.GetSpecialist(ctx, specialistID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			response.Abort404(c, "专家不存在")
			return
		}
		response.ServerError(c, err)
		return
	}

	list, err := oc.earnings.ListBySpecialist(ctx, specialistID)
	if err != nil {
		response.ServerError(c, err)
		return
	}
	total, err := oc.earnings.TotalAvailable(ctx, specialistID)
	if err != nil {
		response.ServerError(c, err)
		return
	}

	response.Data(c, gin.H{
		"specialist": gin.H{
			"id":       sp.ID,
			"nickname": sp.Nickname,
		},
		"earnings":        list,
		"total_available": total,
	})
}
