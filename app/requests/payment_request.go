package requests

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"github.com/thedevsaddam/govalidator"

	"shine/app/models/payment"
)

// CreatePaymentRequest 创建支付会话的请求体
type CreatePaymentRequest struct {
	Amount      int64                  `json:"amount" valid:"required"`
	Currency    string                 `json:"currency" valid:"required"`
	Type        string                 `json:"type" valid:"required"`
	CallbackURL string                 `json:"callback_url"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// ValidateCreatePayment 验证创建支付请求
func ValidateCreatePayment(c *gin.Context) (*CreatePaymentRequest, error) {
	rules := govalidator.MapData{
		"amount":   []string{"required"},
		"currency": []string{"required", "min:3", "max:3"},
		"type":     []string{"required", "in:beauty,laundry,cleaning"},
	}

	messages := govalidator.MapData{
		"amount": []string{
			"required:金额不能为空",
		},
		"currency": []string{
			"required:币种不能为空",
			"min:币种必须是 3 位代码",
			"max:币种必须是 3 位代码",
		},
		"type": []string{
			"required:订单类型不能为空",
			"in:订单类型必须是 beauty、laundry 或 cleaning",
		},
	}

	req, err := ValidateRequest[CreatePaymentRequest](c, rules, messages)
	if err != nil {
		return nil, err
	}

	// 金额必须是正的最小货币单位整数
	if req.Amount <= 0 {
		return nil, fmt.Errorf("金额必须大于 0")
	}

	// 按订单类型验证履约所需的元数据字段
	if err := validateOrderMetadata(payment.OrderType(req.Type), req.Metadata); err != nil {
		return nil, err
	}

	return &req, nil
}

// validateOrderMetadata 各订单类型的履约元数据在创建会话时就要校验齐全，
// 避免支付成功后才发现无法履约
func validateOrderMetadata(t payment.OrderType, metadata map[string]interface{}) error {
	switch t {
	case payment.OrderTypeBeauty:
		if len(cast.ToSlice(metadata["service_type_ids"])) == 0 {
			return fmt.Errorf("至少需要选择一个服务项")
		}
		for _, field := range []string{"date", "time", "address"} {
			if cast.ToString(metadata[field]) == "" {
				return fmt.Errorf("预约信息缺少 %s 字段", field)
			}
		}
	case payment.OrderTypeLaundry:
		if cast.ToInt(metadata["estimated_weight_kg"]) <= 0 {
			return fmt.Errorf("预估重量必须大于 0")
		}
		for _, field := range []string{"pickup_date", "address"} {
			if cast.ToString(metadata[field]) == "" {
				return fmt.Errorf("取件信息缺少 %s 字段", field)
			}
		}
	case payment.OrderTypeCleaning:
		if cast.ToUint64(metadata["service_id"]) == 0 {
			return fmt.Errorf("必须指定保洁服务项")
		}
		for _, field := range []string{"date", "address"} {
			if cast.ToString(metadata[field]) == "" {
				return fmt.Errorf("上门信息缺少 %s 字段", field)
			}
		}
	}
	return nil
}

// WebhookRequest 网关回调的请求体，只消费参考号，结果一律以主动核验为准
type WebhookRequest struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// ValidateWebhook 验证网关回调请求
func ValidateWebhook(c *gin.Context) (*WebhookRequest, error) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, fmt.Errorf("解析 JSON 失败: %w", err)
	}
	if req.Data.Reference == "" {
		return nil, fmt.Errorf("回调缺少支付参考号")
	}
	return &req, nil
}

// AssignSpecialistRequest 洗衣订单接单请求
type AssignSpecialistRequest struct {
	SpecialistID string `json:"specialist_id" valid:"required"`
}

// ValidateAssignSpecialist 验证接单请求
func ValidateAssignSpecialist(c *gin.Context) (*AssignSpecialistRequest, error) {
	rules := govalidator.MapData{
		"specialist_id": []string{"required"},
	}
	messages := govalidator.MapData{
		"specialist_id": []string{"required:专家 ID 不能为空"},
	}

	req, err := ValidateRequest[AssignSpecialistRequest](c, rules, messages)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
