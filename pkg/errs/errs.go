// Package errs 定义支付结算链路的错误分类
//
// 幂等闸门命中（记录已存在、已关联）不属于错误，调用方应按成功处理；
// 这里只定义真正需要向上传播的错误哨兵。
package errs

import "errors"

var (
	// ErrDuplicateReference 支付参考号已存在。
	// 参考号必须由调用方全局唯一生成（uuid+时间戳），命中此错误说明调用方有 bug
	ErrDuplicateReference = errors.New("duplicate payment reference")

	// ErrAmountMismatch 网关实际扣款金额与台账入账金额不一致。
	// 涉及篡改显示价格的安全问题，高等级记录日志并标记支付单，绝不静默修正
	ErrAmountMismatch = errors.New("gateway amount does not match ledger amount")

	// ErrInvalidStateTransition 非法的状态流转，拒绝且不产生任何变更
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrUnresolvableBooking 支付成功但预约元数据无法解析
	// （如下单到支付之间服务项被删除）。支付保持 completed 且未关联，
	// 标记给运营人工对账，绝不自动退款
	ErrUnresolvableBooking = errors.New("booking metadata cannot be resolved")

	// ErrGatewayUnavailable 网关网络错误或超时，调用方可以退避重试
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
)
