package earning

import "errors"

// Status 收入状态
type Status string

const (
	StatusAvailable Status = "available" // 可提现
	StatusWithheld  Status = "withheld"  // 暂缓发放
)

// Validate 验证收入记录的金额不变量：gross == fee + net
func (e *Earning) Validate() error {
	if e.PaymentID == 0 {
		return errors.New("payment_id is required")
	}
	if e.SpecialistID == "" {
		return errors.New("specialist_id is required")
	}
	if e.GrossAmount != e.PlatformFeeAmount+e.NetAmount {
		return errors.New("gross amount must equal platform fee plus net amount")
	}
	return nil
}
