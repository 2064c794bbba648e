// Package gateway 支付网关适配器工厂
package gateway

import (
	"fmt"

	"shine/config"
	"shine/pkg/gateway/alipay"
	"shine/pkg/gateway/paystack"
	"shine/pkg/gateway/types"
	"shine/pkg/gateway/wechat"
)

// NewAdapter 按提供商创建网关适配器
func NewAdapter(provider types.Provider, cfg interface{}) (types.Adapter, error) {
	switch provider {
	case types.ProviderPaystack:
		pcfg, ok := cfg.(config.PaystackConfig)
		if !ok {
			return nil, fmt.Errorf("invalid paystack config type")
		}
		return paystack.NewAdapter(pcfg), nil

	case types.ProviderAlipay:
		acfg, ok := cfg.(config.AlipayConfig)
		if !ok {
			return nil, fmt.Errorf("invalid alipay config type")
		}
		return alipay.NewAdapter(acfg)

	case types.ProviderWechat:
		wcfg, ok := cfg.(config.WechatConfig)
		if !ok {
			return nil, fmt.Errorf("invalid wechat config type")
		}
		return wechat.NewAdapter(wcfg)

	default:
		return nil, fmt.Errorf("unsupported gateway provider: %s", provider)
	}
}
