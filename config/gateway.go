package config

import "shine/pkg/config"

func init() {
	config.Add("gateway", func() map[string]interface{} {
		return map[string]interface{}{
			// 当前启用的网关提供商：paystack, alipay, wechat
			"provider": config.Env("GATEWAY_PROVIDER", "paystack"),

			// 网关调用超时（秒）与瞬时故障重试次数
			"timeout":     config.Env("GATEWAY_TIMEOUT", 10),
			"max_retries": config.Env("GATEWAY_MAX_RETRIES", 3),

			"paystack": map[string]interface{}{
				"base_url":   config.Env("PAYSTACK_BASE_URL", "https://api.paystack.co"),
				"secret_key": config.Env("PAYSTACK_SECRET_KEY", ""),
			},

			"alipay": map[string]interface{}{
				"app_id":        config.Env("ALIPAY_APP_ID", ""),
				"private_key":   config.Env("ALIPAY_PRIVATE_KEY", ""),
				"public_key":    config.Env("ALIPAY_PUBLIC_KEY", ""),
				"notify_url":    config.Env("ALIPAY_NOTIFY_URL", ""),
				"is_production": config.Env("ALIPAY_IS_PRODUCTION", false),
			},

			"wechat": map[string]interface{}{
				"app_id":      config.Env("WECHAT_APP_ID", ""),
				"mch_id":      config.Env("WECHAT_MCH_ID", ""),
				"serial_no":   config.Env("WECHAT_SERIAL_NO", ""),
				"private_key": config.Env("WECHAT_PRIVATE_KEY", ""),
				"apiv3_key":   config.Env("WECHAT_APIV3_KEY", ""),
				"notify_url":  config.Env("WECHAT_NOTIFY_URL", ""),
			},
		}
	})
}

// GatewayConfig 网关通用配置
type GatewayConfig struct {
	Timeout    int // 秒
	MaxRetries int
}

// PaystackConfig 托管收银台配置
type PaystackConfig struct {
	BaseURL    string
	SecretKey  string
	Timeout    int
	MaxRetries int
}

// AlipayConfig 支付宝配置
type AlipayConfig struct {
	AppID        string
	PrivateKey   string
	PublicKey    string
	NotifyURL    string
	IsProduction bool
}

// WechatConfig 微信支付配置
type WechatConfig struct {
	AppID      string
	MchID      string
	SerialNo   string
	PrivateKey string
	APIv3Key   string
	NotifyURL  string
}
