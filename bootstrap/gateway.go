package bootstrap

import (
	"fmt"

	btsConfig "shine/config"
	"shine/pkg/config"
	"shine/pkg/gateway"
	"shine/pkg/gateway/types"
	"shine/pkg/logger"
)

// SetupGateway 按配置初始化支付网关适配器
func SetupGateway() types.Adapter {
	provider := types.Provider(config.GetString("gateway.provider", "paystack"))
	logger.InfoString("Gateway", "Setup", fmt.Sprintf("正在初始化支付网关 [%s]...", provider))

	adapter, err := gateway.NewAdapter(provider, providerConfig(provider))
	if err != nil {
		logger.ErrorString("Gateway", "Setup", fmt.Sprintf("支付网关初始化失败: %v", err))
		return nil
	}

	logger.InfoString("Gateway", "Setup", fmt.Sprintf("支付网关初始化成功 [%s]", provider))
	return adapter
}

// providerConfig 组装各提供商的配置结构
func providerConfig(provider types.Provider) interface{} {
	switch provider {
	case types.ProviderAlipay:
		return btsConfig.AlipayConfig{
			AppID:        config.GetString("gateway.alipay.app_id"),
			PrivateKey:   config.GetString("gateway.alipay.private_key"),
			PublicKey:    config.GetString("gateway.alipay.public_key"),
			NotifyURL:    config.GetString("gateway.alipay.notify_url"),
			IsProduction: config.GetBool("gateway.alipay.is_production"),
		}
	case types.ProviderWechat:
		return btsConfig.WechatConfig{
			AppID:      config.GetString("gateway.wechat.app_id"),
			MchID:      config.GetString("gateway.wechat.mch_id"),
			SerialNo:   config.GetString("gateway.wechat.serial_no"),
			PrivateKey: config.GetString("gateway.wechat.private_key"),
			APIv3Key:   config.GetString("gateway.wechat.apiv3_key"),
			NotifyURL:  config.GetString("gateway.wechat.notify_url"),
		}
	default:
		return btsConfig.PaystackConfig{
			BaseURL:    config.GetString("gateway.paystack.base_url"),
			SecretKey:  config.GetString("gateway.paystack.secret_key"),
			Timeout:    config.GetInt("gateway.timeout", 10),
			MaxRetries: config.GetInt("gateway.max_retries", 3),
		}
	}
}
