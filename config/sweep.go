package config

import "shine/pkg/config"

func init() {
	config.Add("sweep", func() map[string]interface{} {
		return map[string]interface{}{
			// 清扫周期（分钟）
			"interval_minutes": config.Env("SWEEP_INTERVAL_MINUTES", 60),

			// pending 支付的保留时长（小时），超过即置为 canceled
			"pending_ttl_hours": config.Env("SWEEP_PENDING_TTL_HOURS", 24),
		}
	})
}
