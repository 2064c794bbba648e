package middlewares

import (
	"github.com/gin-gonic/gin"

	"shine/pkg/response"
)

// AuthContext 把上游网关注入的用户身份解析进 gin 上下文
//
// 身份是每个请求自己的事，进程里没有任何全局登录状态。
// 未携带身份的请求照常放行（游客支付），需要强制登录的路由
// 再叠加 AuthRequired。
func AuthContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 令牌校验在接入层完成，这里只消费透传的用户标识
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

// AuthRequired 拒绝没有用户身份的请求
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == "" {
			response.Abort400(c, "需要登录")
			return
		}
		c.Next()
	}
}

// CurrentUserID 读取当前请求的用户标识，未登录返回空串
func CurrentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
