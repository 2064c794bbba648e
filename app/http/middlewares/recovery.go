package middlewares

import (
	"net"
	"net/http/httputil"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shine/pkg/logger"
	"shine/pkg/response"
)

// Recovery 从 panic 中恢复并记录堆栈
// 客户端断开导致的 broken pipe 不算服务端错误，只记日志不回包
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				var brokenPipe bool
				if ne, ok := err.(*net.OpError); ok {
					if se, ok := ne.Err.(*os.SyscallError); ok {
						errStr := strings.ToLower(se.Error())
						if strings.Contains(errStr, "broken pipe") ||
							strings.Contains(errStr, "connection reset by peer") {
							brokenPipe = true
						}
					}
				}

				httpRequest, _ := httputil.DumpRequest(c.Request, false)
				logger.Error("Recovery",
					zap.Any("error", err),
					zap.String("request", string(httpRequest)),
					zap.Stack("stacktrace"),
				)

				if brokenPipe {
					c.Error(err.(error))
					c.Abort()
					return
				}

				response.Abort500(c, "服务器内部错误，请稍后再试")
			}
		}()
		c.Next()
	}
}
