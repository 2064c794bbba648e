package middlewares

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shine/pkg/logger"
)

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Logger 记录请求日志
// 请求体只在出错时进日志，支付参考号等敏感度不高的字段照常记录
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		start := time.Now()
		c.Next()

		cost := time.Since(start)
		status := c.Writer.Status()

		logFields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("ip", c.ClientIP()),
			zap.String("time", cost.String()),
		}

		if status >= 400 {
			logFields = append(logFields,
				zap.String("request_body", string(requestBody)),
				zap.String("response_body", w.body.String()),
				zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
			)
			if status >= 500 {
				logger.Error("HTTP", logFields...)
			} else {
				logger.Warn("HTTP", logFields...)
			}
		} else {
			logger.Info("HTTP", logFields...)
		}
	}
}
