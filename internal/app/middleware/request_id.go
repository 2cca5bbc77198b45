package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dormguard-http-service/pkg/logger"

	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// RequestID 为每个请求分配ID并记录访问日志。客户端传入的ID原样透传，
// 便于跨服务排查
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set("requestID", requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
