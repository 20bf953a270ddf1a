package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID 为每个请求注入追踪ID
//
// 调用方自带的X-Request-ID原样沿用，否则生成新的UUID；
// ID同时写入gin上下文与响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// GetRequestID 获取当前请求的追踪ID，中间件未挂载时返回空串
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
