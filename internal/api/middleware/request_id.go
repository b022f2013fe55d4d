package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey = "request_id"
	// 超长的外部 Request-ID 视为非法，防止日志注入
	requestIDMaxLen = 64
)

// RequestID 请求链路 ID 中间件
// 优先沿用调用方的 X-Request-ID，缺失或非法时生成新 UUID，
// 同时写入 gin.Context 与响应头，便于日志串联
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" || len(id) > requestIDMaxLen {
			id = uuid.New().String()
		}

		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)

		c.Next()
	}
}
