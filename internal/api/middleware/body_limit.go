package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"edverse/backend/pkg/response"
)

// BodyLimit 请求体大小上限中间件
// 超限的读取由 MaxBytesReader 截断，这里统一转成 413 响应
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		var maxErr *http.MaxBytesError
		for _, ge := range c.Errors {
			if errors.As(ge.Err, &maxErr) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
