package apitest

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type authConfig struct {
	// SkippedPathPrefixes 不需要认证的路径前缀
	SkippedPathPrefixes []string
	// Validate 校验请求并返回写入上下文的认证信息
	Validate func(c *gin.Context) (map[any]any, error)
}

func authWithConfig(config authConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.Validate == nil || skippedPathPrefixes(c, config.SkippedPathPrefixes...) {
			c.Next()
			return
		}

		result, err := config.Validate(c)
		if err != nil {
			errorBody(c, http.StatusUnauthorized, err.Error())
			return
		}

		ctx := c.Request.Context()
		for k, v := range result {
			ctx = context.WithValue(ctx, k, v)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func skippedPathPrefixes(c *gin.Context, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(c.Request.URL.Path, prefix) {
			return true
		}
	}
	return false
}
