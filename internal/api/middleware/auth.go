package middleware

import (
	"strings"

	"wine-pairing/internal/core/auth"
	"wine-pairing/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const principalKey = "principal"

// TokenParser 驗證存取令牌
type TokenParser interface {
	ParseToken(raw string) (auth.Principal, error)
}

// Auth 驗證 Bearer 令牌並把呼叫者放入 context；失敗回 401
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			abortWithError(c, &common.UnauthorizedError{Reason: "missing bearer token"})
			return
		}

		p, err := parser.ParseToken(strings.TrimSpace(raw))
		if err != nil {
			common.LogDebug("Token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			abortWithError(c, err)
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// PrincipalFrom 取出 Auth 放入的呼叫者
func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

func abortWithError(c *gin.Context, err error) {
	status, body := common.ToResponse(err)
	c.AbortWithStatusJSON(status, body)
}
