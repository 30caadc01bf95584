// Package handlers 共用的 HTTP 回應與請求解析工具
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"wine-pairing/internal/api/middleware"
	"wine-pairing/internal/core/auth"
	"wine-pairing/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 將領域錯誤轉為結構化回應
func RespondError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrorResponse{
			Code:    common.ErrCodeGatewayTimeout,
			Message: "請求逾時",
		})
		return
	}

	status, body := common.ToResponse(err)
	if status >= http.StatusInternalServerError {
		common.LogError("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestid.Get(c)),
			zap.String("kind", string(common.KindOf(err))),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// BindJSON 解析請求體；格式錯誤時直接回 400 並回傳 false
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		common.LogWarn("請求格式無效",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestid.Get(c)),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: common.ErrInvalidRequest.Message,
			Details: gin.H{"reason": err.Error()},
		})
		return false
	}
	return true
}

// Principal 取出已認證的呼叫者；缺少時回 401 並回傳 false
func Principal(c *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		RespondError(c, &common.UnauthorizedError{Reason: "missing principal"})
		return auth.Principal{}, false
	}
	return p, true
}

// QueryInt 讀取整數查詢參數，空值回傳 def
func QueryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewValidationError(name, "must be an integer")
	}
	return v, nil
}
