package pairing

import (
	"net/http"

	"wine-pairing/internal/api/handlers"
	pairingService "wine-pairing/internal/core/pairing"
	"wine-pairing/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HistoryResponse 推薦紀錄
type HistoryResponse struct {
	Items []*pairingService.Pairing `json:"items"`
	Total int                       `json:"total"`
}

// Handler 配酒推薦處理程序
type Handler struct {
	pairingService *pairingService.Service
}

// NewHandler 創建配酒處理程序
func NewHandler(pairingService *pairingService.Service) *Handler {
	return &Handler{pairingService: pairingService}
}

// HandlePair 依菜色產生配酒推薦
func (h *Handler) HandlePair(c *gin.Context) {
	p, ok := handlers.Principal(c)
	if !ok {
		return
	}

	common.LogInfo("開始處理配酒請求",
		zap.String("request_id", requestid.Get(c)),
		zap.String("user_id", p.UserID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req pairingService.Request
	if !handlers.BindJSON(c, &req) {
		return
	}

	result, err := h.pairingService.Pair(c.Request.Context(), p, req)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleHistory 列出呼叫者的推薦紀錄，新到舊
func (h *Handler) HandleHistory(c *gin.Context) {
	p, ok := handlers.Principal(c)
	if !ok {
		return
	}
	limit, err := handlers.QueryInt(c, "limit", pairingService.DefaultHistoryLimit)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	items, err := h.pairingService.History(c.Request.Context(), p, limit)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{Items: items, Total: len(items)})
}
