package cellar

import (
	"net/http"

	"wine-pairing/internal/api/handlers"
	cellarService "wine-pairing/internal/core/cellar"

	"github.com/gin-gonic/gin"
)

// Handler 私人酒窖處理程序；所有路由都需要登入
type Handler struct {
	cellarService *cellarService.Service
}

// NewHandler 創建酒窖處理程序
func NewHandler(cellarService *cellarService.Service) *Handler {
	return &Handler{cellarService: cellarService}
}

// HandleCreate 新增酒窖條目
func (h *Handler) HandleCreate(c *gin.Context) {
	p, ok := handlers.Principal(c)
	if !ok {
		return
	}
	var in cellarService.EntryInput
	if !handlers.BindJSON(c, &in) {
		return
	}

	entry, err := h.cellarService.Create(c.Request.Context(), p, in)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// HandleList 列出呼叫者的酒窖
func (h *Handler) HandleList(c *gin.Context) {
	p, ok := handlers.Principal(c)
	if !ok {
		return
	}

	entries, err := h.cellarService.List(c.Request.Context(), p)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": entries, "total": len(entries)})
}

// HandleGet 取得單一條目；不屬於呼叫者時回 404
func (h *Handler) HandleGet(c *gin.Context) {
	p, ok := handlers.Principal(c)
	if !ok {
		return
	}

	entry, err := h.cellarService.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// HandleUpdate 更新條目
func (h *Handler) HandleUpdate(c *gin.Context) {
	p, ok := handlers.Principal(c)
	if !ok {
		return
	}
	var in cellarService.EntryInput
	if !handlers.BindJSON(c, &in) {
		return
	}

	entry, err := h.cellarService.Update(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// HandleDelete 刪除條目
func (h *Handler) HandleDelete(c *gin.Context) {
	p, ok := handlers.Principal(c)
	if !ok {
		return
	}

	if err := h.cellarService.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleToggleFavorite 切換最愛標記
func (h *Handler) HandleToggleFavorite(c *gin.Context) {
	p, ok := handlers.Principal(c)
	if !ok {
		return
	}

	entry, err := h.cellarService.ToggleFavorite(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}
