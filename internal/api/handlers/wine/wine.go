package wine

import (
	"net/http"

	"wine-pairing/internal/api/handlers"
	"wine-pairing/internal/core/catalog"
	"wine-pairing/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Handler 酒款與菜色目錄處理程序，不需登入
type Handler struct {
	catalog *catalog.Service
}

// NewHandler 創建目錄處理程序
func NewHandler(catalogService *catalog.Service) *Handler {
	return &Handler{catalog: catalogService}
}

// HandleList 依條件查詢酒款
func (h *Handler) HandleList(c *gin.Context) {
	var f catalog.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		handlers.RespondError(c, common.NewValidationError("query", err.Error()))
		return
	}

	result, err := h.catalog.Query(c.Request.Context(), f)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleFilters 回傳下拉選單用的可篩選值
func (h *Handler) HandleFilters(c *gin.Context) {
	filters, err := h.catalog.Filters(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, filters)
}

// HandleGet 取得單一酒款
func (h *Handler) HandleGet(c *gin.Context) {
	w, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, w)
}

// HandleDishes 列出菜色，可依分類過濾
func (h *Handler) HandleDishes(c *gin.Context) {
	dishes, err := h.catalog.ListDishes(c.Request.Context(), c.Query("category"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dishes, "total": len(dishes)})
}
