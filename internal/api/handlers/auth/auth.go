package auth

import (
	"net/http"

	"wine-pairing/internal/api/handlers"
	authService "wine-pairing/internal/core/auth"

	"github.com/gin-gonic/gin"
)

// SessionResponse 註冊與登入的回應
type SessionResponse struct {
	User  authService.UserView `json:"user"`
	Token *authService.Token   `json:"token"`
}

// Handler 帳號處理程序
type Handler struct {
	authService *authService.Service
}

// NewHandler 創建帳號處理程序
func NewHandler(authService *authService.Service) *Handler {
	return &Handler{authService: authService}
}

// HandleRegister 建立帳號
func (h *Handler) HandleRegister(c *gin.Context) {
	var req authService.RegisterRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{User: user.View(), Token: token})
}

// HandleLogin 登入並簽發令牌
func (h *Handler) HandleLogin(c *gin.Context) {
	var req authService.LoginRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{User: user.View(), Token: token})
}

// HandleMe 目前呼叫者的帳號資料
func (h *Handler) HandleMe(c *gin.Context) {
	p, ok := handlers.Principal(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), p)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.View())
}
