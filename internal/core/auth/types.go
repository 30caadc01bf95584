package auth

import "time"

// 方案
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// Principal 已認證的呼叫者
type Principal struct {
	UserID string
	Plan   string
}

// User 使用者帳號
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Plan         string    `json:"plan"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal 轉為呼叫者身分
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Plan: u.Plan}
}

// Token 簽發的存取令牌
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// RegisterRequest 註冊請求
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest 登入請求
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserView 對外輸出的使用者資料
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

// View 去除敏感欄位
func (u *User) View() UserView {
	return UserView{ID: u.ID, Email: u.Email, Plan: u.Plan, CreatedAt: u.CreatedAt}
}
