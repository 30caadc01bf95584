package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wine-pairing/internal/infrastructure/store"
	"wine-pairing/internal/pkg/common"
	"wine-pairing/internal/pkg/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const userPrefix = "user:"

// Options 認證設定
type Options struct {
	Secret     string
	AccessTTL  time.Duration
	BcryptCost int
}

// Service 帳號註冊、登入與令牌驗證
type Service struct {
	users    *store.Entity[User]
	opts     Options
	validate *validation.Validator
}

// NewService 創建認證服務
func NewService(s *store.Store, opts Options) *Service {
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	users := store.NewEntity[User](s, userPrefix).
		WithIndexTransform("email", func(u *User) []string {
			return []string{normalizeEmail(u.Email)}
		}, normalizeEmail)

	return &Service{users: users, opts: opts, validate: validation.New()}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 建立帳號並簽發令牌；新帳號一律為免費方案
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, *Token, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           common.GenerateUUID(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Plan:         PlanFree,
		CreatedAt:    common.Now(),
	}
	err = s.users.Create(ctx, user.ID, user)
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, nil, common.NewError(common.ErrCodeConflict, "email already registered", common.ErrConflict.Status, err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	common.LogInfo("User registered", zap.String("user_id", user.ID), zap.String("plan", user.Plan))

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// Login 驗證密碼並簽發令牌；帳號不存在與密碼錯誤回傳相同錯誤
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, *Token, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByIndex(ctx, "email", req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, &common.UnauthorizedError{Reason: "invalid credentials"}
	}
	if err != nil {
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, nil, &common.UnauthorizedError{Reason: "invalid credentials"}
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// Me 取得呼叫者帳號
func (s *Service) Me(ctx context.Context, p Principal) (*User, error) {
	user, err := s.users.Get(ctx, p.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &common.NotFoundError{Resource: "user", ID: p.UserID}
	}
	return user, err
}

// SetPlan 由管理工具變更帳號方案；新方案在下次簽發令牌時生效
func (s *Service) SetPlan(ctx context.Context, email, plan string) (*User, error) {
	if plan != PlanFree && plan != PlanPremium {
		return nil, common.NewValidationError("plan", "must be one of free, premium")
	}
	user, err := s.users.GetByIndex(ctx, "email", normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, &common.NotFoundError{Resource: "user", ID: email}
	}
	if err != nil {
		return nil, err
	}
	if user.Plan == plan {
		return user, nil
	}
	user.Plan = plan
	if err := s.users.Update(ctx, user.ID, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	common.LogInfo("User plan changed", zap.String("user_id", user.ID), zap.String("plan", plan))
	return user, nil
}

// IssueToken 簽發 HS256 存取令牌，sub 為使用者 ID、plan 為方案
func (s *Service) IssueToken(u *User) (*Token, error) {
	now := time.Now().UTC()
	exp := now.Add(s.opts.AccessTTL)
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"plan": u.Plan,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Token{AccessToken: signed, TokenType: "Bearer", ExpiresAt: exp}, nil
}

// ParseToken 驗證令牌並取出呼叫者
func (s *Service) ParseToken(raw string) (Principal, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.opts.Secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return Principal{}, &common.UnauthorizedError{Reason: "invalid token"}
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, &common.UnauthorizedError{Reason: "invalid claims"}
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Principal{}, &common.UnauthorizedError{Reason: "missing subject"}
	}
	plan, _ := claims["plan"].(string)
	if plan == "" {
		plan = PlanFree
	}
	return Principal{UserID: sub, Plan: plan}, nil
}
