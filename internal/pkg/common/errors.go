package common

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string      `json:"code"`              // 錯誤代碼
	Message string      `json:"message"`           // 錯誤信息
	Details interface{} `json:"details,omitempty"` // 詳細信息（欄位錯誤、額度等）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ErrorKind 領域錯誤分類
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindQuotaExceeded ErrorKind = "quota_exceeded"
	KindGeneration    ErrorKind = "generation"
	KindUnauthorized  ErrorKind = "unauthorized"
	KindConflict      ErrorKind = "conflict"
	KindInternal      ErrorKind = "internal"
)

// ValidationError 表示驗證錯誤，Fields 為欄位 -> 原因
type ValidationError struct {
	Fields map[string]string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError 創建單一欄位的驗證錯誤
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError 資源不存在（或不屬於呼叫者）
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// QuotaExceededError 方案額度已滿
type QuotaExceededError struct {
	Plan  string
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("plan %q allows at most %d cellar entries", e.Plan, e.Limit)
}

// GenerationError 外部文字生成服務失敗
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("text generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// UnauthorizedError 未認證
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	return "unauthorized: " + e.Reason
}

// KindOf 取得錯誤分類
func KindOf(err error) ErrorKind {
	var (
		ve *ValidationError
		nf *NotFoundError
		qe *QuotaExceededError
		ge *GenerationError
		ue *UnauthorizedError
		ce *CustomError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &nf):
		return KindNotFound
	case errors.As(err, &qe):
		return KindQuotaExceeded
	case errors.As(err, &ge):
		return KindGeneration
	case errors.As(err, &ue):
		return KindUnauthorized
	case errors.As(err, &ce) && ce.Status == http.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}

// ToResponse 將錯誤轉為 HTTP 狀態碼與結構化響應
func ToResponse(err error) (int, ErrorResponse) {
	var (
		ve *ValidationError
		nf *NotFoundError
		qe *QuotaExceededError
		ge *GenerationError
		ue *UnauthorizedError
		ce *CustomError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorResponse{Code: ErrCodeValidation, Message: "請求參數驗證失敗", Details: ve.Fields}
	case errors.As(err, &nf):
		return http.StatusNotFound, ErrorResponse{Code: ErrCodeNotFound, Message: nf.Error(), Details: map[string]string{"resource": nf.Resource}}
	case errors.As(err, &qe):
		return http.StatusForbidden, ErrorResponse{Code: ErrCodeQuotaExceeded, Message: qe.Error(), Details: map[string]interface{}{"plan": qe.Plan, "limit": qe.Limit}}
	case errors.As(err, &ge):
		return http.StatusBadGateway, ErrorResponse{Code: ErrCodeGeneration, Message: "推薦生成失敗", Details: map[string]string{"reason": ge.Err.Error()}}
	case errors.As(err, &ue):
		return http.StatusUnauthorized, ErrorResponse{Code: ErrCodeUnauthorized, Message: ue.Error()}
	case errors.As(err, &ce):
		return ce.Status, ErrorResponse{Code: ce.Code, Message: ce.Message}
	default:
		return http.StatusInternalServerError, ErrorResponse{Code: ErrCodeInternalError, Message: ErrInternalError.Message}
	}
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeValidation      = "VALIDATION_ERROR"  // 400
	ErrCodeUnauthorized    = "UNAUTHORIZED"      // 401
	ErrCodeQuotaExceeded   = "QUOTA_EXCEEDED"    // 403
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeConflict        = "CONFLICT"          // 409
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeGeneration         = "GENERATION_ERROR"    // 502
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrConflict        = NewError(ErrCodeConflict, "資源衝突", http.StatusConflict, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)

	// 業務錯誤
	ErrCacheFull     = NewError("CACHE_FULL", "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled = NewError("CACHE_DISABLED", "緩存已禁用", http.StatusServiceUnavailable, nil)
	ErrCacheMiss     = NewError("CACHE_MISS", "緩存未命中", http.StatusNotFound, nil)
)
