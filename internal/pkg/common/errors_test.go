package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToResponse(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		kind   ErrorKind
	}{
		{"validation", NewValidationError("dish", "required"), http.StatusBadRequest, ErrCodeValidation, KindValidation},
		{"not found", &NotFoundError{Resource: "cellar entry", ID: "x"}, http.StatusNotFound, ErrCodeNotFound, KindNotFound},
		{"quota", &QuotaExceededError{Plan: "free", Limit: 10}, http.StatusForbidden, ErrCodeQuotaExceeded, KindQuotaExceeded},
		{"generation", &GenerationError{Err: errors.New("503 from upstream")}, http.StatusBadGateway, ErrCodeGeneration, KindGeneration},
		{"unauthorized", &UnauthorizedError{Reason: "invalid token"}, http.StatusUnauthorized, ErrCodeUnauthorized, KindUnauthorized},
		{"conflict", NewError(ErrCodeConflict, "email already registered", http.StatusConflict, nil), http.StatusConflict, ErrCodeConflict, KindConflict},
		{"wrapped", fmt.Errorf("create entry: %w", NewValidationError("type", "unknown")), http.StatusBadRequest, ErrCodeValidation, KindValidation},
		{"internal", errors.New("disk full"), http.StatusInternalServerError, ErrCodeInternalError, KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ToResponse(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestToResponse_Details(t *testing.T) {
	_, body := ToResponse(&ValidationError{Fields: map[string]string{"email": "email", "password": "min"}})
	assert.Equal(t, map[string]string{"email": "email", "password": "min"}, body.Details)

	_, body = ToResponse(&QuotaExceededError{Plan: "free", Limit: 10})
	assert.Equal(t, 10, body.Details.(map[string]interface{})["limit"])

	// 內部錯誤不外洩細節
	_, body = ToResponse(errors.New("badger: value log corrupted"))
	assert.NotContains(t, body.Message, "badger")
	assert.Nil(t, body.Details)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "validation failed: a: one; b: two", err.Error())
	assert.True(t, IsValidationError(fmt.Errorf("wrap: %w", err)))
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}
