package auth

import (
	"context"
	"testing"
	"time"

	"wine-pairing/internal/infrastructure/store"
	"wine-pairing/internal/pkg/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.Open(store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewService(s, Options{Secret: "test-secret", AccessTTL: time.Hour, BcryptCost: bcrypt.MinCost})
}

func TestService_RegisterLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterRequest{Email: " Anna@Example.com ", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", user.Email)
	assert.Equal(t, PlanFree, user.Plan)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.Equal(t, "Bearer", token.TokenType)

	p, err := svc.ParseToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: user.ID, Plan: PlanFree}, p)

	logged, _, err := svc.Login(ctx, LoginRequest{Email: "ANNA@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	me, err := svc.Me(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", me.View().Email)
}

func TestService_RegisterErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterRequest{Email: "not-an-email", Password: "short"})
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "password")

	_, _, err = svc.Register(ctx, RegisterRequest{Email: "a@b.de", Password: "password1"})
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, RegisterRequest{Email: "A@B.de", Password: "password2"})
	assert.Equal(t, common.KindConflict, common.KindOf(err))
}

func TestService_SetPlan(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterRequest{Email: "vip@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, PlanFree, user.Plan)

	updated, err := svc.SetPlan(ctx, "VIP@example.com", PlanPremium)
	require.NoError(t, err)
	assert.Equal(t, PlanPremium, updated.Plan)

	_, token, err := svc.Login(ctx, LoginRequest{Email: "vip@example.com", Password: "password1"})
	require.NoError(t, err)
	p, err := svc.ParseToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, PlanPremium, p.Plan)

	_, err = svc.SetPlan(ctx, "vip@example.com", "gold")
	assert.True(t, common.IsValidationError(err))

	_, err = svc.SetPlan(ctx, "nobody@example.com", PlanPremium)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}

func TestService_LoginFailures(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, _, err := svc.Register(ctx, RegisterRequest{Email: "a@b.de", Password: "password1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, LoginRequest{Email: "a@b.de", Password: "wrong-password"})
	assert.Equal(t, common.KindUnauthorized, common.KindOf(err))

	_, _, err = svc.Login(ctx, LoginRequest{Email: "nobody@b.de", Password: "password1"})
	assert.Equal(t, common.KindUnauthorized, common.KindOf(err))
}

func TestService_ParseTokenRejects(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ParseToken("garbage")
	assert.Equal(t, common.KindUnauthorized, common.KindOf(err))

	other := NewService(nil, Options{Secret: "other-secret"})
	tok, err := other.IssueToken(&User{ID: "u1", Plan: PlanPremium})
	require.NoError(t, err)
	_, err = svc.ParseToken(tok.AccessToken)
	assert.Equal(t, common.KindUnauthorized, common.KindOf(err))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	raw, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ParseToken(raw)
	assert.Equal(t, common.KindUnauthorized, common.KindOf(err))

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
	raw, err = noExp.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ParseToken(raw)
	assert.Error(t, err)
}

func TestService_PremiumPlanClaim(t *testing.T) {
	svc := newTestService(t)
	tok, err := svc.IssueToken(&User{ID: "u1", Plan: PlanPremium})
	require.NoError(t, err)

	p, err := svc.ParseToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, PlanPremium, p.Plan)
}
