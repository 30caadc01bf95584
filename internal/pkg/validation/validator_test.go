package validation

import (
	"testing"

	"wine-pairing/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Richness int `json:"richness" validate:"gte=0,lte=10"`
}

type request struct {
	Email   string   `json:"email" validate:"required,email"`
	Name    string   `json:"name,omitempty" validate:"max=5"`
	Profile *profile `json:"taste_profile" validate:"omitempty"`
}

func TestValidator_Struct(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(request{Email: "a@b.de"}))

	err := v.Struct(request{Name: "toolong", Profile: &profile{Richness: 11}})
	require.Error(t, err)

	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "is required", ve.Fields["email"])
	assert.Equal(t, "must not exceed 5 characters", ve.Fields["name"])
	assert.Equal(t, "must be less than or equal to 10", ve.Fields["taste_profile.richness"])
}
