package validate

import (
	"errors"
	"testing"

	"github.com/bomberman-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_MissingRequired(t *testing.T) {
	err := Struct(domain.RegisterRequest{Email: "a@x.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingInput))
	assert.ErrorContains(t, err, "Password")
	assert.ErrorContains(t, err, "OTP")
}

func TestStruct_InvalidTag(t *testing.T) {
	type signup struct {
		Email string `validate:"required,email"`
	}
	err := Struct(signup{Email: "nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestStruct_OK(t *testing.T) {
	assert.NoError(t, Struct(domain.LoginRequest{Email: "a@x.com", Password: "pw"}))
}
