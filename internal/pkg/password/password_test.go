package password

import (
	"errors"
	"strings"
	"testing"

	"github.com/bomberman-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerify_RoundTrip(t *testing.T) {
	h, err := Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", h)
	assert.True(t, Verify(h, "hunter22"))
	assert.False(t, Verify(h, "hunter23"))
}

func TestHash_IsSalted(t *testing.T) {
	a, err := Hash("same")
	require.NoError(t, err)
	b, err := Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHash_TooLong(t *testing.T) {
	_, err := Hash(strings.Repeat("x", 73))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestVerify_GarbageHash(t *testing.T) {
	assert.False(t, Verify("not-a-hash", "anything"))
}
