package code

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	otpPattern        = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	friendCodePattern = regexp.MustCompile(`^[1-9][0-9]{7}$`)
)

func TestNewOTP_Format(t *testing.T) {
	for range 500 {
		c, err := NewOTP()
		require.NoError(t, err)
		assert.Regexp(t, otpPattern, c)
	}
}

func TestNewFriendCode_Format(t *testing.T) {
	for range 500 {
		c, err := NewFriendCode()
		require.NoError(t, err)
		assert.Regexp(t, friendCodePattern, c)
	}
}

func TestBetween_StaysInRange(t *testing.T) {
	seen := map[int64]bool{}
	for range 200 {
		s, err := between(3, 5)
		require.NoError(t, err)
		n, err := strconv.ParseInt(s, 10, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(3))
		assert.LessOrEqual(t, n, int64(5))
		seen[n] = true
	}
	// Both bounds are reachable.
	assert.True(t, seen[3])
	assert.True(t, seen[5])
}
