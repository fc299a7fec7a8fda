// Package code draws the numeric codes handed out to players: six-digit
// one-time passwords and eight-digit friend codes.
package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	otpMin        = 100000
	otpMax        = 999999
	friendCodeMin = 10000000
	friendCodeMax = 99999999
)

// NewOTP returns a six-digit code drawn uniformly from [100000, 999999].
func NewOTP() (string, error) {
	return between(otpMin, otpMax)
}

// NewFriendCode returns an eight-digit code drawn uniformly from [10000000, 99999999].
func NewFriendCode() (string, error) {
	return between(friendCodeMin, friendCodeMax)
}

func between(lo, hi int64) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(hi-lo+1))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%d", lo+n.Int64()), nil
}
