package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// GenerateOTP returns a uniformly random code of exactly digits digits with
// no leading zero.
func GenerateOTP(digits int) (string, error) {
	if digits < 1 {
		return "", fmt.Errorf("otp needs at least one digit")
	}
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	span := new(big.Int).Sub(new(big.Int).Mul(low, big.NewInt(10)), low)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return n.Add(n, low).String(), nil
}

// GenerateUUID returns a random UUID string.
func GenerateUUID() string {
	return uuid.NewString()
}
