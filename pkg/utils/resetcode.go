package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	resetCodeMin = 100000
	resetCodeMax = 999999
)

// GenerateResetCode returns a 6-digit numeric code drawn uniformly from
// [100000, 999999]. crypto/rand is used because the code is a bearer
// credential for the SMS reset path.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(resetCodeMax-resetCodeMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+resetCodeMin), nil
}
