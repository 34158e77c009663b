package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Length is the number of digits in a generated code.
const Length = 6

var max = big.NewInt(1000000)

// Generate returns a 6-digit numeric code, left-zero-padded, drawn uniformly
// from crypto/rand.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
