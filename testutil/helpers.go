package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	defaultEmailRandomLength = 10
	phoneNumberDigits        = 8
)

func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}

	return hex.EncodeToString(bytes)[:length]
}

func RandomInt(minVal, maxVal int64) int64 {
	if minVal >= maxVal {
		return minVal
	}

	n, err := rand.Int(rand.Reader, big.NewInt(maxVal-minVal+1))
	if err != nil {
		return minVal
	}

	return n.Int64() + minVal
}

func RandomEmail() string {
	return fmt.Sprintf("test_%s@example.com", RandomString(defaultEmailRandomLength))
}

// RandomPhoneNumber returns a ten digit number in the local 09xx format.
func RandomPhoneNumber() string {
	return fmt.Sprintf("09%0*d", phoneNumberDigits, RandomInt(0, 99_999_999))
}
