package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenLength is the raw byte length of a session token (256 bits).
const tokenLength = 32

// NewToken generates a random opaque session token, hex encoded.
func NewToken() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
