package auth

import (
	"crypto/rand"
	"encoding/base64"
)

const tokenBytes = 32

// NewSessionToken returns a URL-safe random token with 256 bits of entropy.
func NewSessionToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
