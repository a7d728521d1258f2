package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// generateOpaqueToken creates a cryptographically random 40-character hex
// token, used for both verification codes and password reset tokens. The two
// are generated independently and never derived from one another.
func generateOpaqueToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
