package user

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// idBytes is the number of random bytes in a user id; hex encoding doubles
// it to 16 characters.
const idBytes = 8

// NewID generates a short random hex identifier for a user.
func NewID() (string, error) {
	buf := make([]byte, idBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate user id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
