package util

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// SessionTokenPrefix is the prefix for session tokens.
	SessionTokenPrefix = "ses"
	// InviteTokenPrefix is the prefix for invitation tokens.
	InviteTokenPrefix = "inv"
	// TokenLength is the length of the random part in bytes.
	TokenLength = 32
	// BCryptCost is the cost factor for bcrypt hashing.
	BCryptCost = 12
)

// GenerateToken generates a secure token with format: <prefix>_<random_base64>
func GenerateToken(prefix string) (string, error) {
	randomBytes := make([]byte, TokenLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	// URL-safe base64 without padding for cleaner tokens
	randomPart := base64.RawURLEncoding.EncodeToString(randomBytes)
	return fmt.Sprintf("%s_%s", prefix, randomPart), nil
}

// HashToken hashes a token using bcrypt for at-rest storage.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), BCryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hash), nil
}

// VerifyToken compares a provided token with its stored hash.
func VerifyToken(providedToken, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(providedToken)) == nil
}
