package model

import "github.com/google/uuid"

// TokenManager generates and validates session tokens.
type TokenManager interface {
	GenerateSessionToken(userID, sessionID uuid.UUID) (string, error)
	ParseSessionToken(token string) (userID, sessionID uuid.UUID, err error)
}

// PasswordHasher is an opaque one-way hash-and-verify capability for
// passwords. Plaintext never reaches storage.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}
