package session

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Verifier decides whether a supplied admin secret is acceptable.
type Verifier interface {
	Verify(secret string) bool
}

// PlainVerifier compares against a single shared password.
type PlainVerifier struct {
	password string
}

func NewPlainVerifier(password string) PlainVerifier {
	return PlainVerifier{password: password}
}

func (v PlainVerifier) Verify(secret string) bool {
	if v.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(v.password)) == 1
}

// BcryptVerifier checks the secret against a bcrypt hash.
type BcryptVerifier struct {
	hash []byte
}

func NewBcryptVerifier(hash string) (BcryptVerifier, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return BcryptVerifier{}, err
	}
	return BcryptVerifier{hash: []byte(hash)}, nil
}

func (v BcryptVerifier) Verify(secret string) bool {
	return bcrypt.CompareHashAndPassword(v.hash, []byte(secret)) == nil
}

// HashPassword returns a bcrypt hash suitable for NewBcryptVerifier.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
