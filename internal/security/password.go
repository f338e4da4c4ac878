package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// a wrong password is an expected outcome during login, not an internal failure.
var ErrInvalidCredential = errors.New("invalid credential")

// HashPassword hashes a plain text password with bcrypt.
// bcrypt generates a fresh salt per call, so hashing the same password twice yields different digests.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// helper that compares a bcrypt hash with a plaintext password.

func CheckPassword(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))

	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredential
		}

		return err
	}

	return nil
}
