package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for every stored password
const PasswordCost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest input bcrypt accepts
const MaxPasswordBytes = 72

var (
	// ErrHashing is returned when a password cannot be hashed or a stored hash is malformed
	ErrHashing = errors.New("password hashing failed")
	// ErrPasswordTooLong is a client input error, not a hashing failure
	ErrPasswordTooLong = fmt.Errorf("password exceeds %d bytes", MaxPasswordBytes)
)

// HashPassword hashes a plaintext password with a random salt embedded in the result.
// Length is counted in bytes, so multi-byte characters reach the limit sooner.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashing, err)
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches the stored hash.
// A mismatch is not an error; a hash that cannot be parsed is.
func ComparePassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrHashing, err)
	}
}
