package credentials

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength applies to passwords hashed with HashPassword.
const MinPasswordLength = 8

var ErrPasswordTooShort = errors.New("password too short")

// HashPassword returns a bcrypt hash suitable for ETC_LOGIN_PASSWORD_BCRYPT.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("credentials: can't hash password, %w", err)
	}
	return string(hash), nil
}
