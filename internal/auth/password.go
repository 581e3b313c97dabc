package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength - bcrypt учитывает только первые 72 байта.
const MaxPasswordLength = 72

// ErrPasswordTooLong возвращается для паролей длиннее MaxPasswordLength байт.
var ErrPasswordTooLong = errors.New("password is too long")

// HashPassword хеширует пароль с помощью bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword сравнивает пароль с bcrypt-хешем.
func CheckPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
