package storage

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameExists      = errors.New("username already exists")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountNumberExists = errors.New("account number already exists")
	ErrConcurrentUpdate    = errors.New("account was modified concurrently")
	ErrNegativeBalance     = errors.New("balance cannot be negative")
	ErrTransactionExists   = errors.New("transaction already exists")
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// pgErrorCode возвращает SQLSTATE ошибки PostgreSQL или пустую строку.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
