package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/bankdash/internal/banking"
	"github.com/labstack/echo/v4"
)

// ErrorBody - тело ответа для ошибок доменной логики.
type ErrorBody struct {
	Code    banking.ErrorCode `json:"code"`
	Message string            `json:"message"`
}

// statusForCode сопоставляет кодам доменных ошибок HTTP-статусы.
func statusForCode(code banking.ErrorCode) int {
	switch code {
	case banking.CodeInsufficientFunds:
		return http.StatusPaymentRequired
	case banking.CodeAccountNotFound:
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

// bankingHTTPError возвращает HTTP-ошибку, если err - *banking.WithdrawalError.
func bankingHTTPError(err error) (*echo.HTTPError, bool) {
	var werr *banking.WithdrawalError
	if !errors.As(err, &werr) {
		return nil, false
	}
	return echo.NewHTTPError(statusForCode(werr.Code), ErrorBody{Code: werr.Code, Message: werr.Message}), true
}

func accountNotFound() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, ErrorBody{Code: banking.CodeAccountNotFound, Message: "Account not found"})
}
