package banking

import "fmt"

// ErrorCode - код ошибки валидации операции. Набор кодов закрыт.
type ErrorCode string

const (
	CodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	CodeInvalidAmount     ErrorCode = "INVALID_AMOUNT"
	CodeAccountNotFound   ErrorCode = "ACCOUNT_NOT_FOUND"
)

// WithdrawalError возвращается при отказе в создании счёта или проведении операции.
type WithdrawalError struct {
	Code    ErrorCode
	Message string
}

func (e *WithdrawalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is сравнивает ошибки по коду, поэтому errors.Is(err, ErrInsufficientFunds)
// срабатывает для любого сообщения.
func (e *WithdrawalError) Is(target error) bool {
	t, ok := target.(*WithdrawalError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrInsufficientFunds = &WithdrawalError{Code: CodeInsufficientFunds}
	ErrInvalidAmount     = &WithdrawalError{Code: CodeInvalidAmount}
	ErrAccountNotFound   = &WithdrawalError{Code: CodeAccountNotFound}
)

func newError(code ErrorCode, format string, args ...interface{}) *WithdrawalError {
	return &WithdrawalError{Code: code, Message: fmt.Sprintf(format, args...)}
}
