// Package banking содержит чистую доменную логику счетов: проверку новых счетов
// и проведение списаний и пополнений. Пакет не выполняет I/O и не синхронизирует
// доступ к счёту, сериализацию обновлений обеспечивает слой хранения.
package banking

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountOwner описывает владельца счёта.
type AccountOwner struct {
	ID        string
	FirstName string
	LastName  string
}

// Account - снимок состояния счёта. После создания изменяется только Balance.
type Account struct {
	ID       string
	Balance  decimal.Decimal
	Currency string
	Owner    AccountOwner
}

// WithdrawalRequest - запрос на списание средств.
type WithdrawalRequest struct {
	AccountID string
	Amount    decimal.Decimal
	Currency  string
	Timestamp time.Time
}

// DepositRequest - запрос на пополнение счёта.
type DepositRequest struct {
	AccountID string
	Amount    decimal.Decimal
	Currency  string
	Timestamp time.Time
}

// TransactionKind - тип проведённой операции.
type TransactionKind string

const (
	TransactionKindWithdrawal TransactionKind = "withdrawal"
	TransactionKindDeposit    TransactionKind = "deposit"
)

// Transaction - неизменяемая запись о проведённой операции.
type Transaction struct {
	ID               string
	Kind             TransactionKind
	Amount           decimal.Decimal
	Currency         string
	Timestamp        time.Time
	RemainingBalance decimal.Decimal
}

// WithdrawalResult - результат успешного списания.
type WithdrawalResult struct {
	Success     bool
	Message     string
	Transaction Transaction
}

// DepositResult - результат успешного пополнения.
type DepositResult struct {
	Success     bool
	Message     string
	Transaction Transaction
}
