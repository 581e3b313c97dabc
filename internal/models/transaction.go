package models

import (
	"time"

	"github.com/agamariel/bankdash/internal/banking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction - строка таблицы transactions.
type Transaction struct {
	ID               uuid.UUID       `db:"id"`
	AccountID        uuid.UUID       `db:"account_id"`
	Kind             string          `db:"kind"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	RemainingBalance decimal.Decimal `db:"remaining_balance"`
	Description      string          `db:"description"`
	CreatedAt        time.Time       `db:"created_at"`
}

// NewTransaction строит строку для сохранения из доменной транзакции.
func NewTransaction(accountID uuid.UUID, tx banking.Transaction, description string) (*Transaction, error) {
	id, err := uuid.Parse(tx.ID)
	if err != nil {
		return nil, err
	}
	return &Transaction{
		ID:               id,
		AccountID:        accountID,
		Kind:             string(tx.Kind),
		Amount:           tx.Amount,
		Currency:         tx.Currency,
		RemainingBalance: tx.RemainingBalance,
		Description:      description,
		CreatedAt:        tx.Timestamp,
	}, nil
}

// MoneyRequest - тело запроса на списание или пополнение.
type MoneyRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
}

// TransactionResponse - DTO транзакции.
type TransactionResponse struct {
	ID               uuid.UUID       `json:"id"`
	AccountID        uuid.UUID       `json:"account_id"`
	Kind             string          `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Description      string          `json:"description,omitempty"`
	CreatedAt        string          `json:"created_at"`
}

// ToResponse преобразует транзакцию в DTO.
func (t *Transaction) ToResponse() *TransactionResponse {
	return &TransactionResponse{
		ID:               t.ID,
		AccountID:        t.AccountID,
		Kind:             t.Kind,
		Amount:           t.Amount,
		Currency:         t.Currency,
		RemainingBalance: t.RemainingBalance,
		Description:      t.Description,
		CreatedAt:        t.CreatedAt.Format(time.RFC3339),
	}
}

// MoneyResponse - ответ на списание или пополнение.
type MoneyResponse struct {
	Success     bool                 `json:"success"`
	Message     string               `json:"message"`
	Transaction *TransactionResponse `json:"transaction"`
}
