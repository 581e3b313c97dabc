package models

import (
	"time"

	"github.com/agamariel/bankdash/internal/banking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account - строка таблицы accounts.
// Version увеличивается при каждом изменении баланса и служит для compare-and-swap.
type Account struct {
	ID             uuid.UUID       `db:"id"`
	Number         string          `db:"number"`
	OwnerID        string          `db:"owner_id"`
	OwnerFirstName string          `db:"owner_first_name"`
	OwnerLastName  string          `db:"owner_last_name"`
	Balance        decimal.Decimal `db:"balance"`
	Currency       string          `db:"currency"`
	Version        int64           `db:"version"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// ToDomain возвращает снимок счёта для доменной логики.
func (a *Account) ToDomain() *banking.Account {
	return &banking.Account{
		ID:       a.ID.String(),
		Balance:  a.Balance,
		Currency: a.Currency,
		Owner: banking.AccountOwner{
			ID:        a.OwnerID,
			FirstName: a.OwnerFirstName,
			LastName:  a.OwnerLastName,
		},
	}
}

// CreateAccountRequest - запрос на открытие счёта.
type CreateAccountRequest struct {
	Number         string          `json:"number"`
	OwnerID        string          `json:"owner_id"`
	OwnerFirstName string          `json:"owner_first_name"`
	OwnerLastName  string          `json:"owner_last_name"`
	Balance        decimal.Decimal `json:"balance"`
	Currency       string          `json:"currency"`
}

// AccountResponse - DTO счёта.
type AccountResponse struct {
	ID        uuid.UUID       `json:"id"`
	Number    string          `json:"number"`
	Owner     OwnerResponse   `json:"owner"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// OwnerResponse - владелец счёта в ответе.
type OwnerResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ToResponse преобразует счёт в DTO.
func (a *Account) ToResponse() *AccountResponse {
	return &AccountResponse{
		ID:     a.ID,
		Number: a.Number,
		Owner: OwnerResponse{
			ID:        a.OwnerID,
			FirstName: a.OwnerFirstName,
			LastName:  a.OwnerLastName,
		},
		Balance:   a.Balance,
		Currency:  a.Currency,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}
