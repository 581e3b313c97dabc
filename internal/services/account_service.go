package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agamariel/bankdash/internal/banking"
	"github.com/agamariel/bankdash/internal/models"
	"github.com/agamariel/bankdash/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCurrency    = errors.New("currency must be a 3-letter ISO code")
	ErrEmptyAccountNumber = errors.New("account number is required")
	ErrEmptyOwner         = errors.New("owner first and last name are required")
)

// AccountService описывает операции над счетами.
type AccountService interface {
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]*models.Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type AccountServiceImpl struct {
	accountStorage AccountStorage
}

// NewAccountService создаёт сервис счетов.
func NewAccountService(accountStorage AccountStorage) *AccountServiceImpl {
	return &AccountServiceImpl{accountStorage: accountStorage}
}

// CreateAccount проверяет запрос, прогоняет его через banking.CreateAccount и сохраняет счёт.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error) {
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return nil, ErrEmptyAccountNumber
	}

	firstName := strings.TrimSpace(req.OwnerFirstName)
	lastName := strings.TrimSpace(req.OwnerLastName)
	if firstName == "" || lastName == "" {
		return nil, ErrEmptyOwner
	}

	currency := utils.NormalizeCurrency(req.Currency)
	if !utils.ValidCurrency(currency) {
		return nil, ErrInvalidCurrency
	}

	account := &models.Account{
		ID:             uuid.New(),
		Number:         number,
		OwnerID:        strings.TrimSpace(req.OwnerID),
		OwnerFirstName: firstName,
		OwnerLastName:  lastName,
		Balance:        req.Balance,
		Currency:       currency,
	}

	if _, err := banking.CreateAccount(account.ToDomain()); err != nil {
		return nil, err
	}
	if err := checkMoneyScale(account.Balance, "Account balance"); err != nil {
		return nil, err
	}

	if err := s.accountStorage.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// checkMoneyScale отклоняет суммы, которые колонка NUMERIC(15,2) молча округлила бы.
func checkMoneyScale(amount decimal.Decimal, subject string) error {
	if utils.HasMoneyScale(amount) {
		return nil
	}
	return &banking.WithdrawalError{
		Code:    banking.CodeInvalidAmount,
		Message: fmt.Sprintf("%s must have at most %d decimal places", subject, utils.MoneyScale),
	}
}

// GetAccount возвращает счёт по ID.
func (s *AccountServiceImpl) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.accountStorage.GetByID(ctx, id)
}

// ListAccounts возвращает все счета, новые первыми.
func (s *AccountServiceImpl) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	accounts, err := s.accountStorage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// DeleteAccount удаляет счёт и его историю.
func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.accountStorage.Delete(ctx, id)
}
