package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agamariel/bankdash/internal/banking"
	"github.com/agamariel/bankdash/internal/models"
	"github.com/agamariel/bankdash/internal/storage"
	"github.com/agamariel/bankdash/internal/utils"
	"github.com/google/uuid"
)

// MaxBalanceAttempts - сколько раз перечитывать счёт при конкурентном изменении баланса.
const MaxBalanceAttempts = 3

// MoneyService проводит списания и пополнения.
type MoneyService interface {
	Withdraw(ctx context.Context, accountID uuid.UUID, req models.MoneyRequest) (*models.Transaction, error)
	Deposit(ctx context.Context, accountID uuid.UUID, req models.MoneyRequest) (*models.Transaction, error)
}

type MoneyServiceImpl struct {
	db                 TxBeginner
	accountStorage     AccountStorage
	transactionStorage TransactionStorage
	now                func() time.Time
}

// NewMoneyService создаёт сервис движения средств.
func NewMoneyService(db TxBeginner, accountStorage AccountStorage, transactionStorage TransactionStorage) *MoneyServiceImpl {
	return &MoneyServiceImpl{
		db:                 db,
		accountStorage:     accountStorage,
		transactionStorage: transactionStorage,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// operation применяет доменную операцию к снимку счёта.
type operation func(account *banking.Account, currency string, at time.Time) (banking.Transaction, error)

// Withdraw списывает средства со счёта.
func (s *MoneyServiceImpl) Withdraw(ctx context.Context, accountID uuid.UUID, req models.MoneyRequest) (*models.Transaction, error) {
	return s.apply(ctx, accountID, req, "Withdrawal amount", func(account *banking.Account, currency string, at time.Time) (banking.Transaction, error) {
		result, err := banking.ProcessWithdrawal(account, banking.WithdrawalRequest{
			AccountID: account.ID,
			Amount:    req.Amount,
			Currency:  currency,
			Timestamp: at,
		})
		if err != nil {
			return banking.Transaction{}, err
		}
		return result.Transaction, nil
	})
}

// Deposit зачисляет средства на счёт.
func (s *MoneyServiceImpl) Deposit(ctx context.Context, accountID uuid.UUID, req models.MoneyRequest) (*models.Transaction, error) {
	return s.apply(ctx, accountID, req, "Deposit amount", func(account *banking.Account, currency string, at time.Time) (banking.Transaction, error) {
		result, err := banking.ProcessDeposit(account, banking.DepositRequest{
			AccountID: account.ID,
			Amount:    req.Amount,
			Currency:  currency,
			Timestamp: at,
		})
		if err != nil {
			return banking.Transaction{}, err
		}
		return result.Transaction, nil
	})
}

// apply повторяет цикл чтение-проверка-запись, пока версия счёта не совпадёт,
// но не более MaxBalanceAttempts раз. Суммы с лишними знаками отклоняются до открытия транзакции.
func (s *MoneyServiceImpl) apply(ctx context.Context, accountID uuid.UUID, req models.MoneyRequest, subject string, op operation) (*models.Transaction, error) {
	if err := checkMoneyScale(req.Amount, subject); err != nil {
		return nil, err
	}

	var err error
	for attempt := 0; attempt < MaxBalanceAttempts; attempt++ {
		var row *models.Transaction
		row, err = s.attempt(ctx, accountID, req, op)
		if err == nil {
			return row, nil
		}
		if !errors.Is(err, storage.ErrConcurrentUpdate) {
			return nil, err
		}
	}
	return nil, err
}

func (s *MoneyServiceImpl) attempt(ctx context.Context, accountID uuid.UUID, req models.MoneyRequest, op operation) (*models.Transaction, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := s.accountStorage.GetByIDTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	// Пустая валюта означает валюту счёта
	currency := utils.NormalizeCurrency(req.Currency)
	if currency == "" {
		currency = current.Currency
	}

	account := current.ToDomain()
	committed, err := op(account, currency, s.now())
	if err != nil {
		return nil, err
	}

	if _, err := s.accountStorage.UpdateBalanceTx(ctx, tx, accountID, account.Balance, current.Version); err != nil {
		return nil, err
	}

	row, err := models.NewTransaction(accountID, committed, strings.TrimSpace(req.Description))
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}
	if err := s.transactionStorage.CreateWithTx(ctx, tx, row); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return row, nil
}
