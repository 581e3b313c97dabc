package services

import (
	"context"

	"github.com/agamariel/bankdash/internal/models"
	"github.com/google/uuid"
)

// TransactionService отдаёт историю операций.
type TransactionService interface {
	ListTransactions(ctx context.Context, accountID *uuid.UUID, limit int) ([]*models.Transaction, error)
}

type TransactionServiceImpl struct {
	accountStorage     AccountStorage
	transactionStorage TransactionStorage
}

func NewTransactionService(accountStorage AccountStorage, transactionStorage TransactionStorage) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		accountStorage:     accountStorage,
		transactionStorage: transactionStorage,
	}
}

// ListTransactions возвращает операции одного счёта или, если accountID == nil, всех счетов.
func (s *TransactionServiceImpl) ListTransactions(ctx context.Context, accountID *uuid.UUID, limit int) ([]*models.Transaction, error) {
	if accountID == nil {
		return s.transactionStorage.List(ctx, limit)
	}

	// Для несуществующего счёта возвращаем ошибку, а не пустой список
	if _, err := s.accountStorage.GetByID(ctx, *accountID); err != nil {
		return nil, err
	}

	return s.transactionStorage.GetByAccountID(ctx, *accountID, limit)
}
