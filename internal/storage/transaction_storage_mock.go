package storage

import (
	"context"

	"github.com/agamariel/bankdash/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MockTransactionStorage - мок хранилища транзакций
type MockTransactionStorage struct {
	CreateWithTxFunc   func(ctx context.Context, tx pgx.Tx, t *models.Transaction) error
	GetByAccountIDFunc func(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.Transaction, error)
	ListFunc           func(ctx context.Context, limit int) ([]*models.Transaction, error)
}

func (m *MockTransactionStorage) CreateWithTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	if m.CreateWithTxFunc != nil {
		return m.CreateWithTxFunc(ctx, tx, t)
	}
	return nil
}

func (m *MockTransactionStorage) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.Transaction, error) {
	if m.GetByAccountIDFunc != nil {
		return m.GetByAccountIDFunc(ctx, accountID, limit)
	}
	return nil, nil
}

func (m *MockTransactionStorage) List(ctx context.Context, limit int) ([]*models.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}
	return nil, nil
}
