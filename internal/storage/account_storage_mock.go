package storage

import (
	"context"

	"github.com/agamariel/bankdash/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// MockAccountStorage - мок хранилища счетов
type MockAccountStorage struct {
	CreateFunc          func(ctx context.Context, account *models.Account) error
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByIDTxFunc       func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Account, error)
	GetByNumberFunc     func(ctx context.Context, number string) (*models.Account, error)
	ListFunc            func(ctx context.Context) ([]*models.Account, error)
	UpdateBalanceTxFunc func(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal, expectedVersion int64) (int64, error)
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
}

func (m *MockAccountStorage) Create(ctx context.Context, account *models.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	return nil
}

func (m *MockAccountStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrAccountNotFound
}

func (m *MockAccountStorage) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Account, error) {
	if m.GetByIDTxFunc != nil {
		return m.GetByIDTxFunc(ctx, tx, id)
	}
	return nil, ErrAccountNotFound
}

func (m *MockAccountStorage) GetByNumber(ctx context.Context, number string) (*models.Account, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}
	return nil, ErrAccountNotFound
}

func (m *MockAccountStorage) List(ctx context.Context) ([]*models.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockAccountStorage) UpdateBalanceTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal, expectedVersion int64) (int64, error) {
	if m.UpdateBalanceTxFunc != nil {
		return m.UpdateBalanceTxFunc(ctx, tx, id, balance, expectedVersion)
	}
	return expectedVersion + 1, nil
}

func (m *MockAccountStorage) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
