package services

import (
	"context"

	"github.com/agamariel/bankdash/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TxBeginner открывает транзакцию БД. Его реализует *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// AccountStorage определяет интерфейс для работы со счетами.
type AccountStorage interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Account, error)
	GetByNumber(ctx context.Context, number string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	UpdateBalanceTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal, expectedVersion int64) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionStorage определяет интерфейс для работы с транзакциями.
type TransactionStorage interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.Transaction, error)
	List(ctx context.Context, limit int) ([]*models.Transaction, error)
}

// UserStorage определяет интерфейс для работы с пользователями.
type UserStorage interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReportingStorage определяет интерфейс агрегирующих запросов.
type ReportingStorage interface {
	Summary(ctx context.Context) (*models.Summary, error)
	RefreshSnapshots(ctx context.Context) (*models.RefreshResult, error)
	LatestSnapshots(ctx context.Context, days int) ([]*models.BalanceSnapshot, error)
}
