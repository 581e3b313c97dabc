package storage

import (
	"context"
	"fmt"

	"github.com/agamariel/bankdash/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	DefaultTransactionLimit = 100
	MaxTransactionLimit     = 1000
)

// PostgresTransactionStorage реализует хранение транзакций в PostgreSQL.
type PostgresTransactionStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresTransactionStorage создаёт новый экземпляр.
func NewPostgresTransactionStorage(pool *pgxpool.Pool) *PostgresTransactionStorage {
	return &PostgresTransactionStorage{pool: pool}
}

// CreateWithTx сохраняет транзакцию в рамках переданной транзакции БД.
func (s *PostgresTransactionStorage) CreateWithTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	query := `
		INSERT INTO transactions (id, account_id, kind, amount, currency, remaining_balance, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query,
		t.ID,
		t.AccountID,
		t.Kind,
		t.Amount,
		t.Currency,
		t.RemainingBalance,
		t.Description,
		t.CreatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return ErrTransactionExists
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByAccountID возвращает транзакции счёта, новые первыми.
func (s *PostgresTransactionStorage) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, account_id, kind, amount, currency, remaining_balance, description, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, accountID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query account transactions: %w", err)
	}
	return collectTransactions(rows)
}

// List возвращает последние транзакции по всем счетам.
func (s *PostgresTransactionStorage) List(ctx context.Context, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, account_id, kind, amount, currency, remaining_balance, description, created_at
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*models.Transaction, error) {
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Kind, &t.Amount, &t.Currency, &t.RemainingBalance, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return transactions, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultTransactionLimit
	}
	if limit > MaxTransactionLimit {
		return MaxTransactionLimit
	}
	return limit
}
