package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/bankdash/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, number, owner_id, owner_first_name, owner_last_name, balance, currency, version, created_at, updated_at`

// PostgresAccountStorage реализует хранение счетов в PostgreSQL.
type PostgresAccountStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountStorage создаёт новый экземпляр PostgresAccountStorage.
func NewPostgresAccountStorage(pool *pgxpool.Pool) *PostgresAccountStorage {
	return &PostgresAccountStorage{pool: pool}
}

// Create сохраняет новый счёт. ID генерируется, если не задан.
func (s *PostgresAccountStorage) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, number, owner_id, owner_first_name, owner_last_name, balance, currency, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, NOW(), NOW())
		RETURNING version, created_at, updated_at
	`

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx, query,
		account.ID,
		account.Number,
		account.OwnerID,
		account.OwnerFirstName,
		account.OwnerLastName,
		account.Balance,
		account.Currency,
	).Scan(&account.Version, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return ErrAccountNumberExists
		case pgCheckViolation:
			return ErrNegativeBalance
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID возвращает счёт по ID.
func (s *PostgresAccountStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(s.pool.QueryRow(ctx, query, id))
}

// GetByIDTx читает снимок счёта в рамках транзакции.
// Строка не блокируется: запись защищена проверкой версии в UpdateBalanceTx.
func (s *PostgresAccountStorage) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(tx.QueryRow(ctx, query, id))
}

// GetByNumber возвращает счёт по номеру.
func (s *PostgresAccountStorage) GetByNumber(ctx context.Context, number string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE number = $1`
	return scanAccount(s.pool.QueryRow(ctx, query, number))
}

// List возвращает все счета, новые первыми.
func (s *PostgresAccountStorage) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return accounts, nil
}

// UpdateBalanceTx записывает новый баланс, если версия строки не изменилась
// с момента чтения. Возвращает новую версию.
func (s *PostgresAccountStorage) UpdateBalanceTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal, expectedVersion int64) (int64, error) {
	query := `
		UPDATE accounts
		SET balance = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	var version int64
	err := tx.QueryRow(ctx, query, balance, id, expectedVersion).Scan(&version)
	if err == nil {
		return version, nil
	}

	if pgErrorCode(err) == pgCheckViolation {
		return 0, ErrNegativeBalance
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}

	// Ни одна строка не обновлена: счёт либо удалён, либо его версия ушла вперёд
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check account: %w", err)
	}
	if !exists {
		return 0, ErrAccountNotFound
	}
	return 0, ErrConcurrentUpdate
}

// Delete удаляет счёт вместе с его транзакциями.
func (s *PostgresAccountStorage) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// scanAccount читает счёт из строки результата.
func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account

	err := row.Scan(
		&account.ID,
		&account.Number,
		&account.OwnerID,
		&account.OwnerFirstName,
		&account.OwnerLastName,
		&account.Balance,
		&account.Currency,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	return &account, nil
}
