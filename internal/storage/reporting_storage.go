package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/bankdash/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReportingStorage выполняет агрегирующие запросы для дашборда.
type PostgresReportingStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresReportingStorage создаёт новый экземпляр.
func NewPostgresReportingStorage(pool *pgxpool.Pool) *PostgresReportingStorage {
	return &PostgresReportingStorage{pool: pool}
}

// Summary считает количество счетов и транзакций и суммы балансов по валютам.
func (s *PostgresReportingStorage) Summary(ctx context.Context) (*models.Summary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT currency, COUNT(*), COALESCE(SUM(balance), 0)
		FROM accounts
		GROUP BY currency
		ORDER BY currency
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	summary := &models.Summary{}
	for rows.Next() {
		var total models.CurrencyTotal
		if err := rows.Scan(&total.Currency, &total.Accounts, &total.Total); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		summary.TotalAccounts += total.Accounts
		summary.Balances = append(summary.Balances, total)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&summary.TotalTransactions); err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	return summary, nil
}

// RefreshSnapshots вызывает процедуру refresh_balance_snapshots и читает её запись в run_log.
func (s *PostgresReportingStorage) RefreshSnapshots(ctx context.Context) (*models.RefreshResult, error) {
	if _, err := s.pool.Exec(ctx, `CALL refresh_balance_snapshots()`); err != nil {
		return nil, fmt.Errorf("failed to call refresh_balance_snapshots: %w", err)
	}

	result := &models.RefreshResult{}
	err := s.pool.QueryRow(ctx, `
		SELECT rows_inserted, message
		FROM run_log
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`).Scan(&result.RowsAffected, &result.Message)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			result.Message = "procedure completed (no log entry)"
			return result, nil
		}
		return nil, fmt.Errorf("failed to read run log: %w", err)
	}

	return result, nil
}

// LatestSnapshots возвращает срезы за последние days дней.
func (s *PostgresReportingStorage) LatestSnapshots(ctx context.Context, days int) ([]*models.BalanceSnapshot, error) {
	if days <= 0 {
		days = 30
	}

	rows, err := s.pool.Query(ctx, `
		SELECT day, currency, accounts, total_balance
		FROM balance_snapshots
		WHERE day > CURRENT_DATE - $1::int
		ORDER BY day DESC, currency
	`, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.BalanceSnapshot
	for rows.Next() {
		var snap models.BalanceSnapshot
		if err := rows.Scan(&snap.Day, &snap.Currency, &snap.Accounts, &snap.TotalBalance); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, &snap)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return snapshots, nil
}
