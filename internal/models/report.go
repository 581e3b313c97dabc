package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyTotal - суммарный баланс по одной валюте.
type CurrencyTotal struct {
	Currency  string          `json:"currency"`
	Accounts  int64           `json:"accounts"`
	Total     decimal.Decimal `json:"total"`
	Formatted string          `json:"formatted"`
}

// Summary - агрегаты для дашборда, считаемые хранилищем.
type Summary struct {
	TotalAccounts     int64
	TotalTransactions int64
	Balances          []CurrencyTotal
}

// DashboardResponse - ответ GET /api/dashboard.
type DashboardResponse struct {
	TotalAccounts     int64              `json:"total_accounts"`
	TotalTransactions int64              `json:"total_transactions"`
	Balances          []CurrencyTotal    `json:"balances"`
	RecentAccounts    []*AccountResponse `json:"recent_accounts"`
}

// BalanceSnapshot - дневной срез балансов по валюте.
type BalanceSnapshot struct {
	Day          time.Time       `db:"day" json:"day"`
	Currency     string          `db:"currency" json:"currency"`
	Accounts     int64           `db:"accounts" json:"accounts"`
	TotalBalance decimal.Decimal `db:"total_balance" json:"total_balance"`
}

// RefreshResult - итог запуска процедуры refresh_balance_snapshots.
type RefreshResult struct {
	RowsAffected int64
	Message      string
}
