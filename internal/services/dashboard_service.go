package services

import (
	"context"
	"fmt"

	"github.com/agamariel/bankdash/internal/models"
	"github.com/agamariel/bankdash/internal/utils"
)

// RecentAccountsLimit - сколько последних счетов показывать на дашборде.
const RecentAccountsLimit = 5

// DashboardService собирает сводку для главной страницы.
type DashboardService interface {
	Summary(ctx context.Context) (*models.DashboardResponse, error)
	Snapshots(ctx context.Context, days int) ([]*models.BalanceSnapshot, error)
}

type DashboardServiceImpl struct {
	reportingStorage ReportingStorage
	accountStorage   AccountStorage
}

func NewDashboardService(reportingStorage ReportingStorage, accountStorage AccountStorage) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		reportingStorage: reportingStorage,
		accountStorage:   accountStorage,
	}
}

// Summary возвращает итоги по счетам и последние открытые счета.
func (s *DashboardServiceImpl) Summary(ctx context.Context) (*models.DashboardResponse, error) {
	summary, err := s.reportingStorage.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	accounts, err := s.accountStorage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	if len(accounts) > RecentAccountsLimit {
		accounts = accounts[:RecentAccountsLimit]
	}

	resp := &models.DashboardResponse{
		TotalAccounts:     summary.TotalAccounts,
		TotalTransactions: summary.TotalTransactions,
		Balances:          make([]models.CurrencyTotal, 0, len(summary.Balances)),
		RecentAccounts:    make([]*models.AccountResponse, 0, len(accounts)),
	}

	for _, total := range summary.Balances {
		total.Formatted = utils.FormatHumanReadable(total.Total, total.Currency)
		resp.Balances = append(resp.Balances, total)
	}
	for _, a := range accounts {
		resp.RecentAccounts = append(resp.RecentAccounts, a.ToResponse())
	}

	return resp, nil
}

// Snapshots возвращает дневные срезы балансов.
func (s *DashboardServiceImpl) Snapshots(ctx context.Context, days int) ([]*models.BalanceSnapshot, error) {
	return s.reportingStorage.LatestSnapshots(ctx, days)
}
