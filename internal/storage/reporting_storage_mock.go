package storage

import (
	"context"

	"github.com/agamariel/bankdash/internal/models"
)

// MockReportingStorage - мок хранилища отчётов
type MockReportingStorage struct {
	SummaryFunc          func(ctx context.Context) (*models.Summary, error)
	RefreshSnapshotsFunc func(ctx context.Context) (*models.RefreshResult, error)
	LatestSnapshotsFunc  func(ctx context.Context, days int) ([]*models.BalanceSnapshot, error)
}

func (m *MockReportingStorage) Summary(ctx context.Context) (*models.Summary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx)
	}
	return &models.Summary{}, nil
}

func (m *MockReportingStorage) RefreshSnapshots(ctx context.Context) (*models.RefreshResult, error) {
	if m.RefreshSnapshotsFunc != nil {
		return m.RefreshSnapshotsFunc(ctx)
	}
	return &models.RefreshResult{}, nil
}

func (m *MockReportingStorage) LatestSnapshots(ctx context.Context, days int) ([]*models.BalanceSnapshot, error) {
	if m.LatestSnapshotsFunc != nil {
		return m.LatestSnapshotsFunc(ctx, days)
	}
	return nil, nil
}
