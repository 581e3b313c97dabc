package services

import (
	"context"
	"log"
	"time"
)

// SnapshotWorker периодически вызывает процедуру пересчёта дневных срезов балансов.
type SnapshotWorker struct {
	reportingStorage ReportingStorage
	interval         time.Duration
	logger           *log.Logger
}

func NewSnapshotWorker(reportingStorage ReportingStorage, interval time.Duration, logger *log.Logger) *SnapshotWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SnapshotWorker{
		reportingStorage: reportingStorage,
		interval:         interval,
		logger:           logger,
	}
}

// Start запускает воркер в отдельной горутине и останавливается по ctx.Done().
// Возвращаемый канал закрывается после выхода из цикла.
func (w *SnapshotWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(w.interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		if err := w.refresh(ctx); err != nil {
			w.logger.Printf("snapshot worker error on initial run: %v", err)
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.refresh(ctx); err != nil {
					w.logger.Printf("snapshot worker error: %v", err)
				}
			}
		}
	}()
	return done
}

func (w *SnapshotWorker) refresh(ctx context.Context) error {
	result, err := w.reportingStorage.RefreshSnapshots(ctx)
	if err != nil {
		return err
	}
	w.logger.Printf("%s: %d rows", result.Message, result.RowsAffected)
	return nil
}
