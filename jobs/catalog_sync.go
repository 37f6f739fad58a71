package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"casino/services"
	tasks "casino/task"
)

type catalogSyncer interface {
	SyncCatalog(ctx context.Context) (services.SyncReport, error)
}

// StartCatalogSyncScheduler runs a catalog sync every interval until ctx is
// done. A tick that lands while a manual sync is running is skipped.
func StartCatalogSyncScheduler(ctx context.Context, syncer catalogSyncer, interval time.Duration) {
	if interval <= 0 {
		slog.Info("catalog sync scheduler disabled")
		return
	}
	go RunCatalogSync(ctx, syncer, interval)
}

// RunCatalogSync blocks until ctx is done.
func RunCatalogSync(ctx context.Context, syncer catalogSyncer, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := syncer.SyncCatalog(ctx)
			switch {
			case errors.Is(err, services.ErrSyncInProgress):
				slog.Info("scheduled catalog sync skipped, another run is active")
			case err != nil:
				slog.Error("scheduled catalog sync failed", "error", err)
			}
		}
	}
}

// StartDepositExpiryScheduler cancels expired PIX charges every interval.
func StartDepositExpiryScheduler(ctx context.Context, deposits tasks.DepositExpirer, interval time.Duration) {
	go RunDepositExpiry(ctx, deposits, interval)
}

func RunDepositExpiry(ctx context.Context, deposits tasks.DepositExpirer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tasks.ExpireStaleDeposits(ctx, deposits)
		}
	}
}
