package tasks

import (
	"context"
	"log/slog"
	"time"
)

type DepositExpirer interface {
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

func ExpireStaleDeposits(ctx context.Context, deposits DepositExpirer) {
	n, err := deposits.ExpireStale(ctx, time.Now().UTC())
	if err != nil {
		slog.ErrorContext(ctx, "failed to expire stale deposits", "error", err)
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "expired stale deposits", "count", n)
	}
}
