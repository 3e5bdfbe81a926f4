package cache

import (
	"context"
	"time"

	"retailmanager/internal/domain"
)

// ReportCache holds derived dashboards so the full sale history is not
// re-read on every render. Entries are invalidated whenever a new sale
// commits; a miss is never an error.
type ReportCache interface {
	GetDashboard(ctx context.Context, owner string) (*domain.Dashboard, bool, error)
	SetDashboard(ctx context.Context, owner string, dashboard *domain.Dashboard, ttl time.Duration) error
	Invalidate(ctx context.Context, owner string) error
}

type NoopReportCache struct{}

func (NoopReportCache) GetDashboard(_ context.Context, _ string) (*domain.Dashboard, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) SetDashboard(_ context.Context, _ string, _ *domain.Dashboard, _ time.Duration) error {
	return nil
}

func (NoopReportCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
