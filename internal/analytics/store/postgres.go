package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/noonesark/splash/internal/analytics"
)

// Postgres persists telemetry events to the scan_events and metrics_events
// tables.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres-backed analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) SaveScan(ctx context.Context, event *analytics.ScanTrackedEvent) error {
	query := `
		INSERT INTO scan_events (ref, client_ip, user_agent, forwarded, scanned_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Ref,
		event.ClientIP,
		event.UserAgent,
		event.Forwarded,
		event.ScannedAt,
	)

	return err
}

func (p *Postgres) SaveMetrics(ctx context.Context, event *analytics.MetricsUpdatedEvent) error {
	query := `
		INSERT INTO metrics_events (code, metrics, client_ip, forwarded, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Code,
		[]byte(event.Metrics),
		event.ClientIP,
		event.Forwarded,
		event.UpdatedAt,
	)

	return err
}

// Compile-time check.
var _ analytics.Store = (*Postgres)(nil)
