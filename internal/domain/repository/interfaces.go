package repository

import (
	"context"

	"FameFeed/internal/domain/models"
)

// SeriesStore is one opened FAME-style database. Implementations wrap a
// single session and are not safe for concurrent use unless documented
// otherwise; the registry layer serializes access where needed.
type SeriesStore interface {
	// List returns catalog metadata for series whose names match the glob
	// pattern ("*" lists everything).
	List(ctx context.Context, pattern string) ([]models.SeriesInfo, error)
	// Info returns metadata for one series. Wraps models.ErrSeriesNotFound
	// when the name is absent.
	Info(ctx context.Context, name string) (models.SeriesInfo, error)
	// Observations returns stored points for one series restricted to the
	// given range, ascending by period.
	Observations(ctx context.Context, name string, rng models.QuarterRange) ([]models.Observation, error)
	Health(ctx context.Context) error
	// Close releases the session. Idempotent.
	Close() error
}

// AuditSink receives read-audit events. Delivery is best effort; sinks must
// not fail the read path.
type AuditSink interface {
	Emit(ctx context.Context, ev models.ReadAudit) error
	Close() error
}

// Metrics records operational counters for the read path.
type Metrics interface {
	RecordRead(database, backend string)
	RecordError(kind string)
	RecordRowsReturned(database string, rows int)
	RecordLatency(op string, seconds float64)
}
