package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"FameFeed/internal/domain/models"
	pkgch "FameFeed/pkg/clickhouse"
	applogger "FameFeed/pkg/logger"
)

// CHSeriesStore reads a FAME database mirrored into ClickHouse. One store
// serves one logical database, selected by the mirror column. *sql.DB is
// safe for concurrent use, so no extra locking is needed here.
type CHSeriesStore struct {
	db     *sql.DB
	mirror string // logical database name inside the mirror tables
	schema string // ClickHouse database holding the mirror tables
	l      *applogger.Logger
	closed bool
}

func NewCHSeriesStore(ch *pkgch.Client, schema, mirror string) *CHSeriesStore {
	return &CHSeriesStore{db: ch.DB(), schema: schema, mirror: mirror}
}

// SetLogger injects a structured logger.
func (s *CHSeriesStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSeriesStore) List(ctx context.Context, pattern string) ([]models.SeriesInfo, error) {
	start := time.Now()
	if pattern == "" {
		pattern = "*"
	}
	q := fmt.Sprintf(`
        SELECT name, frequency, first_idx, last_idx
        FROM %s.series_catalog
        WHERE db = ? AND name LIKE ?
        ORDER BY name ASC
    `, s.schema)
	rows, err := s.db.QueryContext(ctx, q, s.mirror, globToLike(pattern))
	if err != nil {
		s.logErr("clickhouse list query error", pattern, err)
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var out []models.SeriesInfo
	for rows.Next() {
		info, err := scanSeriesInfo(rows)
		if err != nil {
			s.logErr("clickhouse list scan error", pattern, err)
			return nil, fmt.Errorf("scan series: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		s.logErr("clickhouse list rows error", pattern, err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse list ok",
			applogger.String("db", s.mirror),
			applogger.String("pattern", pattern),
			applogger.Int("series", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHSeriesStore) Info(ctx context.Context, name string) (models.SeriesInfo, error) {
	q := fmt.Sprintf(`
        SELECT name, frequency, first_idx, last_idx
        FROM %s.series_catalog
        WHERE db = ? AND name = ?
        LIMIT 1
    `, s.schema)
	row := s.db.QueryRowContext(ctx, q, s.mirror, name)
	info, err := scanSeriesInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SeriesInfo{}, fmt.Errorf("%s: %w", name, models.ErrSeriesNotFound)
	}
	if err != nil {
		s.logErr("clickhouse info error", name, err)
		return models.SeriesInfo{}, fmt.Errorf("series info %s: %w", name, err)
	}
	return info, nil
}

func (s *CHSeriesStore) Observations(ctx context.Context, name string, rng models.QuarterRange) ([]models.Observation, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT idx, value
        FROM %s.observations
        WHERE db = ? AND series = ? AND idx >= ? AND idx <= ?
        ORDER BY idx ASC
    `, s.schema)
	rows, err := s.db.QueryContext(ctx, q, s.mirror, name, rng.Start.Index(), rng.End.Index())
	if err != nil {
		s.logErr("clickhouse observations query error", name, err)
		return nil, fmt.Errorf("observations %s: %w", name, err)
	}
	defer rows.Close()

	out := make([]models.Observation, 0, rng.Len())
	for rows.Next() {
		var (
			idx int
			val float64
		)
		if err := rows.Scan(&idx, &val); err != nil {
			s.logErr("clickhouse observations scan error", name, err)
			return nil, fmt.Errorf("scan observation %s: %w", name, err)
		}
		out = append(out, models.Observation{Period: models.QuarterFromIndex(idx), Value: val})
	}
	if err := rows.Err(); err != nil {
		s.logErr("clickhouse observations rows error", name, err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse observations ok",
			applogger.String("db", s.mirror),
			applogger.String("series", name),
			applogger.String("range", rng.String()),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHSeriesStore) Health(ctx context.Context) error {
	if s.closed {
		return fmt.Errorf("mirror %s: closed: %w", s.mirror, models.ErrConnection)
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("mirror %s: %v: %w", s.mirror, err, models.ErrConnection)
	}
	return nil
}

// Close marks the store closed. The underlying pool is shared via
// pkg/clickhouse.Client and closed by its owner; repeated calls are no-ops.
func (s *CHSeriesStore) Close() error {
	s.closed = true
	return nil
}

func (s *CHSeriesStore) logErr(msg, subject string, err error) {
	if s.l == nil {
		return
	}
	s.l.Error(msg,
		applogger.String("db", s.mirror),
		applogger.String("subject", subject),
		applogger.Error(err),
	)
}

// globToLike rewrites a FAME wildcard pattern into a SQL LIKE pattern.
func globToLike(pattern string) string {
	r := strings.NewReplacer("%", `\%`, "_", `\_`, "*", "%", "?", "_")
	return r.Replace(pattern)
}
