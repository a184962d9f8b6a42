package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"FameFeed/internal/domain/models"
	"FameFeed/internal/domain/repository"
	"FameFeed/internal/service/audit"
	"FameFeed/pkg/cache"
	applogger "FameFeed/pkg/logger"
)

// ReadQuery describes one read call. Zero Start/End clamp to the stored
// bounds of the requested series; empty Names reads every quarterly series
// in the database.
type ReadQuery struct {
	Database string
	Names    []string
	Start    models.Quarter
	End      models.Quarter
}

// DatabaseStatus is the health summary of one configured database.
type DatabaseStatus struct {
	Name    string `json:"name"`
	Backend string `json:"backend"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// SeriesReader serves read and catalog calls over the store registry.
// Cache, metrics, audit, and logger are all optional.
type SeriesReader struct {
	reg      *StoreRegistry
	cache    cache.Service
	cacheTTL time.Duration
	metrics  repository.Metrics
	audit    *audit.Bus
	l        *applogger.Logger
}

func NewSeriesReader(reg *StoreRegistry) *SeriesReader {
	return &SeriesReader{reg: reg}
}

// SetCache enables result caching.
func (r *SeriesReader) SetCache(c cache.Service, ttl time.Duration) {
	r.cache = c
	r.cacheTTL = ttl
}

// SetMetrics injects the metrics recorder.
func (r *SeriesReader) SetMetrics(m repository.Metrics) { r.metrics = m }

// SetAudit injects the audit bus.
func (r *SeriesReader) SetAudit(b *audit.Bus) { r.audit = b }

// SetLogger injects a structured logger.
func (r *SeriesReader) SetLogger(l *applogger.Logger) { r.l = l }

// Registry exposes the underlying registry (for lifecycle management).
func (r *SeriesReader) Registry() *StoreRegistry { return r.reg }

// Read returns one table spanning exactly the resolved range, one column per
// series, or an error. There are no partial results: any missing series, any
// non-quarterly series, or any series without overlap fails the whole call.
func (r *SeriesReader) Read(ctx context.Context, q ReadQuery) (*models.SeriesTable, error) {
	start := time.Now()
	table, err := r.read(ctx, q)

	rows := 0
	if table != nil {
		rows = table.NumRows()
	}
	if r.metrics != nil {
		r.metrics.RecordLatency("read", time.Since(start).Seconds())
		if err != nil {
			r.metrics.RecordError(ErrorClass(err))
		} else {
			r.metrics.RecordRead(q.Database, r.reg.Backend(q.Database))
			r.metrics.RecordRowsReturned(q.Database, rows)
		}
	}
	r.emitAudit(ctx, q, rows, err, time.Since(start))
	return table, err
}

func (r *SeriesReader) read(ctx context.Context, q ReadQuery) (*models.SeriesTable, error) {
	store, _, err := r.reg.Get(q.Database)
	if err != nil {
		return nil, err
	}

	names := q.Names
	if len(names) == 0 {
		names, err = r.quarterlyNames(ctx, store)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("database %s has no quarterly series: %w", q.Database, models.ErrSeriesNotFound)
		}
	}

	infos := make([]models.SeriesInfo, 0, len(names))
	for _, name := range names {
		info, err := store.Info(ctx, name)
		if err != nil {
			return nil, err
		}
		if info.Frequency != models.FreqQuarterly {
			return nil, fmt.Errorf("%s is %s: %w", name, info.Frequency, models.ErrFrequencyMismatch)
		}
		infos = append(infos, info)
	}

	rng, err := resolveRange(q.Start, q.End, infos)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if !rng.Overlaps(info.Bounds()) {
			return nil, fmt.Errorf("%s has no data in %s (stored %s): %w",
				info.Name, rng, info.Bounds(), models.ErrEmptyRange)
		}
	}

	key := readCacheKey(q.Database, names, rng)
	if table, ok := r.cachedTable(ctx, key); ok {
		return table, nil
	}

	b := models.NewTableBuilder(rng)
	for _, info := range infos {
		obs, err := store.Observations(ctx, info.Name, rng)
		if err != nil {
			return nil, err
		}
		b.AddColumn(info.Name, obs)
	}
	table := b.Build()

	r.storeTable(ctx, key, table)
	return table, nil
}

// Catalog lists series metadata matching a wildcard pattern.
func (r *SeriesReader) Catalog(ctx context.Context, database, pattern string) ([]models.SeriesInfo, error) {
	start := time.Now()
	store, _, err := r.reg.Get(database)
	if err != nil {
		return nil, err
	}
	infos, err := store.List(ctx, pattern)
	if r.metrics != nil {
		r.metrics.RecordLatency("catalog", time.Since(start).Seconds())
		if err != nil {
			r.metrics.RecordError(ErrorClass(err))
		}
	}
	return infos, err
}

// Databases reports the configured databases and their health.
func (r *SeriesReader) Databases(ctx context.Context) []DatabaseStatus {
	health := r.reg.HealthAll(ctx)
	names := r.reg.Names()
	out := make([]DatabaseStatus, 0, len(names))
	for _, name := range names {
		st := DatabaseStatus{Name: name, Backend: r.reg.Backend(name), Healthy: health[name] == nil}
		if health[name] != nil {
			st.Error = health[name].Error()
		}
		out = append(out, st)
	}
	return out
}

// quarterlyNames lists every quarterly series in the store, in catalog order.
func (r *SeriesReader) quarterlyNames(ctx context.Context, store repository.SeriesStore) ([]string, error) {
	infos, err := store.List(ctx, "*")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Frequency == models.FreqQuarterly {
			names = append(names, info.Name)
		}
	}
	return names, nil
}

// resolveRange fills missing bounds from the stored extremes of the
// requested series, then validates ordering.
func resolveRange(start, end models.Quarter, infos []models.SeriesInfo) (models.QuarterRange, error) {
	if start.IsZero() || end.IsZero() {
		first, last := infos[0].First, infos[0].Last
		for _, info := range infos[1:] {
			if info.First.Before(first) {
				first = info.First
			}
			if info.Last.After(last) {
				last = info.Last
			}
		}
		if start.IsZero() {
			start = first
		}
		if end.IsZero() {
			end = last
		}
	}
	rng, err := models.NewQuarterRange(start, end)
	if err != nil {
		return models.QuarterRange{}, fmt.Errorf("%v: %w", err, models.ErrEmptyRange)
	}
	return rng, nil
}

func (r *SeriesReader) cachedTable(ctx context.Context, key string) (*models.SeriesTable, bool) {
	if r.cache == nil {
		return nil, false
	}
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) && r.l != nil {
			r.l.Warn("cache get failed", applogger.String("key", key), applogger.Error(err))
		}
		return nil, false
	}
	var table models.SeriesTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, false
	}
	return &table, true
}

func (r *SeriesReader) storeTable(ctx context.Context, key string, table *models.SeriesTable) {
	if r.cache == nil {
		return
	}
	data, err := json.Marshal(table)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, data, r.cacheTTL); err != nil && r.l != nil {
		r.l.Warn("cache set failed", applogger.String("key", key), applogger.Error(err))
	}
}

func (r *SeriesReader) emitAudit(ctx context.Context, q ReadQuery, rows int, err error, dur time.Duration) {
	if r.audit == nil {
		return
	}
	ev := models.ReadAudit{
		Database:   q.Database,
		Series:     q.Names,
		Rows:       rows,
		Outcome:    "ok",
		DurationMS: dur.Milliseconds(),
		OccurredAt: time.Now().UTC(),
	}
	if !q.Start.IsZero() {
		ev.Start = q.Start.String()
	}
	if !q.End.IsZero() {
		ev.End = q.End.String()
	}
	if err != nil {
		ev.Outcome = ErrorClass(err)
	}
	r.audit.Publish(ctx, ev)
}

func readCacheKey(database string, names []string, rng models.QuarterRange) string {
	return "read:" + database + ":" + strings.Join(names, ",") + ":" + rng.String()
}

// ErrorClass maps a read error onto its audit/metric label.
func ErrorClass(err error) string {
	switch {
	case errors.Is(err, models.ErrSeriesNotFound):
		return "not_found"
	case errors.Is(err, models.ErrEmptyRange):
		return "empty_range"
	case errors.Is(err, models.ErrFrequencyMismatch):
		return "frequency_mismatch"
	case errors.Is(err, models.ErrConnection):
		return "connection"
	default:
		return "internal"
	}
}
