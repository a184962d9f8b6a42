package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"

	"FameFeed/internal/domain/models"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteSeriesStore reads a FAME database exported to a SQLite snapshot file.
// The snapshot schema:
//
//	series(name TEXT PRIMARY KEY, frequency TEXT, first_idx INTEGER, last_idx INTEGER)
//	observations(series TEXT, idx INTEGER, value REAL, PRIMARY KEY(series, idx))
//
// idx is models.Quarter.Index(). The store opens read-only; a single session
// is assumed non-reentrant, so all queries run under a mutex.
type SQLiteSeriesStore struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	closed bool
}

// OpenSQLiteSeriesStore opens a snapshot file. A missing file or a file
// without the expected schema wraps models.ErrConnection.
func OpenSQLiteSeriesStore(ctx context.Context, path string) (*SQLiteSeriesStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("snapshot %s: %v: %w", path, err, models.ErrConnection)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %v: %w", path, err, models.ErrConnection)
	}
	// One session per handle.
	db.SetMaxOpenConns(1)

	s := &SQLiteSeriesStore{db: db, path: path}
	if err := s.verifySchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSeriesStore) verifySchema(ctx context.Context) error {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('series','observations')`,
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("snapshot %s: %v: %w", s.path, err, models.ErrConnection)
	}
	if n != 2 {
		return fmt.Errorf("snapshot %s: not a series snapshot: %w", s.path, models.ErrConnection)
	}
	return nil
}

func (s *SQLiteSeriesStore) List(ctx context.Context, pattern string) ([]models.SeriesInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pattern == "" {
		pattern = "*"
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, frequency, first_idx, last_idx FROM series WHERE name GLOB ? ORDER BY name`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var out []models.SeriesInfo
	for rows.Next() {
		info, err := scanSeriesInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *SQLiteSeriesStore) Info(ctx context.Context, name string) (models.SeriesInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT name, frequency, first_idx, last_idx FROM series WHERE name = ?`, name)
	info, err := scanSeriesInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SeriesInfo{}, fmt.Errorf("%s: %w", name, models.ErrSeriesNotFound)
	}
	if err != nil {
		return models.SeriesInfo{}, fmt.Errorf("series info %s: %w", name, err)
	}
	return info, nil
}

func (s *SQLiteSeriesStore) Observations(ctx context.Context, name string, rng models.QuarterRange) ([]models.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, value FROM observations WHERE series = ? AND idx >= ? AND idx <= ? ORDER BY idx ASC`,
		name, rng.Start.Index(), rng.End.Index(),
	)
	if err != nil {
		return nil, fmt.Errorf("observations %s: %w", name, err)
	}
	defer rows.Close()

	out := make([]models.Observation, 0, rng.Len())
	for rows.Next() {
		var (
			idx int
			val sql.NullFloat64
		)
		if err := rows.Scan(&idx, &val); err != nil {
			return nil, fmt.Errorf("scan observation %s: %w", name, err)
		}
		if !val.Valid {
			continue // NULL cells are simply absent points
		}
		out = append(out, models.Observation{Period: models.QuarterFromIndex(idx), Value: val.Float64})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *SQLiteSeriesStore) Health(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("snapshot %s: closed: %w", s.path, models.ErrConnection)
	}
	return s.db.PingContext(ctx)
}

// Close releases the session. Safe to call more than once.
func (s *SQLiteSeriesStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSeriesInfo(r rowScanner) (models.SeriesInfo, error) {
	var (
		info        models.SeriesInfo
		first, last int
	)
	if err := r.Scan(&info.Name, &info.Frequency, &first, &last); err != nil {
		return models.SeriesInfo{}, err
	}
	info.First = models.QuarterFromIndex(first)
	info.Last = models.QuarterFromIndex(last)
	return info, nil
}
