package usecase

import (
	"context"
	"fmt"
	"time"

	"FameFeed/internal/domain/models"
	"FameFeed/internal/domain/repository"
)

// Comparator builds a side-by-side table of one series across several
// databases, one column per database mnemonic.
type Comparator struct {
	reg     *StoreRegistry
	metrics repository.Metrics
}

func NewComparator(reg *StoreRegistry) *Comparator {
	return &Comparator{reg: reg}
}

// SetMetrics injects the metrics recorder.
func (c *Comparator) SetMetrics(m repository.Metrics) { c.metrics = m }

// Compare reads the named series from every listed database (all registered
// databases when the list is empty). The series must exist, be quarterly,
// and overlap the range in every database; otherwise the whole call fails.
func (c *Comparator) Compare(ctx context.Context, databases []string, series string, start, end models.Quarter) (*models.SeriesTable, error) {
	began := time.Now()
	if len(databases) == 0 {
		databases = c.reg.Names()
	}
	if len(databases) == 0 {
		return nil, fmt.Errorf("no databases configured: %w", models.ErrConnection)
	}

	type entry struct {
		store repository.SeriesStore
		info  models.SeriesInfo
	}
	entries := make([]entry, 0, len(databases))
	for _, db := range databases {
		store, _, err := c.reg.Get(db)
		if err != nil {
			return nil, err
		}
		info, err := store.Info(ctx, series)
		if err != nil {
			return nil, fmt.Errorf("database %s: %w", db, err)
		}
		if info.Frequency != models.FreqQuarterly {
			return nil, fmt.Errorf("database %s: %s is %s: %w", db, series, info.Frequency, models.ErrFrequencyMismatch)
		}
		entries = append(entries, entry{store: store, info: info})
	}

	infos := make([]models.SeriesInfo, len(entries))
	for i, e := range entries {
		infos[i] = e.info
	}
	rng, err := resolveRange(start, end, infos)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		if !rng.Overlaps(e.info.Bounds()) {
			return nil, fmt.Errorf("database %s: %s has no data in %s: %w",
				databases[i], series, rng, models.ErrEmptyRange)
		}
	}

	b := models.NewTableBuilder(rng)
	for i, e := range entries {
		obs, err := e.store.Observations(ctx, series, rng)
		if err != nil {
			return nil, err
		}
		b.AddColumn(databases[i], obs)
	}
	table := b.Build()

	if c.metrics != nil {
		c.metrics.RecordLatency("compare", time.Since(began).Seconds())
	}
	return table, nil
}
