package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"testing"

	"FameFeed/internal/domain/models"
)

// fakeStore is an in-memory SeriesStore for usecase tests.
type fakeStore struct {
	series map[string]fakeSeries
	closed int
}

type fakeSeries struct {
	freq models.Frequency
	obs  []models.Observation
}

func newFakeStore() *fakeStore {
	return &fakeStore{series: make(map[string]fakeSeries)}
}

func (s *fakeStore) add(name string, freq models.Frequency, obs ...models.Observation) {
	s.series[name] = fakeSeries{freq: freq, obs: obs}
}

func (s *fakeStore) List(_ context.Context, pattern string) ([]models.SeriesInfo, error) {
	names := make([]string, 0, len(s.series))
	for name := range s.series {
		if ok, _ := path.Match(pattern, name); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]models.SeriesInfo, 0, len(names))
	for _, name := range names {
		info, err := s.Info(context.Background(), name)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

func (s *fakeStore) Info(_ context.Context, name string) (models.SeriesInfo, error) {
	sr, ok := s.series[name]
	if !ok {
		return models.SeriesInfo{}, fmt.Errorf("%s: %w", name, models.ErrSeriesNotFound)
	}
	info := models.SeriesInfo{Name: name, Frequency: sr.freq}
	if len(sr.obs) > 0 {
		info.First = sr.obs[0].Period
		info.Last = sr.obs[len(sr.obs)-1].Period
	}
	return info, nil
}

func (s *fakeStore) Observations(_ context.Context, name string, rng models.QuarterRange) ([]models.Observation, error) {
	sr, ok := s.series[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, models.ErrSeriesNotFound)
	}
	var out []models.Observation
	for _, o := range sr.obs {
		if rng.Contains(o.Period) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeStore) Health(context.Context) error { return nil }

func (s *fakeStore) Close() error {
	s.closed++
	return nil
}

func q(t *testing.T, s string) models.Quarter {
	t.Helper()
	out, err := models.ParseQuarter(s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return out
}

func gdpStore() *fakeStore {
	s := newFakeStore()
	s.add("GDP", models.FreqQuarterly,
		models.Observation{Period: models.Quarter{Year: 2020, Q: 1}, Value: 100},
		models.Observation{Period: models.Quarter{Year: 2020, Q: 2}, Value: 101},
		models.Observation{Period: models.Quarter{Year: 2020, Q: 3}, Value: 102},
		models.Observation{Period: models.Quarter{Year: 2020, Q: 4}, Value: 103},
	)
	return s
}

func newTestReader(stores map[string]*fakeStore) *SeriesReader {
	reg := NewStoreRegistry()
	for name, s := range stores {
		reg.Add(name, "sqlite", s)
	}
	return NewSeriesReader(reg)
}

func TestReadFullRange(t *testing.T) {
	r := newTestReader(map[string]*fakeStore{"econ": gdpStore()})

	table, err := r.Read(context.Background(), ReadQuery{
		Database: "econ",
		Names:    []string{"GDP"},
		Start:    q(t, "2020Q1"),
		End:      q(t, "2020Q4"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.NumRows() != 4 {
		t.Fatalf("expected 4 rows, got %d", table.NumRows())
	}
	col, ok := table.Column("GDP")
	if !ok {
		t.Fatalf("missing GDP column")
	}
	if !col[0].Valid || col[0].Float64 != 100 || col[3].Float64 != 103 {
		t.Fatalf("unexpected values %+v", col)
	}
}

func TestReadClampsMissingBounds(t *testing.T) {
	r := newTestReader(map[string]*fakeStore{"econ": gdpStore()})

	table, err := r.Read(context.Background(), ReadQuery{Database: "econ", Names: []string{"GDP"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := table.Range()
	if rng.Start != q(t, "2020Q1") || rng.End != q(t, "2020Q4") {
		t.Fatalf("unexpected clamped range %s", rng)
	}
}

func TestReadEmptyNamesReadsAllQuarterly(t *testing.T) {
	s := gdpStore()
	s.add("CPI", models.FreqQuarterly,
		models.Observation{Period: models.Quarter{Year: 2020, Q: 2}, Value: 2},
	)
	s.add("PAYROLL", models.FreqMonthly)
	r := newTestReader(map[string]*fakeStore{"econ": s})

	table, err := r.Read(context.Background(), ReadQuery{Database: "econ"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Columns) != 2 {
		t.Fatalf("expected 2 quarterly columns, got %v", table.Columns)
	}
	for _, c := range table.Columns {
		if c == "PAYROLL" {
			t.Fatalf("monthly series leaked into read")
		}
	}
}

func TestReadUnknownSeries(t *testing.T) {
	r := newTestReader(map[string]*fakeStore{"econ": gdpStore()})

	_, err := r.Read(context.Background(), ReadQuery{Database: "econ", Names: []string{"NONEXISTENT"}})
	if !errors.Is(err, models.ErrSeriesNotFound) {
		t.Fatalf("expected ErrSeriesNotFound, got %v", err)
	}
}

func TestReadNoPartialResults(t *testing.T) {
	r := newTestReader(map[string]*fakeStore{"econ": gdpStore()})

	table, err := r.Read(context.Background(), ReadQuery{
		Database: "econ",
		Names:    []string{"GDP", "NONEXISTENT"},
	})
	if !errors.Is(err, models.ErrSeriesNotFound) {
		t.Fatalf("expected ErrSeriesNotFound, got %v", err)
	}
	if table != nil {
		t.Fatalf("expected no table on error")
	}
}

func TestReadOutOfBoundsRange(t *testing.T) {
	r := newTestReader(map[string]*fakeStore{"econ": gdpStore()})

	_, err := r.Read(context.Background(), ReadQuery{
		Database: "econ",
		Names:    []string{"GDP"},
		Start:    q(t, "2023Q1"),
		End:      q(t, "2023Q4"),
	})
	if !errors.Is(err, models.ErrEmptyRange) {
		t.Fatalf("expected ErrEmptyRange, got %v", err)
	}
}

func TestReadFrequencyMismatch(t *testing.T) {
	s := gdpStore()
	s.add("PAYROLL", models.FreqMonthly,
		models.Observation{Period: models.Quarter{Year: 2020, Q: 1}, Value: 1},
	)
	r := newTestReader(map[string]*fakeStore{"econ": s})

	_, err := r.Read(context.Background(), ReadQuery{Database: "econ", Names: []string{"PAYROLL"}})
	if !errors.Is(err, models.ErrFrequencyMismatch) {
		t.Fatalf("expected ErrFrequencyMismatch, got %v", err)
	}
}

func TestReadUnknownDatabase(t *testing.T) {
	r := newTestReader(map[string]*fakeStore{"econ": gdpStore()})

	_, err := r.Read(context.Background(), ReadQuery{Database: "nope", Names: []string{"GDP"}})
	if !errors.Is(err, models.ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
}

func TestReadPadsRequestedRangeWithNulls(t *testing.T) {
	r := newTestReader(map[string]*fakeStore{"econ": gdpStore()})

	table, err := r.Read(context.Background(), ReadQuery{
		Database: "econ",
		Names:    []string{"GDP"},
		Start:    q(t, "2019Q4"),
		End:      q(t, "2021Q1"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.NumRows() != 6 {
		t.Fatalf("expected 6 rows, got %d", table.NumRows())
	}
	col, _ := table.Column("GDP")
	if col[0].Valid || col[5].Valid {
		t.Fatalf("expected null padding outside stored bounds")
	}
}

func TestCatalogPattern(t *testing.T) {
	s := gdpStore()
	s.add("GNP", models.FreqQuarterly,
		models.Observation{Period: models.Quarter{Year: 2020, Q: 1}, Value: 1},
	)
	s.add("CPI", models.FreqQuarterly,
		models.Observation{Period: models.Quarter{Year: 2020, Q: 1}, Value: 2},
	)
	r := newTestReader(map[string]*fakeStore{"econ": s})

	infos, err := r.Catalog(context.Background(), "econ", "G*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != "GDP" || infos[1].Name != "GNP" {
		t.Fatalf("unexpected catalog %+v", infos)
	}
}

func TestDatabasesHealth(t *testing.T) {
	r := newTestReader(map[string]*fakeStore{"a": gdpStore(), "b": gdpStore()})

	statuses := r.Databases(context.Background())
	if len(statuses) != 2 {
		t.Fatalf("expected 2 databases, got %d", len(statuses))
	}
	for _, st := range statuses {
		if !st.Healthy {
			t.Fatalf("expected healthy database %s", st.Name)
		}
	}
}

func TestErrorClass(t *testing.T) {
	cases := map[string]error{
		"not_found":          fmt.Errorf("x: %w", models.ErrSeriesNotFound),
		"empty_range":        fmt.Errorf("x: %w", models.ErrEmptyRange),
		"frequency_mismatch": fmt.Errorf("x: %w", models.ErrFrequencyMismatch),
		"connection":         fmt.Errorf("x: %w", models.ErrConnection),
		"internal":           errors.New("boom"),
	}
	for want, err := range cases {
		if got := ErrorClass(err); got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}
