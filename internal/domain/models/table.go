package models

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// SeriesTable is the read result: one row per quarter in the requested range,
// one column per series. Periods are strictly increasing with no duplicates.
// Tables are built once and not mutated afterwards.
type SeriesTable struct {
	Columns []string  `json:"columns"`
	Periods []Quarter `json:"periods"`
	Rows    [][]Value `json:"rows"`
}

// TableBuilder assembles a SeriesTable column by column over a fixed range.
type TableBuilder struct {
	rng  QuarterRange
	cols []string
	data [][]Value // per column, rng.Len() cells
}

// NewTableBuilder fixes the period axis for the table.
func NewTableBuilder(rng QuarterRange) *TableBuilder {
	return &TableBuilder{rng: rng}
}

// AddColumn joins one series' observations onto the period axis. Observations
// outside the range are ignored; quarters without an observation stay null.
func (b *TableBuilder) AddColumn(name string, obs []Observation) {
	cells := make([]Value, b.rng.Len())
	for _, o := range obs {
		if !b.rng.Contains(o.Period) {
			continue
		}
		cells[o.Period.Index()-b.rng.Start.Index()] = Some(o.Value)
	}
	b.cols = append(b.cols, name)
	b.data = append(b.data, cells)
}

// Build produces the row-ordered table.
func (b *TableBuilder) Build() *SeriesTable {
	periods := b.rng.Quarters()
	rows := make([][]Value, len(periods))
	for i := range periods {
		row := make([]Value, len(b.cols))
		for j := range b.cols {
			row[j] = b.data[j][i]
		}
		rows[i] = row
	}
	return &SeriesTable{Columns: append([]string(nil), b.cols...), Periods: periods, Rows: rows}
}

// Range returns the period span of the table.
func (t *SeriesTable) Range() QuarterRange {
	if len(t.Periods) == 0 {
		return QuarterRange{}
	}
	return QuarterRange{Start: t.Periods[0], End: t.Periods[len(t.Periods)-1]}
}

// NumRows is the row count.
func (t *SeriesTable) NumRows() int { return len(t.Periods) }

// Column returns the cells of one column by series name.
func (t *SeriesTable) Column(name string) ([]Value, bool) {
	for j, c := range t.Columns {
		if c != name {
			continue
		}
		out := make([]Value, len(t.Rows))
		for i, row := range t.Rows {
			out[i] = row[j]
		}
		return out, true
	}
	return nil, false
}

// WriteCSV writes header "period,<series...>" then one record per quarter.
// Missing values become empty fields.
func (t *SeriesTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{"period"}, t.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	rec := make([]string, len(header))
	for i, p := range t.Periods {
		rec[0] = p.String()
		for j, v := range t.Rows[i] {
			if v.Valid {
				rec[j+1] = strconv.FormatFloat(v.Float64, 'g', -1, 64)
			} else {
				rec[j+1] = ""
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %s: %w", p, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
