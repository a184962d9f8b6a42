package models

import (
	"encoding/json"
	"errors"
)

// Sentinel errors for the read path. Stores and usecases wrap these with
// fmt.Errorf("...: %w", ...) so callers can match with errors.Is.
var (
	// ErrConnection means the backing store could not be reached or opened.
	ErrConnection = errors.New("database connection failed")
	// ErrSeriesNotFound means a requested series name is absent.
	ErrSeriesNotFound = errors.New("series not found")
	// ErrEmptyRange means the requested window has no overlap with stored data.
	ErrEmptyRange = errors.New("no data in requested range")
	// ErrFrequencyMismatch means the series is not stored at quarterly frequency.
	ErrFrequencyMismatch = errors.New("series frequency is not quarterly")
)

// Frequency is the stored granularity of a series, as recorded by the source
// system (FAME reports upper-case names).
type Frequency string

const (
	FreqQuarterly Frequency = "QUARTERLY"
	FreqMonthly   Frequency = "MONTHLY"
	FreqAnnual    Frequency = "ANNUAL"
	FreqDaily     Frequency = "DAILY"
)

// SeriesInfo is catalog metadata for one stored series.
type SeriesInfo struct {
	Name      string    `json:"name"`
	Frequency Frequency `json:"frequency"`
	First     Quarter   `json:"first"`
	Last      Quarter   `json:"last"`
}

// Bounds returns the stored observation range.
func (s SeriesInfo) Bounds() QuarterRange {
	return QuarterRange{Start: s.First, End: s.Last}
}

// Observation is a single stored data point.
type Observation struct {
	Period Quarter `json:"period"`
	Value  float64 `json:"value"`
}

// Value is one table cell. Valid=false is the explicit "no data" marker and
// renders as JSON null and an empty CSV field.
type Value struct {
	Float64 float64
	Valid   bool
}

// Some makes a present value.
func Some(v float64) Value { return Value{Float64: v, Valid: true} }

// None is the missing-value marker.
func None() Value { return Value{} }

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float64)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}
