package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Quarter identifies one calendar quarter. The zero value is invalid.
type Quarter struct {
	Year int
	Q    int
}

var yearOnly = regexp.MustCompile(`^[1-2][0-9]{3}$`)

// ParseQuarter parses the canonical YYYYQn form, case-insensitive.
func ParseQuarter(s string) (Quarter, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 6 || s[4] != 'Q' {
		return Quarter{}, fmt.Errorf("invalid quarter %q: want YYYYQn", s)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return Quarter{}, fmt.Errorf("invalid quarter %q: %w", s, err)
	}
	q, err := strconv.Atoi(s[5:])
	if err != nil || q < 1 || q > 4 {
		return Quarter{}, fmt.Errorf("invalid quarter %q: quarter must be 1..4", s)
	}
	return Quarter{Year: year, Q: q}, nil
}

// RangeEdge says which end of a range a shorthand period expands toward.
type RangeEdge int

const (
	RangeStart RangeEdge = iota
	RangeEnd
)

// ParsePeriod parses YYYYQn, or a bare YYYY which expands to Q1 at a range
// start and Q4 at a range end.
func ParsePeriod(s string, edge RangeEdge) (Quarter, error) {
	s = strings.TrimSpace(s)
	if yearOnly.MatchString(s) {
		year, _ := strconv.Atoi(s)
		if edge == RangeEnd {
			return Quarter{Year: year, Q: 4}, nil
		}
		return Quarter{Year: year, Q: 1}, nil
	}
	return ParseQuarter(s)
}

// QuarterFromIndex is the inverse of Index.
func QuarterFromIndex(idx int) Quarter {
	return Quarter{Year: idx / 4, Q: idx%4 + 1}
}

// Index maps a quarter onto a contiguous integer axis.
func (q Quarter) Index() int { return q.Year*4 + q.Q - 1 }

func (q Quarter) String() string { return fmt.Sprintf("%04dQ%d", q.Year, q.Q) }

// IsZero reports whether q is the unset value.
func (q Quarter) IsZero() bool { return q.Year == 0 && q.Q == 0 }

func (q Quarter) Before(o Quarter) bool { return q.Index() < o.Index() }

func (q Quarter) After(o Quarter) bool { return q.Index() > o.Index() }

// Next returns the following quarter.
func (q Quarter) Next() Quarter { return QuarterFromIndex(q.Index() + 1) }

// Prev returns the preceding quarter.
func (q Quarter) Prev() Quarter { return QuarterFromIndex(q.Index() - 1) }

// Time returns the first calendar day of the quarter in UTC.
func (q Quarter) Time() time.Time {
	return time.Date(q.Year, time.Month((q.Q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
}

// MarshalText lets Quarter be used directly in JSON keys and fields.
func (q Quarter) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

// UnmarshalText parses the canonical form.
func (q *Quarter) UnmarshalText(b []byte) error {
	parsed, err := ParseQuarter(string(b))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// QuarterRange is an inclusive span of quarters.
type QuarterRange struct {
	Start Quarter
	End   Quarter
}

// NewQuarterRange validates start <= end.
func NewQuarterRange(start, end Quarter) (QuarterRange, error) {
	if start.After(end) {
		return QuarterRange{}, fmt.Errorf("range %s..%s: start after end", start, end)
	}
	return QuarterRange{Start: start, End: end}, nil
}

// Len is the number of quarters in the range, inclusive.
func (r QuarterRange) Len() int { return r.End.Index() - r.Start.Index() + 1 }

// Contains reports whether q falls inside the range.
func (r QuarterRange) Contains(q Quarter) bool {
	return !q.Before(r.Start) && !q.After(r.End)
}

// Overlaps reports whether two ranges share at least one quarter.
func (r QuarterRange) Overlaps(o QuarterRange) bool {
	return !r.End.Before(o.Start) && !o.End.Before(r.Start)
}

// Quarters enumerates the range in ascending order.
func (r QuarterRange) Quarters() []Quarter {
	out := make([]Quarter, 0, r.Len())
	for i := r.Start.Index(); i <= r.End.Index(); i++ {
		out = append(out, QuarterFromIndex(i))
	}
	return out
}

func (r QuarterRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}
