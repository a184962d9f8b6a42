package models

import (
	"testing"
)

func TestParseQuarter(t *testing.T) {
	q, err := ParseQuarter("2020Q3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Year != 2020 || q.Q != 3 {
		t.Fatalf("unexpected quarter %+v", q)
	}
}

func TestParseQuarterLowercase(t *testing.T) {
	q, err := ParseQuarter(" 1999q1 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.String() != "1999Q1" {
		t.Fatalf("unexpected quarter %s", q)
	}
}

func TestParseQuarterInvalid(t *testing.T) {
	for _, s := range []string{"", "2020", "2020Q0", "2020Q5", "20Q1", "2020-Q1", "Q12020"} {
		if _, err := ParseQuarter(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestParsePeriodYearExpansion(t *testing.T) {
	start, err := ParsePeriod("2015", RangeStart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.String() != "2015Q1" {
		t.Fatalf("expected 2015Q1, got %s", start)
	}

	end, err := ParsePeriod("2015", RangeEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end.String() != "2015Q4" {
		t.Fatalf("expected 2015Q4, got %s", end)
	}
}

func TestParsePeriodCanonicalForm(t *testing.T) {
	q, err := ParsePeriod("2021Q2", RangeEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.String() != "2021Q2" {
		t.Fatalf("unexpected quarter %s", q)
	}
}

func TestQuarterIndexRoundTrip(t *testing.T) {
	for _, q := range []Quarter{{1990, 1}, {2020, 4}, {2024, 2}} {
		if got := QuarterFromIndex(q.Index()); got != q {
			t.Fatalf("round trip %s -> %s", q, got)
		}
	}
}

func TestQuarterOrdering(t *testing.T) {
	a := Quarter{2020, 4}
	b := Quarter{2021, 1}
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("expected %s < %s", a, b)
	}
	if a.Next() != b {
		t.Fatalf("expected next of %s to be %s, got %s", a, b, a.Next())
	}
	if b.Prev() != a {
		t.Fatalf("expected prev of %s to be %s, got %s", b, a, b.Prev())
	}
}

func TestNewQuarterRangeRejectsMisordered(t *testing.T) {
	if _, err := NewQuarterRange(Quarter{2021, 1}, Quarter{2020, 4}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestQuarterRangeLenAndQuarters(t *testing.T) {
	rng, err := NewQuarterRange(Quarter{2020, 3}, Quarter{2021, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rng.Len() != 4 {
		t.Fatalf("expected 4 quarters, got %d", rng.Len())
	}
	qs := rng.Quarters()
	for i := 1; i < len(qs); i++ {
		if !qs[i-1].Before(qs[i]) {
			t.Fatalf("periods not strictly increasing at %d", i)
		}
	}
	if qs[0].String() != "2020Q3" || qs[3].String() != "2021Q2" {
		t.Fatalf("unexpected span %s..%s", qs[0], qs[3])
	}
}

func TestQuarterRangeOverlaps(t *testing.T) {
	a := QuarterRange{Quarter{2020, 1}, Quarter{2020, 4}}
	b := QuarterRange{Quarter{2020, 4}, Quarter{2021, 4}}
	c := QuarterRange{Quarter{2021, 1}, Quarter{2021, 4}}
	if !a.Overlaps(b) {
		t.Fatalf("expected %s to overlap %s", a, b)
	}
	if a.Overlaps(c) {
		t.Fatalf("expected %s not to overlap %s", a, c)
	}
}
