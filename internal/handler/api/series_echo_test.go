package api

import (
	"fmt"
	"net/http"
	"reflect"
	"testing"

	models "FameFeed/internal/domain/models"
)

func TestParseBounds(t *testing.T) {
	start, end, appErr := parseBounds("2020Q1", "2021")
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if start.String() != "2020Q1" || end.String() != "2021Q4" {
		t.Fatalf("unexpected bounds %s..%s", start, end)
	}
}

func TestParseBoundsOptional(t *testing.T) {
	start, end, appErr := parseBounds("", "")
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if !start.IsZero() || !end.IsZero() {
		t.Fatalf("expected zero bounds")
	}
}

func TestParseBoundsMisordered(t *testing.T) {
	_, _, appErr := parseBounds("2021Q1", "2020Q4")
	if appErr == nil || appErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", appErr)
	}
}

func TestParseBoundsInvalid(t *testing.T) {
	_, _, appErr := parseBounds("20Q1", "")
	if appErr == nil || appErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", appErr)
	}
}

func TestSplitNames(t *testing.T) {
	got := splitNames(" GDP, CPI ,,GNP ")
	want := []string{"GDP", "CPI", "GNP"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected names %v", got)
	}
	if splitNames("  ") != nil {
		t.Fatalf("expected nil for blank input")
	}
}

func TestDomainErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("x: %w", models.ErrSeriesNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", models.ErrEmptyRange), http.StatusUnprocessableEntity},
		{fmt.Errorf("x: %w", models.ErrFrequencyMismatch), http.StatusConflict},
		{fmt.Errorf("x: %w", models.ErrConnection), http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := domainError(c.err).Status; got != c.status {
			t.Fatalf("expected %d for %v, got %d", c.status, c.err, got)
		}
	}
}
