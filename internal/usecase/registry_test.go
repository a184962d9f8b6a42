package usecase

import (
	"context"
	"errors"
	"testing"

	"FameFeed/internal/domain/models"
)

func TestRegistryGet(t *testing.T) {
	reg := NewStoreRegistry()
	reg.Add("econ", "sqlite", newFakeStore())

	store, backend, err := reg.Get("econ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store == nil || backend != "sqlite" {
		t.Fatalf("unexpected entry %v %s", store, backend)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	reg := NewStoreRegistry()

	_, _, err := reg.Get("nope")
	if !errors.Is(err, models.ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	reg := NewStoreRegistry()
	reg.Add("b", "sqlite", newFakeStore())
	reg.Add("a", "sqlite", newFakeStore())

	names := reg.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestRegistryCloseIdempotent(t *testing.T) {
	reg := NewStoreRegistry()
	s := newFakeStore()
	reg.Add("econ", "sqlite", s)

	if err := reg.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := reg.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if s.closed != 1 {
		t.Fatalf("store closed %d times", s.closed)
	}

	if _, _, err := reg.Get("econ"); !errors.Is(err, models.ErrConnection) {
		t.Fatalf("expected ErrConnection after close, got %v", err)
	}
}

func TestRegistryHealthAll(t *testing.T) {
	reg := NewStoreRegistry()
	reg.Add("a", "sqlite", newFakeStore())
	reg.Add("b", "sqlite", newFakeStore())

	health := reg.HealthAll(context.Background())
	if len(health) != 2 || health["a"] != nil || health["b"] != nil {
		t.Fatalf("unexpected health %v", health)
	}
}
