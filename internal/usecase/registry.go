package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"FameFeed/internal/domain/models"
	"FameFeed/internal/domain/repository"
)

// StoreRegistry holds every opened database keyed by its configured name.
// Stores are opened once at startup; Close releases them all and is
// idempotent.
type StoreRegistry struct {
	mu     sync.RWMutex
	stores map[string]registryEntry
	closed bool
}

type registryEntry struct {
	store   repository.SeriesStore
	backend string
}

func NewStoreRegistry() *StoreRegistry {
	return &StoreRegistry{stores: make(map[string]registryEntry)}
}

// Add registers an opened store under name. Last registration wins.
func (r *StoreRegistry) Add(name, backend string, store repository.SeriesStore) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[name] = registryEntry{store: store, backend: backend}
}

// Get returns the store for a configured database name. An unknown name or a
// closed registry wraps models.ErrConnection.
func (r *StoreRegistry) Get(name string) (repository.SeriesStore, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, "", fmt.Errorf("registry closed: %w", models.ErrConnection)
	}
	e, ok := r.stores[name]
	if !ok {
		return nil, "", fmt.Errorf("unknown database %q: %w", name, models.ErrConnection)
	}
	return e.store, e.backend, nil
}

// Names returns all registered database names, sorted.
func (r *StoreRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.stores))
	for name := range r.stores {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Backend returns the backend label of a registered database.
func (r *StoreRegistry) Backend(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stores[name].backend
}

// HealthAll pings every store.
func (r *StoreRegistry) HealthAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]error, len(r.stores))
	for name, e := range r.stores {
		out[name] = e.store.Health(ctx)
	}
	return out
}

// Close releases every store. Calling it again is a no-op.
func (r *StoreRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	var firstErr error
	for name, e := range r.stores {
		if err := e.store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", name, err)
		}
	}
	return firstErr
}
