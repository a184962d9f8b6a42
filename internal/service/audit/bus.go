package audit

import (
	"context"
	"sync"

	"FameFeed/internal/domain/models"
	"FameFeed/internal/domain/repository"
	applogger "FameFeed/pkg/logger"

	"github.com/google/uuid"
)

// Bus fans read-audit events out to registered sinks (Kafka) and live
// subscribers (WebSocket clients). Publishing never blocks the read path:
// sink errors are logged and subscriber channels drop when full.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan models.ReadAudit
	nextID int
	sinks  []repository.AuditSink
	closed bool
	l      *applogger.Logger
}

func NewBus(l *applogger.Logger) *Bus {
	return &Bus{subs: make(map[int]chan models.ReadAudit), l: l}
}

// AddSink registers a durable sink. Sinks are closed by Close.
func (b *Bus) AddSink(s repository.AuditSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

// Publish assigns the event an id and delivers it to sinks and subscribers.
func (b *Bus) Publish(ctx context.Context, ev models.ReadAudit) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, s := range b.sinks {
		if err := s.Emit(ctx, ev); err != nil && b.l != nil {
			b.l.Warn("audit sink emit failed", applogger.Error(err))
		}
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// slow subscriber, drop
		}
	}
}

// Subscribe returns a live event channel and a cancel function. The channel
// is closed on cancel or bus close.
func (b *Bus) Subscribe() (<-chan models.ReadAudit, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan models.ReadAudit, 64)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// Close closes all sinks and subscriber channels. Idempotent.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var firstErr error
	for _, s := range b.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	return firstErr
}
