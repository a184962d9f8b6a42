package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"FameFeed/internal/domain/models"
)

type captureSink struct {
	events []models.ReadAudit
	closed int
	fail   bool
}

func (s *captureSink) Emit(_ context.Context, ev models.ReadAudit) error {
	if s.fail {
		return errors.New("sink down")
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *captureSink) Close() error {
	s.closed++
	return nil
}

func TestBusPublishToSink(t *testing.T) {
	bus := NewBus(nil)
	sink := &captureSink{}
	bus.AddSink(sink)

	bus.Publish(context.Background(), models.ReadAudit{Database: "econ", Outcome: "ok"})

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	if sink.events[0].ID == "" {
		t.Fatalf("expected generated event id")
	}
}

func TestBusSubscribe(t *testing.T) {
	bus := NewBus(nil)
	events, cancel := bus.Subscribe()
	defer cancel()

	bus.Publish(context.Background(), models.ReadAudit{Database: "econ"})

	select {
	case ev := <-events:
		if ev.Database != "econ" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event delivered")
	}
}

func TestBusSinkFailureDoesNotBlock(t *testing.T) {
	bus := NewBus(nil)
	bus.AddSink(&captureSink{fail: true})

	// must not panic or return
	bus.Publish(context.Background(), models.ReadAudit{Database: "econ"})
}

func TestBusCancelClosesChannel(t *testing.T) {
	bus := NewBus(nil)
	events, cancel := bus.Subscribe()
	cancel()

	if _, ok := <-events; ok {
		t.Fatalf("expected closed channel")
	}
	// second cancel is a no-op
	cancel()
}

func TestBusCloseIdempotent(t *testing.T) {
	bus := NewBus(nil)
	sink := &captureSink{}
	bus.AddSink(sink)
	events, _ := bus.Subscribe()

	if err := bus.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if sink.closed != 1 {
		t.Fatalf("sink closed %d times", sink.closed)
	}
	if _, ok := <-events; ok {
		t.Fatalf("expected subscriber channel closed")
	}

	// publish after close is dropped
	bus.Publish(context.Background(), models.ReadAudit{Database: "econ"})
	if len(sink.events) != 0 {
		t.Fatalf("event delivered after close")
	}
}

func TestBusSubscribeAfterClose(t *testing.T) {
	bus := NewBus(nil)
	_ = bus.Close()

	events, cancel := bus.Subscribe()
	defer cancel()
	if _, ok := <-events; ok {
		t.Fatalf("expected closed channel")
	}
}
