package events

import (
	"context"
	"sync"

	"namehaus/pkg/domain"
)

const defaultSubscriberBuffer = 64

// MemoryLog is an append-only in-memory event log with live fan-out to
// subscribers. Appends never block on slow subscribers; a subscriber whose
// buffer is full misses the event and is expected to re-poll List.
type MemoryLog struct {
	mu     sync.RWMutex
	events []Event
	subs   map[chan Event]struct{}
	closed bool
}

// NewMemoryLog creates an empty in-memory event log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{subs: make(map[chan Event]struct{})}
}

// Append stores the event and fans it out to live subscribers.
func (l *MemoryLog) Append(_ context.Context, event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	for sub := range l.subs {
		select {
		case sub <- event:
		default:
		}
	}
	return nil
}

// List returns all events in append order.
func (l *MemoryLog) List(_ context.Context) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Event{}, l.events...), nil
}

// ListByRecord returns the events touching a single record, in append order.
func (l *MemoryLog) ListByRecord(_ context.Context, id domain.RecordID) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Event
	for _, e := range l.events {
		if e.RecordID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// Subscribe returns a channel receiving events appended after the call. The
// channel is closed when ctx is cancelled or the log is closed.
func (l *MemoryLog) Subscribe(ctx context.Context) <-chan Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	sub := make(chan Event, defaultSubscriberBuffer)
	if l.closed {
		close(sub)
		return sub
	}
	l.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.subs[sub]; ok {
			delete(l.subs, sub)
			close(sub)
		}
	}()

	return sub
}

// Close closes all subscriber channels. Further appends still accumulate.
func (l *MemoryLog) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for sub := range l.subs {
		delete(l.subs, sub)
		close(sub)
	}
}
