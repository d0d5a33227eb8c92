package service

import (
	"context"
	"log"
	"sync"
)

// Listing is a live read subscription: it re-runs its query whenever
// one of its tables changes and pushes the fresh result to
// subscribers. A failed recomputation keeps the prior known-good
// result visible.
type Listing[T any] struct {
	bus    *EventBus
	tables []string
	query  func(ctx context.Context) ([]T, error)
	events chan Event

	mu      sync.RWMutex
	current []T
	subs    []chan []T
}

// NewListing creates a live listing over the given tables. Call Run to
// start it.
func NewListing[T any](bus *EventBus, query func(ctx context.Context) ([]T, error), tables ...string) *Listing[T] {
	l := &Listing[T]{
		bus:    bus,
		tables: tables,
		query:  query,
		events: make(chan Event, 64),
	}
	bus.Subscribe(l.events)
	return l
}

// Run evaluates the query once, then re-evaluates on every relevant
// change event until ctx is done
func (l *Listing[T]) Run(ctx context.Context) {
	l.refresh(ctx)
	for {
		select {
		case ev := <-l.events:
			if ev.Touches(l.tables...) {
				l.refresh(ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Current returns the latest known-good result
func (l *Listing[T]) Current() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Subscribe returns a channel receiving each fresh result. A slow
// subscriber drops intermediate emissions rather than blocking the
// refresh loop.
func (l *Listing[T]) Subscribe() <-chan []T {
	ch := make(chan []T, 16)
	l.mu.Lock()
	l.subs = append(l.subs, ch)
	l.mu.Unlock()
	return ch
}

func (l *Listing[T]) refresh(ctx context.Context) {
	result, err := l.query(ctx)
	if err != nil {
		// Keep the previous result visible
		log.Printf("listing refresh failed, keeping prior result: %v", err)
		return
	}
	l.mu.Lock()
	l.current = result
	subs := l.subs
	l.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- result:
		default:
		}
	}
}
