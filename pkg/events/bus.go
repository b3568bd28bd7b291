package events

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultHistoryLimit bounds the history kept by a MemoryBus.
const DefaultHistoryLimit = 1024

// Bus provides publish/subscribe for verification events.
type Bus interface {
	Publish(event Event)
	Subscribe(filter ...EventType) <-chan Event
	Unsubscribe(ch <-chan Event)
	History(since time.Time) []Event
}

// subscriberBuffer is the channel capacity of each subscription.
const subscriberBuffer = 64

type subscriber struct {
	ch     chan Event
	filter map[EventType]bool // empty means all events
}

func (s subscriber) wants(typ EventType) bool {
	return len(s.filter) == 0 || s.filter[typ]
}

// MemoryBus is an in-memory implementation of Bus.
type MemoryBus struct {
	mu          sync.RWMutex
	subscribers []subscriber
	history     []Event
	limit       int
	dropped     atomic.Int64
}

// NewMemoryBus creates a bus that retains at most DefaultHistoryLimit events.
func NewMemoryBus() *MemoryBus {
	return NewMemoryBusWithLimit(DefaultHistoryLimit)
}

// NewMemoryBusWithLimit creates a bus that retains at most limit events.
// A limit of zero or less keeps no history.
func NewMemoryBusWithLimit(limit int) *MemoryBus {
	if limit < 0 {
		limit = 0
	}
	return &MemoryBus{
		history: make([]Event, 0, min(limit, 256)),
		limit:   limit,
	}
}

// Publish records event and delivers it to every matching subscriber.
// A subscriber whose buffer is full misses the event; Dropped counts
// those misses.
func (b *MemoryBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.Lock()
	if b.limit > 0 {
		if len(b.history) == b.limit {
			b.history = slices.Delete(b.history, 0, 1)
		}
		b.history = append(b.history, event)
	}
	subs := slices.Clone(b.subscribers)
	b.mu.Unlock()

	for _, sub := range subs {
		if !sub.wants(event.Type) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribe returns a buffered channel receiving events of the given
// types, or of every type when filter is empty.
func (b *MemoryBus) Subscribe(filter ...EventType) <-chan Event {
	sub := subscriber{ch: make(chan Event, subscriberBuffer)}
	if len(filter) > 0 {
		sub.filter = make(map[EventType]bool, len(filter))
		for _, f := range filter {
			sub.filter[f] = true
		}
	}

	b.mu.Lock()
	b.subscribers = append(b.subscribers, sub)
	b.mu.Unlock()
	return sub.ch
}

// Unsubscribe removes and closes ch. Unknown channels are ignored.
func (b *MemoryBus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.subscribers, func(s subscriber) bool { return s.ch == ch })
	if i < 0 {
		return
	}
	close(b.subscribers[i].ch)
	b.subscribers = slices.Delete(b.subscribers, i, i+1)
}

// History returns the retained events published at or after since.
func (b *MemoryBus) History(since time.Time) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Event
	for _, e := range b.history {
		if !e.Timestamp.Before(since) {
			out = append(out, e)
		}
	}
	return out
}

// Dropped returns how many deliveries were skipped because a subscriber
// was not keeping up.
func (b *MemoryBus) Dropped() int64 {
	return b.dropped.Load()
}

// Count returns how many retained events have the given type.
func (b *MemoryBus) Count(typ EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, e := range b.history {
		if e.Type == typ {
			n++
		}
	}
	return n
}
