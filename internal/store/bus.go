package store

import (
	"sync"
	"time"
)

type Kind string

const (
	KindPostsUpdated Kind = "posts_updated"
	KindPostRemoved  Kind = "post_removed"
	KindFeedUpdated  Kind = "feed_updated"
)

// Event describes one applied store mutation. Keys are post aids for post
// events and feed types for feed events.
type Event struct {
	Kind Kind      `json:"kind"`
	Keys []string  `json:"keys"`
	At   time.Time `json:"at"`
}

// Bus fans store events out to subscribers. Subscribers are called
// synchronously, after the emitting store released its lock.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
}

func NewBus() *Bus {
	return &Bus{subs: map[int]func(Event){}}
}

// Subscribe registers fn and returns a function removing it.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	subs := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}
