package store

import (
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"amiverse/pkg/amiapi"
)

type CachedFeed struct {
	Items     []amiapi.FeedItem
	FetchedAt time.Time
}

// Feeds holds one ordered item sequence per feed type. Items only reference
// posts by aid.
type Feeds struct {
	Clock func() time.Time

	bus *Bus

	mu    sync.RWMutex
	feeds map[string]CachedFeed
}

// NewFeeds creates an empty store publishing to bus. bus may be nil.
func NewFeeds(bus *Bus) *Feeds {
	return &Feeds{
		Clock: time.Now,
		bus:   bus,
		feeds: map[string]CachedFeed{},
	}
}

func (s *Feeds) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// Add replaces the sequence of feedType unless the cached one is newer.
func (s *Feeds) Add(feedType string, items []amiapi.FeedItem) bool {
	return s.AddAt(s.now(), feedType, items)
}

func (s *Feeds) AddAt(at time.Time, feedType string, items []amiapi.FeedItem) bool {
	s.mu.Lock()
	existing, ok := s.feeds[feedType]
	if ok && at.Before(existing.FetchedAt) {
		s.mu.Unlock()
		countWrite("feeds", false)
		return false
	}
	s.feeds[feedType] = CachedFeed{Items: copyItems(items), FetchedAt: at}
	s.mu.Unlock()

	countWrite("feeds", true)
	s.publish(feedType, at)
	return true
}

// Append concatenates items after the cached sequence, keeping its stamp. An
// absent feed type is created with the current time.
func (s *Feeds) Append(feedType string, items []amiapi.FeedItem) {
	at := s.now()

	s.mu.Lock()
	existing, ok := s.feeds[feedType]
	if ok {
		existing.Items = append(copyItems(existing.Items), items...)
	} else {
		existing = CachedFeed{Items: copyItems(items), FetchedAt: at}
	}
	s.feeds[feedType] = existing
	s.mu.Unlock()

	countWrite("feeds", true)
	s.publish(feedType, at)
}

// Prepend inserts item first in a cached feed. It does nothing when the feed
// type has not been fetched yet.
func (s *Feeds) Prepend(feedType string, item amiapi.FeedItem) bool {
	s.mu.Lock()
	existing, ok := s.feeds[feedType]
	if !ok {
		s.mu.Unlock()
		return false
	}
	existing.Items = append([]amiapi.FeedItem{item}, existing.Items...)
	s.feeds[feedType] = existing
	s.mu.Unlock()

	countWrite("feeds", true)
	s.publish(feedType, s.now())
	return true
}

func (s *Feeds) Get(feedType string) (CachedFeed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feed, ok := s.feeds[feedType]
	if !ok {
		return CachedFeed{}, false
	}
	feed.Items = copyItems(feed.Items)
	return feed, true
}

// Types returns the cached feed types, sorted.
func (s *Feeds) Types() []string {
	s.mu.RLock()
	types := lo.Keys(s.feeds)
	s.mu.RUnlock()

	slices.Sort(types)
	return types
}

func (s *Feeds) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.feeds)
}

func (s *Feeds) publish(feedType string, at time.Time) {
	s.bus.Publish(Event{Kind: KindFeedUpdated, Keys: []string{feedType}, At: at})
}

func copyItems(items []amiapi.FeedItem) []amiapi.FeedItem {
	return append(make([]amiapi.FeedItem, 0, len(items)), items...)
}
