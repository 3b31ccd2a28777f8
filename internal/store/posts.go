package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"amiverse/pkg/amiapi"
)

var ErrPostNotCached = errors.New("post not cached")

// CachedPost is a post as held by the store. Revision increases with every
// applied write and identifies one particular write.
type CachedPost struct {
	amiapi.Post

	FetchedAt time.Time
	Revision  uint64
}

// Posts is the normalized post cache keyed by aid. A write for an aid is
// applied when the aid is absent or the incoming stamp is not older than the
// cached one.
type Posts struct {
	Clock func() time.Time

	bus *Bus

	mu       sync.RWMutex
	posts    map[string]CachedPost
	revision uint64
}

// NewPosts creates an empty store publishing to bus. bus may be nil.
func NewPosts(bus *Bus) *Posts {
	return &Posts{
		Clock: time.Now,
		bus:   bus,
		posts: map[string]CachedPost{},
	}
}

func (s *Posts) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// Add stamps posts with the current time and writes them. It returns the
// number of applied writes.
func (s *Posts) Add(posts ...amiapi.Post) int {
	return s.AddAt(s.now(), posts...)
}

func (s *Posts) AddAt(at time.Time, posts ...amiapi.Post) int {
	if len(posts) == 0 {
		return 0
	}

	applied := make([]string, 0, len(posts))

	s.mu.Lock()
	for _, post := range posts {
		existing, ok := s.posts[post.AID]
		if ok && at.Before(existing.FetchedAt) {
			countWrite("posts", false)
			continue
		}
		s.put(post.Clone(), at)
		applied = append(applied, post.AID)
		countWrite("posts", true)
	}
	s.mu.Unlock()

	if len(applied) > 0 {
		s.bus.Publish(Event{Kind: KindPostsUpdated, Keys: applied, At: at})
	}
	return len(applied)
}

// put must be called with the write lock held.
func (s *Posts) put(post amiapi.Post, at time.Time) CachedPost {
	s.revision++
	cached := CachedPost{Post: post, FetchedAt: at, Revision: s.revision}
	s.posts[post.AID] = cached
	return cached
}

func (s *Posts) Get(aid string) (CachedPost, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached, ok := s.posts[aid]
	if !ok {
		return CachedPost{}, false
	}
	cached.Post = cached.Post.Clone()
	return cached, true
}

// Lookup returns the resident post content for aid.
func (s *Posts) Lookup(aid string) (amiapi.Post, bool) {
	cached, ok := s.Get(aid)
	return cached.Post, ok
}

func (s *Posts) Remove(aid string) bool {
	s.mu.Lock()
	_, ok := s.posts[aid]
	delete(s.posts, aid)
	s.mu.Unlock()

	if ok {
		s.bus.Publish(Event{Kind: KindPostRemoved, Keys: []string{aid}, At: s.now()})
	}
	return ok
}

// Update applies fn to the cached post as one atomic read-modify-write and
// returns the entry before and after the write. fn receives a copy it may
// mutate freely.
func (s *Posts) Update(aid string, fn func(amiapi.Post) amiapi.Post) (CachedPost, CachedPost, error) {
	at := s.now()

	s.mu.Lock()
	prev, ok := s.posts[aid]
	if !ok {
		s.mu.Unlock()
		return CachedPost{}, CachedPost{}, fmt.Errorf("%w: %s", ErrPostNotCached, aid)
	}

	next := fn(prev.Post.Clone())
	next.AID = aid
	cached := s.put(next, at)
	s.mu.Unlock()

	countWrite("posts", true)
	s.bus.Publish(Event{Kind: KindPostsUpdated, Keys: []string{aid}, At: at})

	prev.Post = prev.Post.Clone()
	cached.Post = cached.Post.Clone()
	return prev, cached, nil
}

// Restore writes post back only if the entry for its aid is still the write
// identified by revision. It reports whether the restore was applied.
func (s *Posts) Restore(revision uint64, post amiapi.Post) bool {
	at := s.now()

	s.mu.Lock()
	current, ok := s.posts[post.AID]
	if !ok || current.Revision != revision {
		s.mu.Unlock()
		countWrite("posts", false)
		return false
	}
	s.put(post.Clone(), at)
	s.mu.Unlock()

	countWrite("posts", true)
	s.bus.Publish(Event{Kind: KindPostsUpdated, Keys: []string{post.AID}, At: at})
	return true
}

func (s *Posts) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}
