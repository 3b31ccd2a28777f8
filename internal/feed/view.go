package feed

import (
	"slices"
	"sync"

	"github.com/samber/lo"

	"amiverse/internal/store"
)

// View keeps the composition of one feed type current. It recomposes on
// every change to the feed or to a post the feed references, and hands each
// result to the callback.
type View struct {
	feedType string
	posts    *store.Posts
	feeds    *store.Feeds
	onChange func([]Entry)

	unsubscribe func()

	// recomposing serializes relevance checks with recomposition, so the last
	// recompose always reads the stores after the last relevant write.
	recomposing sync.Mutex

	mu      sync.Mutex
	entries []Entry
	refs    map[string]struct{}
	closed  bool
}

// Watch composes feedType once and then on every relevant store event.
// onChange may be nil.
func Watch(bus *store.Bus, posts *store.Posts, feeds *store.Feeds, feedType string, onChange func([]Entry)) *View {
	v := &View{
		feedType: feedType,
		posts:    posts,
		feeds:    feeds,
		onChange: onChange,
		refs:     map[string]struct{}{},
	}

	v.unsubscribe = bus.Subscribe(v.handle)

	v.recomposing.Lock()
	entries, ok := v.recompose()
	v.recomposing.Unlock()
	v.notify(entries, ok)

	return v
}

func (v *View) Entries() []Entry {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.entries)
}

func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()

	v.unsubscribe()
}

func (v *View) handle(e store.Event) {
	v.recomposing.Lock()
	if !v.relevant(e) {
		v.recomposing.Unlock()
		return
	}
	entries, ok := v.recompose()
	v.recomposing.Unlock()

	v.notify(entries, ok)
}

func (v *View) relevant(e store.Event) bool {
	if e.Kind == store.KindFeedUpdated {
		return lo.Contains(e.Keys, v.feedType)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	return lo.SomeBy(e.Keys, func(aid string) bool {
		_, ok := v.refs[aid]
		return ok
	})
}

// recompose must be called with recomposing held. It reports false once the
// view is closed.
func (v *View) recompose() ([]Entry, bool) {
	cached, ok := v.feeds.Get(v.feedType)

	var entries []Entry
	if ok {
		entries = Compose(cached.Items, nil, v.posts.Lookup)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil, false
	}
	v.entries = entries
	v.refs = make(map[string]struct{}, len(cached.Items))
	for _, item := range cached.Items {
		v.refs[item.PostAID] = struct{}{}
	}
	return entries, true
}

func (v *View) notify(entries []Entry, ok bool) {
	if ok && v.onChange != nil {
		v.onChange(slices.Clone(entries))
	}
}
