package feed

import (
	"time"

	"github.com/samber/lo"

	"amiverse/internal/store"
	"amiverse/pkg/amiapi"
)

// Lookup resolves a post aid against a post cache.
type Lookup func(aid string) (amiapi.Post, bool)

// Entry is one renderable feed row. DiffusedBy and DiffusedAt are set for
// diffuse items only.
type Entry struct {
	Post amiapi.Post
	Type amiapi.FeedItemType

	DiffusedBy *amiapi.FeedActor
	DiffusedAt *time.Time
}

func (e Entry) Diffused() bool {
	return e.Type == amiapi.FeedItemDiffuse
}

// Compose hydrates items in order, skipping items whose post is not resident.
// With nil items the raw posts are passed through unchanged.
func Compose(items []amiapi.FeedItem, posts []amiapi.Post, lookup Lookup) []Entry {
	if items == nil {
		return lo.Map(posts, func(post amiapi.Post, _ int) Entry {
			return Entry{Post: post, Type: amiapi.FeedItemPost}
		})
	}

	return lo.FilterMap(items, func(item amiapi.FeedItem, _ int) (Entry, bool) {
		post, ok := lookup(item.PostAID)
		if !ok {
			return Entry{}, false
		}

		entry := Entry{Post: post, Type: item.Type}
		if item.Type == amiapi.FeedItemDiffuse {
			entry.DiffusedBy = item.Account
			entry.DiffusedAt = item.CreatedAt
		}
		return entry, true
	})
}

// Composed composes the cached feed of feedType. It reports false when the
// feed type is not cached.
func Composed(feeds *store.Feeds, posts *store.Posts, feedType string) ([]Entry, bool) {
	cached, ok := feeds.Get(feedType)
	if !ok {
		return nil, false
	}
	return Compose(cached.Items, nil, posts.Lookup), true
}

// Resolve hydrates a plain aid list, the non-feed path used for replies and
// quotes.
func Resolve(aids []string, posts *store.Posts) []Entry {
	resolved := lo.FilterMap(aids, func(aid string, _ int) (amiapi.Post, bool) {
		return posts.Lookup(aid)
	})
	return Compose(nil, resolved, nil)
}
