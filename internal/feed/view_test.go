package feed_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"amiverse/internal/feed"
	"amiverse/internal/store"
	"amiverse/pkg/amiapi"
)

func TestWatch(t *testing.T) {
	t.Parallel()

	t.Run("heals once the post arrives", func(t *testing.T) {
		t.Parallel()

		bus := store.NewBus()
		posts := store.NewPosts(bus)
		feeds := store.NewFeeds(bus)

		var calls [][]string
		view := feed.Watch(bus, posts, feeds, "index", func(entries []feed.Entry) {
			calls = append(calls, aids(entries))
		})
		defer view.Close()

		feeds.Add("index", []amiapi.FeedItem{item("p1"), item("p2")})
		posts.Add(amiapi.Post{AID: "p2"})
		posts.Add(amiapi.Post{AID: "unrelated"})
		posts.Add(amiapi.Post{AID: "p1"})

		require.Equal(t, [][]string{{}, {}, {"p2"}, {"p1", "p2"}}, calls)
		require.Equal(t, []string{"p1", "p2"}, aids(view.Entries()))
	})

	t.Run("ignores other feeds and stops after close", func(t *testing.T) {
		t.Parallel()

		bus := store.NewBus()
		posts := store.NewPosts(bus)
		feeds := store.NewFeeds(bus)
		posts.Add(amiapi.Post{AID: "p1"})

		calls := 0
		view := feed.Watch(bus, posts, feeds, "index", func([]feed.Entry) { calls++ })

		feeds.Add("follow", []amiapi.FeedItem{item("p1")})
		require.Equal(t, 1, calls)

		view.Close()
		feeds.Add("index", []amiapi.FeedItem{item("p1")})
		require.Equal(t, 1, calls)
		require.Empty(t, view.Entries())
	})

	t.Run("settles on the final state under concurrent writers", func(t *testing.T) {
		t.Parallel()

		const writers = 32

		for round := range 200 {
			bus := store.NewBus()
			posts := store.NewPosts(bus)
			feeds := store.NewFeeds(bus)

			view := feed.Watch(bus, posts, feeds, "index", nil)

			var wg sync.WaitGroup
			for i := range writers {
				wg.Add(1)
				go func() {
					defer wg.Done()

					aid := fmt.Sprintf("p%d", i)
					posts.Add(amiapi.Post{AID: aid})
					feeds.Append("index", []amiapi.FeedItem{item(aid)})
				}()
			}
			wg.Wait()

			want, ok := feed.Composed(feeds, posts, "index")
			require.True(t, ok)
			require.Len(t, want, writers)
			require.Equal(t, aids(want), aids(view.Entries()), "round %d", round)

			view.Close()
		}
	})
}
