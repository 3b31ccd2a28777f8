package amiapi_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"amiverse/pkg/amiapi"
)

func TestPage_Items(t *testing.T) {
	t.Parallel()

	t.Run("explicit feed wins", func(t *testing.T) {
		t.Parallel()

		page := &amiapi.Page{
			Posts: []amiapi.Post{{AID: "a"}, {AID: "b"}},
			Feed:  []amiapi.FeedItem{{Type: amiapi.FeedItemDiffuse, PostAID: "b"}, {Type: amiapi.FeedItemPost, PostAID: "a"}},
		}

		require.Equal(t, page.Feed, page.Items())
	})

	t.Run("synthesized from posts", func(t *testing.T) {
		t.Parallel()

		page := &amiapi.Page{Posts: []amiapi.Post{{AID: "b"}, {AID: "a"}}}

		require.Equal(t, []amiapi.FeedItem{
			{Type: amiapi.FeedItemPost, PostAID: "b"},
			{Type: amiapi.FeedItemPost, PostAID: "a"},
		}, page.Items())
	})

	t.Run("nil page", func(t *testing.T) {
		t.Parallel()

		var page *amiapi.Page
		require.True(t, page.Empty())
		require.Empty(t, page.Items())
	})
}

func TestPost_Clone(t *testing.T) {
	t.Parallel()

	post := amiapi.Post{
		AID:       "p",
		Reactions: []amiapi.Reaction{{Emoji: amiapi.EmojiSummary{AID: "e"}, Count: 1}},
		Quote:     &amiapi.Post{AID: "q", Reactions: []amiapi.Reaction{{Count: 2}}},
	}

	clone := post.Clone()
	clone.Reactions[0].Count = 10
	clone.Quote.Reactions[0].Count = 20

	require.Equal(t, 1, post.Reactions[0].Count)
	require.Equal(t, 2, post.Quote.Reactions[0].Count)
}

func TestVisibility_Valid(t *testing.T) {
	t.Parallel()

	require.True(t, amiapi.VisibilityFollowersOnly.Valid())
	require.False(t, amiapi.Visibility("public").Valid())
}
