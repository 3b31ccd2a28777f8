package reaction_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"amiverse/internal/reaction"
	"amiverse/pkg/amiapi"
)

var (
	smile = amiapi.EmojiSummary{AID: "e1", Name: "smile", NameID: "smile"}
	heart = amiapi.EmojiSummary{AID: "e2", Name: "heart", NameID: "heart"}
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("first reaction", func(t *testing.T) {
		t.Parallel()

		post := amiapi.Post{AID: "p", ReactionsCount: 3, Reactions: []amiapi.Reaction{{Emoji: heart, Count: 3}}}

		next, removing := reaction.Apply(post, smile)
		require.False(t, removing)
		require.True(t, next.IsReacted)
		require.Equal(t, 4, next.ReactionsCount)
		require.Equal(t, []amiapi.Reaction{
			{Emoji: heart, Count: 3},
			{Emoji: smile, Count: 1, Reacted: true},
		}, next.Reactions)

		require.Equal(t, 3, post.ReactionsCount)
		require.Len(t, post.Reactions, 1)
	})

	t.Run("join existing emoji", func(t *testing.T) {
		t.Parallel()

		post := amiapi.Post{AID: "p", ReactionsCount: 2, Reactions: []amiapi.Reaction{{Emoji: smile, Count: 2}}}

		next, _ := reaction.Apply(post, smile)
		require.Equal(t, []amiapi.Reaction{{Emoji: smile, Count: 3, Reacted: true}}, next.Reactions)
		require.Equal(t, 3, next.ReactionsCount)
	})

	t.Run("remove own reaction", func(t *testing.T) {
		t.Parallel()

		post := amiapi.Post{AID: "p", IsReacted: true, ReactionsCount: 2, Reactions: []amiapi.Reaction{
			{Emoji: smile, Count: 2, Reacted: true},
		}}

		next, removing := reaction.Apply(post, smile)
		require.True(t, removing)
		require.False(t, next.IsReacted)
		require.Equal(t, 1, next.ReactionsCount)
		require.Equal(t, []amiapi.Reaction{{Emoji: smile, Count: 1}}, next.Reactions)
	})

	t.Run("last reaction removes entry", func(t *testing.T) {
		t.Parallel()

		post := amiapi.Post{AID: "p", IsReacted: true, ReactionsCount: 1, Reactions: []amiapi.Reaction{
			{Emoji: smile, Count: 1, Reacted: true},
		}}

		next, removing := reaction.Apply(post, smile)
		require.True(t, removing)
		require.Empty(t, next.Reactions)
		require.Zero(t, next.ReactionsCount)
	})

	t.Run("switch emoji", func(t *testing.T) {
		t.Parallel()

		post := amiapi.Post{AID: "p", IsReacted: true, ReactionsCount: 1, Reactions: []amiapi.Reaction{
			{Emoji: smile, Count: 1, Reacted: true},
		}}

		next, removing := reaction.Apply(post, heart)
		require.False(t, removing)
		require.True(t, next.IsReacted)
		require.Equal(t, 1, next.ReactionsCount)
		require.Equal(t, []amiapi.Reaction{{Emoji: heart, Count: 1, Reacted: true}}, next.Reactions)
	})

	t.Run("counts floor at zero", func(t *testing.T) {
		t.Parallel()

		post := amiapi.Post{AID: "p", IsReacted: true, Reactions: []amiapi.Reaction{
			{Emoji: smile, Count: 0, Reacted: true},
		}}

		next, _ := reaction.Apply(post, smile)
		require.Zero(t, next.ReactionsCount)
		require.Empty(t, next.Reactions)
	})
}
