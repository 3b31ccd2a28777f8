package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"amiverse/internal/feed"
	"amiverse/pkg/amiapi"
)

func TestPrintEntries(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		printEntries(buf, nil)
		require.Equal(t, "(empty)\n", buf.String())
	})

	t.Run("diffused", func(t *testing.T) {
		t.Parallel()

		at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		buf := &bytes.Buffer{}
		printEntries(buf, []feed.Entry{{
			Post:       amiapi.Post{AID: "p1", Content: "hello\nworld", Account: amiapi.Account{Name: "Alice", NameID: "alice"}},
			Type:       amiapi.FeedItemDiffuse,
			DiffusedBy: &amiapi.FeedActor{Name: "Bob", NameID: "bob"},
			DiffusedAt: &at,
		}})

		out := buf.String()
		require.Contains(t, out, "diffused by Bob @bob at ")
		require.Contains(t, out, "Alice @alice")
		require.Contains(t, out, "[p1]")
		require.Contains(t, out, "  hello\n  world\n")
	})
}

func TestPrintPost(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	printPost(buf, amiapi.Post{
		AID:            "p1",
		Content:        "hi",
		ReactionsCount: 3,
		Quote:          &amiapi.Post{Content: "quoted\nrest", Account: amiapi.Account{Name: "Carol", NameID: "carol"}},
		Reactions: []amiapi.Reaction{
			{Emoji: amiapi.EmojiSummary{AID: "e1", NameID: "smile"}, Count: 2, Reacted: true},
			{Emoji: amiapi.EmojiSummary{AID: "e2"}, Count: 1},
		},
	}, "> ")

	out := buf.String()
	require.Contains(t, out, ">   > Carol @carol: quoted\n")
	require.Contains(t, out, "reactions 3")
	require.Contains(t, out, "*smile:2 e2:1")
}

func TestEmojiLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "smile", emojiLabel(amiapi.EmojiSummary{AID: "e1", Name: "Smile", NameID: "smile"}))
	require.Equal(t, "Smile", emojiLabel(amiapi.EmojiSummary{AID: "e1", Name: "Smile"}))
	require.Equal(t, "e1", emojiLabel(amiapi.EmojiSummary{AID: "e1"}))
}
