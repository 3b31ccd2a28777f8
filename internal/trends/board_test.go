package trends_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"amiverse/internal/trends"
	"amiverse/pkg/amiapi"
)

type backend struct {
	responses [][]amiapi.Trend
	err       error
	calls     int
}

func (b *backend) Trends(context.Context) ([]amiapi.Trend, error) {
	if b.err != nil {
		return nil, b.err
	}
	res := b.responses[b.calls]
	b.calls++
	return res, nil
}

type notifier struct {
	titles []string
}

func (n *notifier) Notify(title, _ string) {
	n.titles = append(n.titles, title)
}

func TestBoard_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("replaces by category", func(t *testing.T) {
		t.Parallel()

		b := &backend{responses: [][]amiapi.Trend{
			{{Category: "general", Title: "old"}, {Category: "music", Title: "tunes"}},
			{{Category: "general", Title: "new"}},
		}}
		board := trends.New(b, nil, nil)

		require.NoError(t, board.Fetch(t.Context()))
		require.NoError(t, board.Fetch(t.Context()))

		require.Equal(t, []amiapi.Trend{
			{Category: "music", Title: "tunes"},
			{Category: "general", Title: "new"},
		}, board.All())
		require.Equal(t, []amiapi.Trend{{Category: "general", Title: "new"}}, board.Category("general"))
	})

	t.Run("failure notifies", func(t *testing.T) {
		t.Parallel()

		n := &notifier{}
		board := trends.New(&backend{err: errors.New("boom")}, n, nil)

		require.ErrorIs(t, board.Fetch(t.Context()), trends.ErrFetchFailed)
		require.Equal(t, []string{"Failed to load trends"}, n.titles)
		require.Empty(t, board.All())
	})
}
