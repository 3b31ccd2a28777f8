package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"amiverse/internal/app"
	"amiverse/internal/feed"
	"amiverse/internal/reaction"
	"amiverse/internal/store"
	"amiverse/pkg/amiapi"
)

type backend struct {
	mu sync.Mutex

	session    *amiapi.Session
	sessionErr error
	feeds      map[string]*amiapi.Page
	search     map[string]*amiapi.Page
	posts      map[string]*amiapi.PostDetail
	quotes     map[string][]amiapi.Post
	reactErr   error
	feedCalls  []string
}

func (b *backend) Start(context.Context) (*amiapi.Session, error) {
	return b.session, b.sessionErr
}

func (b *backend) Feed(_ context.Context, feedType string, _ *int64) (*amiapi.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.feedCalls = append(b.feedCalls, feedType)
	page, ok := b.feeds[feedType]
	if !ok {
		return nil, &amiapi.APIError{StatusCode: 404}
	}
	return page, nil
}

func (b *backend) Search(_ context.Context, query string, _ *int64) (*amiapi.Page, error) {
	return b.search[query], nil
}

func (b *backend) Post(_ context.Context, aid string) (*amiapi.PostDetail, error) {
	detail, ok := b.posts[aid]
	if !ok {
		return nil, &amiapi.APIError{StatusCode: 404, Errors: []string{"not found"}}
	}
	return detail, nil
}

func (b *backend) CreatePost(context.Context, *amiapi.NewPost) (*amiapi.Post, error) {
	return nil, errors.New("not implemented")
}

func (b *backend) Quotes(_ context.Context, aid string) ([]amiapi.Post, error) {
	return b.quotes[aid], nil
}

func (b *backend) Diffusions(context.Context, string) ([]amiapi.Account, error) { return nil, nil }

func (b *backend) Reactions(context.Context, string, string) (*amiapi.PostReactions, error) {
	return nil, nil
}

func (b *backend) React(context.Context, string, string) (*amiapi.Post, error) {
	return nil, b.reactErr
}

func (b *backend) Unreact(context.Context, string) (*amiapi.Post, error) {
	return nil, b.reactErr
}

func (b *backend) Account(_ context.Context, nameID string) (*amiapi.Account, error) {
	return &amiapi.Account{NameID: nameID}, nil
}

func (b *backend) EmojiGroups(context.Context) ([]string, error) { return nil, nil }

func (b *backend) EmojisByGroup(context.Context, string) ([]amiapi.Emoji, error) { return nil, nil }

func (b *backend) Emoji(context.Context, string) (*amiapi.Emoji, error) { return nil, nil }

func (b *backend) Notifications(context.Context, string) (*amiapi.NotificationPage, error) {
	return &amiapi.NotificationPage{}, nil
}

func (b *backend) UnreadCount(context.Context) (int, error) { return 0, nil }

func (b *backend) Trends(context.Context) ([]amiapi.Trend, error) { return nil, nil }

func newApp(b *backend) *app.App {
	return app.New(b, app.Options{}, nil)
}

func aids(entries []feed.Entry) []string {
	result := []string{}
	for _, e := range entries {
		result = append(result, e.Post.AID)
	}
	return result
}

func TestApp_Start(t *testing.T) {
	t.Parallel()

	t.Run("signed in", func(t *testing.T) {
		t.Parallel()

		a := newApp(&backend{session: &amiapi.Session{Account: &amiapi.Account{NameID: "me"}}})
		defer a.Close()

		status, err := a.Start(t.Context())
		require.NoError(t, err)
		require.Equal(t, app.StatusSignedIn, status)

		_, account := a.Status()
		require.Equal(t, "me", account.NameID)
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()

		a := newApp(&backend{session: &amiapi.Session{}})
		defer a.Close()

		status, err := a.Start(t.Context())
		require.NoError(t, err)
		require.Equal(t, app.StatusSignedOut, status)
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()

		a := newApp(&backend{sessionErr: errors.New("offline")})
		defer a.Close()

		status, err := a.Start(t.Context())
		require.Error(t, err)
		require.Equal(t, app.StatusSignedOut, status)
		require.Len(t, a.Toasts.Visible(), 1)
	})
}

func TestApp_Timeline(t *testing.T) {
	t.Parallel()

	b := &backend{
		feeds: map[string]*amiapi.Page{
			"index":  {Posts: []amiapi.Post{{AID: "shared"}, {AID: "i"}}},
			"follow": {Posts: []amiapi.Post{{AID: "shared", Content: "v2"}}},
		},
		search: map[string]*amiapi.Page{
			"go": {Posts: []amiapi.Post{{AID: "s"}}},
		},
	}
	a := newApp(b)
	defer a.Close()

	require.Same(t, a.Timeline("index"), a.Timeline("index"))
	require.Equal(t, app.DefaultFeed, a.CurrentFeed())

	require.NoError(t, a.Prefetch(t.Context(), "index", "follow"))

	require.Equal(t, []string{"shared", "i"}, aids(a.Timeline("index").Entries()))
	require.Equal(t, []string{"shared"}, aids(a.Timeline("follow").Entries()))
	require.Equal(t, 2, a.Posts.Len())

	require.NoError(t, a.Search("go").Load(t.Context()))
	require.Equal(t, []string{"s"}, aids(a.Search("go").Entries()))
	_, ok := a.Feeds.Get("search:go")
	require.True(t, ok)

	require.Error(t, a.Prefetch(t.Context(), "missing"))
}

func TestApp_Post(t *testing.T) {
	t.Parallel()

	b := &backend{
		posts: map[string]*amiapi.PostDetail{
			"p": {Post: amiapi.Post{AID: "p"}, Replies: []amiapi.Post{{AID: "r1"}, {AID: "r2"}}},
		},
		quotes: map[string][]amiapi.Post{"p": {{AID: "q1"}}},
	}
	a := newApp(b)
	defer a.Close()

	thread, err := a.Post(t.Context(), "p")
	require.NoError(t, err)
	require.Equal(t, "p", thread.Post.Post.AID)
	require.Equal(t, []string{"r1", "r2"}, aids(thread.Replies))
	require.Equal(t, 3, a.Posts.Len())

	quotes, err := a.Quotes(t.Context(), "p")
	require.NoError(t, err)
	require.Equal(t, []string{"q1"}, aids(quotes))

	_, err = a.Post(t.Context(), "missing")
	require.ErrorIs(t, err, app.ErrFetchFailed)
	require.Equal(t, "not found", a.Toasts.Visible()[0].Message)
}

func TestApp_React(t *testing.T) {
	t.Parallel()

	b := &backend{posts: map[string]*amiapi.PostDetail{"p": {Post: amiapi.Post{AID: "p"}}}}
	a := newApp(b)
	defer a.Close()

	var updates int
	a.Bus.Subscribe(func(e store.Event) {
		if e.Kind == store.KindPostsUpdated {
			updates++
		}
	})

	result, err := a.React(t.Context(), "p", reaction.ByID("e1"))
	require.NoError(t, err)
	require.True(t, result.IsReacted)
	require.Positive(t, updates)
}

func TestApp_View(t *testing.T) {
	t.Parallel()

	b := &backend{feeds: map[string]*amiapi.Page{"index": {Posts: []amiapi.Post{{AID: "a"}}}}}
	a := newApp(b)
	defer a.Close()

	var latest []feed.Entry
	view := a.View("index", func(entries []feed.Entry) { latest = entries })
	defer view.Close()

	require.NoError(t, a.Timeline("index").Load(t.Context()))
	require.Equal(t, []string{"a"}, aids(latest))
}
