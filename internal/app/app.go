package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"amiverse/internal/accounts"
	"amiverse/internal/composer"
	"amiverse/internal/core"
	"amiverse/internal/emojis"
	"amiverse/internal/feed"
	"amiverse/internal/notifications"
	"amiverse/internal/reaction"
	"amiverse/internal/store"
	"amiverse/internal/timeline"
	"amiverse/internal/toast"
	"amiverse/internal/trends"
	"amiverse/pkg/amiapi"
)

var ErrFetchFailed = errors.New("failed to fetch posts")

const (
	DefaultFeed = "index"

	searchPrefix = "search:"
)

type Status string

const (
	StatusUnknown   Status = "unknown"
	StatusSignedIn  Status = "signed_in"
	StatusSignedOut Status = "signed_out"
)

type Options struct {
	Feed               string
	ToastTTL           time.Duration
	ReconcileReactions bool
}

// App owns the client state: the shared post and feed stores and every
// protocol working on them.
type App struct {
	Backend core.Backend
	Logger  *slog.Logger

	Bus           *store.Bus
	Posts         *store.Posts
	Feeds         *store.Feeds
	Toasts        *toast.Center
	Accounts      *accounts.Cache
	Emojis        *emojis.Cache
	Notifications *notifications.List
	Trends        *trends.Board
	Composer      *composer.Composer
	Reactions     *reaction.Toggler

	mu          sync.Mutex
	loaders     map[string]*timeline.Loader
	currentFeed string
	status      Status
	account     *amiapi.Account
}

func New(backend core.Backend, opts Options, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Feed == "" {
		opts.Feed = DefaultFeed
	}

	bus := store.NewBus()
	posts := store.NewPosts(bus)
	feeds := store.NewFeeds(bus)
	toasts := toast.New(opts.ToastTTL, logger)
	emojiCache := emojis.New(backend, logger)

	toggler := reaction.New(posts, backend, emojiCache, toasts, logger)
	toggler.Reconcile = opts.ReconcileReactions

	return &App{
		Backend:       backend,
		Logger:        logger.With("component", "app.App"),
		Bus:           bus,
		Posts:         posts,
		Feeds:         feeds,
		Toasts:        toasts,
		Accounts:      accounts.New(backend, logger),
		Emojis:        emojiCache,
		Notifications: notifications.New(backend, toasts, logger),
		Trends:        trends.New(backend, toasts, logger),
		Composer:      composer.New(backend, posts, feeds, toasts, logger),
		Reactions:     toggler,
		loaders:       map[string]*timeline.Loader{},
		currentFeed:   opts.Feed,
		status:        StatusUnknown,
	}
}

// Start opens the session and reports whether the viewer is signed in.
// A failed start counts as signed out.
func (a *App) Start(ctx context.Context) (Status, error) {
	session, err := a.Backend.Start(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.status = StatusSignedOut
		a.account = nil
		a.Logger.Warn("failed to start session", "error", err)
		a.Toasts.Notify("Failed to start session", amiapi.Messages(err, err.Error()))
		return a.status, err
	}

	if session != nil && session.Account != nil {
		a.status = StatusSignedIn
		a.account = session.Account
	} else {
		a.status = StatusSignedOut
		a.account = nil
	}

	return a.status, nil
}

func (a *App) Status() (Status, *amiapi.Account) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status, a.account
}

func (a *App) CurrentFeed() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentFeed
}

func (a *App) SetCurrentFeed(feedType string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.currentFeed = feedType
}

// Timeline returns the loader of feedType, creating it on first use.
func (a *App) Timeline(feedType string) *timeline.Loader {
	return a.loader(feedType, func(ctx context.Context, cursor *int64) (*amiapi.Page, error) {
		return a.Backend.Feed(ctx, feedType, cursor)
	})
}

// Search returns the loader paging through search results for query.
func (a *App) Search(query string) *timeline.Loader {
	return a.loader(searchPrefix+query, func(ctx context.Context, cursor *int64) (*amiapi.Page, error) {
		return a.Backend.Search(ctx, query, cursor)
	})
}

func (a *App) loader(key string, source core.PageSource) *timeline.Loader {
	a.mu.Lock()
	defer a.mu.Unlock()

	if l, ok := a.loaders[key]; ok {
		return l
	}
	l := timeline.New(key, source, a.Posts, a.Feeds, a.Toasts, a.Logger)
	a.loaders[key] = l
	return l
}

// Prefetch loads the first page of every feed type concurrently.
func (a *App) Prefetch(ctx context.Context, feedTypes ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, feedType := range feedTypes {
		g.Go(func() error {
			return a.Timeline(feedType).Load(ctx)
		})
	}
	return g.Wait()
}

// View keeps the composition of feedType current, see feed.Watch.
func (a *App) View(feedType string, onChange func([]feed.Entry)) *feed.View {
	return feed.Watch(a.Bus, a.Posts, a.Feeds, feedType, onChange)
}

type Thread struct {
	Post    feed.Entry
	Replies []feed.Entry
}

// Post fetches a post and its replies into the store.
func (a *App) Post(ctx context.Context, aid string) (Thread, error) {
	detail, err := a.Backend.Post(ctx, aid)
	if err == nil && detail == nil {
		err = amiapi.ErrEmptyResponse
	}
	if err != nil {
		return Thread{}, a.failed("Failed to load post", aid, err)
	}

	a.Posts.Add(detail.Post)
	a.Posts.Add(detail.Replies...)

	post, ok := a.Posts.Lookup(detail.AID)
	if !ok {
		post = detail.Post
	}

	return Thread{
		Post:    feed.Entry{Post: post, Type: amiapi.FeedItemPost},
		Replies: feed.Resolve(postAIDs(detail.Replies), a.Posts),
	}, nil
}

// Quotes fetches the posts quoting aid into the store.
func (a *App) Quotes(ctx context.Context, aid string) ([]feed.Entry, error) {
	quotes, err := a.Backend.Quotes(ctx, aid)
	if err != nil {
		return nil, a.failed("Failed to load quotes", aid, err)
	}

	a.Posts.Add(quotes...)
	return feed.Resolve(postAIDs(quotes), a.Posts), nil
}

// React toggles target on postAID, fetching the post first when it is not
// cached yet.
func (a *App) React(ctx context.Context, postAID string, target reaction.Target) (store.CachedPost, error) {
	if _, ok := a.Posts.Get(postAID); !ok {
		if _, err := a.Post(ctx, postAID); err != nil {
			return store.CachedPost{}, err
		}
	}
	return a.Reactions.Toggle(ctx, postAID, target)
}

func (a *App) Close() {
	a.Toasts.Close()
}

func (a *App) failed(title, aid string, err error) error {
	a.Logger.Warn("failed to fetch posts", "aid", aid, "error", err)
	a.Toasts.Notify(title, amiapi.Messages(err, err.Error()))
	return fmt.Errorf("%w: %s: %w", ErrFetchFailed, aid, err)
}

func postAIDs(posts []amiapi.Post) []string {
	return lo.Map(posts, func(p amiapi.Post, _ int) string { return p.AID })
}
