package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"amiverse/internal/core"
	"amiverse/internal/feed"
	"amiverse/internal/store"
	"amiverse/pkg/amiapi"
)

var (
	ErrLoadFailed = errors.New("failed to load feed")

	pagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amiverse_timeline_pages_total",
		Help: "The total number of fetched feed pages",
	}, []string{"phase", "result"})
)

const (
	phaseLoad     = "load"
	phaseLoadMore = "load_more"
)

type State struct {
	IsLoading     bool
	IsLoadingMore bool
	HasMore       bool
}

// Loader runs the cursor protocol for one feed type. Pages are committed into
// the shared stores stamped with the time their request was issued, so a slow
// response never overrides data fetched after it was requested.
type Loader struct {
	Type     string
	Source   core.PageSource
	Posts    *store.Posts
	Feeds    *store.Feeds
	Notifier core.Notifier
	Logger   *slog.Logger
	Clock    func() time.Time

	mu          sync.Mutex
	loads       int
	loadingMore bool
	exhausted   bool
	// generation counts Loads. A LoadMore page is only committed while the
	// generation it was requested in is current.
	generation uint64

	// commit orders LoadMore commits against the start of a Load.
	commit sync.Mutex
}

func New(feedType string, source core.PageSource, posts *store.Posts, feeds *store.Feeds,
	notifier core.Notifier, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		Type:     feedType,
		Source:   source,
		Posts:    posts,
		Feeds:    feeds,
		Notifier: notifier,
		Logger:   logger.With("component", "timeline.Loader", "feed", feedType),
		Clock:    time.Now,
	}
}

func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	return State{
		IsLoading:     l.loads > 0,
		IsLoadingMore: l.loadingMore,
		HasMore:       !l.exhausted,
	}
}

// Entries composes the currently cached feed.
func (l *Loader) Entries() []feed.Entry {
	entries, _ := feed.Composed(l.Feeds, l.Posts, l.Type)
	return entries
}

// Load fetches the first page and replaces the cached feed with it.
func (l *Loader) Load(ctx context.Context) error {
	l.commit.Lock()
	l.mu.Lock()
	l.loads++
	l.generation++
	l.exhausted = false
	l.mu.Unlock()
	l.commit.Unlock()

	defer func() {
		l.mu.Lock()
		l.loads--
		l.mu.Unlock()
	}()

	at := l.now()
	page, err := l.fetch(ctx, phaseLoad, nil)
	if err != nil {
		return err
	}

	l.Posts.AddAt(at, page.Posts...)
	l.Feeds.AddAt(at, l.Type, page.Items())

	l.Logger.Debug("feed loaded", "posts", len(page.Posts), "items", len(page.Feed))
	return nil
}

// LoadMore fetches the page after the last composed entry and appends it. It
// does nothing while a load is running, after the feed was exhausted, or when
// nothing is displayed yet. A page arriving after a Load started is dropped.
func (l *Loader) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.loads > 0 || l.loadingMore || l.exhausted {
		l.mu.Unlock()
		return nil
	}
	cursor, ok := Cursor(l.Entries())
	if !ok {
		l.mu.Unlock()
		return nil
	}
	l.loadingMore = true
	generation := l.generation
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.loadingMore = false
		l.mu.Unlock()
	}()

	at := l.now()
	page, err := l.fetch(ctx, phaseLoadMore, &cursor)
	if err != nil {
		return err
	}

	l.commit.Lock()
	defer l.commit.Unlock()

	l.mu.Lock()
	stale := l.generation != generation
	if !stale && page.Empty() {
		l.exhausted = true
	}
	l.mu.Unlock()

	if stale {
		l.Logger.Debug("dropping page requested before reload", "cursor", cursor)
		return nil
	}

	if page.Empty() {
		l.Logger.Debug("feed exhausted", "cursor", cursor)
		return nil
	}

	l.Posts.AddAt(at, page.Posts...)
	l.Feeds.Append(l.Type, page.Items())

	l.Logger.Debug("feed page appended", "cursor", cursor, "posts", len(page.Posts))
	return nil
}

func (l *Loader) fetch(ctx context.Context, phase string, cursor *int64) (*amiapi.Page, error) {
	page, err := l.Source(ctx, cursor)
	if err == nil && page == nil {
		err = amiapi.ErrEmptyResponse
	}
	if err != nil {
		pagesFetched.WithLabelValues(phase, "error").Inc()
		l.fail(err)
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, l.Type, err)
	}

	result := "ok"
	if page.Empty() {
		result = "empty"
	}
	pagesFetched.WithLabelValues(phase, result).Inc()

	return page, nil
}

func (l *Loader) fail(err error) {
	l.Logger.Warn("failed to fetch feed page", "error", err)
	if l.Notifier != nil {
		l.Notifier.Notify("Failed to load feed", amiapi.Messages(err, err.Error()))
	}
}

func (l *Loader) now() time.Time {
	if l.Clock == nil {
		return time.Now()
	}
	return l.Clock()
}

// Cursor derives the load-more cursor: the creation time, in Unix seconds, of
// the last displayed entry.
func Cursor(entries []feed.Entry) (int64, bool) {
	if len(entries) == 0 {
		return 0, false
	}
	return entries[len(entries)-1].Post.CreatedAt.Unix(), true
}
