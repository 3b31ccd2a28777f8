package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"

	"amiverse/internal/core"
	"amiverse/pkg/amiapi"
)

var ErrFetchFailed = errors.New("failed to fetch notifications")

type State struct {
	IsLoading bool
	HasMore   bool
	Unread    int
	FetchedAt time.Time
}

// List is the viewer's notification list. Pages are chained with the opaque
// cursor the backend returns alongside each page.
type List struct {
	Backend  core.NotificationBackend
	Notifier core.Notifier
	Logger   *slog.Logger
	Clock    func() time.Time

	mu        sync.Mutex
	items     []amiapi.Notification
	cursor    string
	hasMore   bool
	loading   bool
	unread    int
	fetchedAt time.Time
}

func New(backend core.NotificationBackend, notifier core.Notifier, logger *slog.Logger) *List {
	if logger == nil {
		logger = slog.Default()
	}

	return &List{
		Backend:  backend,
		Notifier: notifier,
		Logger:   logger.With("component", "notifications.List"),
		Clock:    time.Now,
		hasMore:  true,
	}
}

// Fetch loads the next page, or the first page replacing the list when
// refresh is set. Paging past the last page does nothing.
func (l *List) Fetch(ctx context.Context, refresh bool) error {
	l.mu.Lock()
	if l.loading || (!refresh && !l.hasMore) {
		l.mu.Unlock()
		return nil
	}
	cursor := l.cursor
	if refresh {
		cursor = ""
	}
	l.loading = true
	l.mu.Unlock()

	page, err := l.Backend.Notifications(ctx, cursor)
	if err == nil && page == nil {
		err = amiapi.ErrEmptyResponse
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false

	if err != nil {
		l.Logger.Warn("failed to fetch notifications", "error", err)
		if l.Notifier != nil {
			l.Notifier.Notify("Failed to load notifications", amiapi.Messages(err, err.Error()))
		}
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	if refresh {
		l.items = append([]amiapi.Notification{}, page.Notifications...)
		l.unread = 0
		l.fetchedAt = l.now()
	} else {
		seen := lo.KeyBy(l.items, func(n amiapi.Notification) string {
			return n.AID
		})
		fresh := lo.Reject(page.Notifications, func(n amiapi.Notification, _ int) bool {
			_, ok := seen[n.AID]
			return ok
		})
		l.items = append(l.items, fresh...)
	}

	// A repeated cursor would page forever.
	if page.NextCursor != "" && page.NextCursor == cursor {
		l.Logger.Warn("notification cursor did not advance", "cursor", cursor)
	}
	l.cursor = page.NextCursor
	l.hasMore = page.NextCursor != "" && page.NextCursor != cursor
	return nil
}

// FetchAll pages until the backend reports no further cursor, or repeats
// the one it was given.
func (l *List) FetchAll(ctx context.Context) error {
	if err := l.Fetch(ctx, true); err != nil {
		return err
	}
	for l.State().HasMore {
		if err := l.Fetch(ctx, false); err != nil {
			return err
		}
	}
	return nil
}

func (l *List) Items() []amiapi.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]amiapi.Notification{}, l.items...)
}

func (l *List) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	return State{
		IsLoading: l.loading,
		HasMore:   l.hasMore,
		Unread:    l.unread,
		FetchedAt: l.fetchedAt,
	}
}

// RefreshUnread asks the backend for the unread count.
func (l *List) RefreshUnread(ctx context.Context) (int, error) {
	count, err := l.Backend.UnreadCount(ctx)
	if err != nil {
		l.Logger.Warn("failed to fetch unread count", "error", err)
		return 0, fmt.Errorf("%w: unread count: %w", ErrFetchFailed, err)
	}

	l.mu.Lock()
	l.unread = count
	l.mu.Unlock()

	return count, nil
}

// MarkAsRead flags every local notification as checked.
func (l *List) MarkAsRead() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		l.items[i].Checked = true
	}
	l.unread = 0
}

func (l *List) now() time.Time {
	if l.Clock == nil {
		return time.Now()
	}
	return l.Clock()
}
