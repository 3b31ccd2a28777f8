package trends

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"amiverse/internal/core"
	"amiverse/pkg/amiapi"
)

var ErrFetchFailed = errors.New("failed to fetch trends")

// Board holds the latest trends. A fetch replaces every trend of the
// categories it returned and keeps the others.
type Board struct {
	Backend  core.TrendBackend
	Notifier core.Notifier
	Logger   *slog.Logger

	mu     sync.RWMutex
	trends []amiapi.Trend
}

func New(backend core.TrendBackend, notifier core.Notifier, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}

	return &Board{
		Backend:  backend,
		Notifier: notifier,
		Logger:   logger.With("component", "trends.Board"),
	}
}

func (b *Board) Fetch(ctx context.Context) error {
	fetched, err := b.Backend.Trends(ctx)
	if err != nil {
		b.Logger.Warn("failed to fetch trends", "error", err)
		if b.Notifier != nil {
			b.Notifier.Notify("Failed to load trends", amiapi.Messages(err, err.Error()))
		}
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	categories := lo.Uniq(lo.Map(fetched, func(t amiapi.Trend, _ int) string { return t.Category }))

	b.mu.Lock()
	defer b.mu.Unlock()

	kept := lo.Reject(b.trends, func(t amiapi.Trend, _ int) bool {
		return lo.Contains(categories, t.Category)
	})
	b.trends = append(kept, fetched...)

	return nil
}

func (b *Board) All() []amiapi.Trend {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]amiapi.Trend{}, b.trends...)
}

func (b *Board) Category(category string) []amiapi.Trend {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return lo.Filter(b.trends, func(t amiapi.Trend, _ int) bool {
		return t.Category == category
	})
}
