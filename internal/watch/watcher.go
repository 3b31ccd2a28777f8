package watch

import (
	"context"
	"log/slog"
	"time"

	"amiverse/internal/app"
	"amiverse/internal/config"
	"amiverse/internal/feed"
)

// Watcher keeps the configured feed and the unread notification count fresh
// until stopped.
type Watcher struct {
	Logger *slog.Logger
	Config *config.Config
	App    *app.App
}

func (w *Watcher) Init(_ context.Context) error {
	w.Logger = w.Logger.With("component", "watch.Watcher", "feed", w.feedType())
	return nil
}

func (w *Watcher) Run(ctx context.Context) error {
	status, err := w.App.Start(ctx)
	if err != nil {
		w.Logger.Warn("Session start failed, watching signed out", "error", err)
	}
	w.Logger.Info("Watching", "session", status, "interval", w.Config.PollInterval)

	view := w.App.View(w.feedType(), func(entries []feed.Entry) {
		w.Logger.Info("Feed updated", "entries", len(entries))
	})
	defer view.Close()

	ticker := time.NewTicker(w.Config.PollInterval)
	defer ticker.Stop()

	for {
		w.Tick(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Tick refreshes the feed and, for a signed in viewer, the unread count.
// Failures are logged and retried on the next tick.
func (w *Watcher) Tick(ctx context.Context) {
	if err := w.App.Timeline(w.feedType()).Load(ctx); err != nil {
		w.Logger.Warn("Feed refresh failed", "error", err)
	}

	if status, _ := w.App.Status(); status != app.StatusSignedIn {
		return
	}

	count, err := w.App.Notifications.RefreshUnread(ctx)
	if err != nil {
		w.Logger.Warn("Unread count refresh failed", "error", err)
		return
	}
	w.Logger.Debug("Unread notifications", "count", count)
}

func (w *Watcher) Shutdown(_ context.Context) error {
	return nil
}

func (w *Watcher) feedType() string {
	if w.Config.Feed == "" {
		return app.DefaultFeed
	}
	return w.Config.Feed
}
