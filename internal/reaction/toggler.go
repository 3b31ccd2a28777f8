package reaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"amiverse/internal/core"
	"amiverse/internal/store"
	"amiverse/pkg/amiapi"
)

var (
	ErrToggleFailed = errors.New("failed to toggle reaction")

	toggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amiverse_reaction_toggles_total",
		Help: "The total number of reaction toggles by outcome",
	}, []string{"operation", "outcome"})
)

const (
	outcomeConfirmed  = "confirmed"
	outcomeRolledBack = "rolled_back"
	// The optimistic write was already replaced by a newer one.
	outcomeSuperseded = "superseded"
)

// Toggler applies reaction toggles optimistically and rolls them back when
// the backend call fails.
type Toggler struct {
	Posts    *store.Posts
	Backend  core.ReactionBackend
	Emojis   EmojiIndex
	Notifier core.Notifier
	Logger   *slog.Logger

	// Reconcile stores the post snapshot returned by the backend, if any.
	Reconcile bool
}

func New(posts *store.Posts, backend core.ReactionBackend, emojis EmojiIndex, notifier core.Notifier,
	logger *slog.Logger) *Toggler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Toggler{
		Posts:    posts,
		Backend:  backend,
		Emojis:   emojis,
		Notifier: notifier,
		Logger:   logger.With("component", "reaction.Toggler"),
	}
}

// Toggle toggles target on the cached post postAID. The store reflects the
// expected result before the backend is called. It returns the cached post
// once the call settled.
func (t *Toggler) Toggle(ctx context.Context, postAID string, target Target) (store.CachedPost, error) {
	var (
		emoji    amiapi.EmojiSummary
		removing bool
	)

	prev, next, err := t.Posts.Update(postAID, func(post amiapi.Post) amiapi.Post {
		emoji = target.resolve(post, t.Emojis)

		var updated amiapi.Post
		updated, removing = Apply(post, emoji)
		return updated
	})
	if err != nil {
		return store.CachedPost{}, fmt.Errorf("%w: %w", ErrToggleFailed, err)
	}

	operation := "react"
	var snapshot *amiapi.Post
	if removing {
		operation = "unreact"
		snapshot, err = t.Backend.Unreact(ctx, postAID)
	} else {
		snapshot, err = t.Backend.React(ctx, postAID, emoji.AID)
	}

	if err != nil {
		outcome := outcomeRolledBack
		if !t.Posts.Restore(next.Revision, prev.Post) {
			outcome = outcomeSuperseded
		}
		toggles.WithLabelValues(operation, outcome).Inc()

		t.Logger.Warn("reaction toggle failed", "post", postAID, "emoji", emoji.AID, "outcome", outcome, "error", err)
		if t.Notifier != nil {
			t.Notifier.Notify("Failed to react", amiapi.Messages(err, err.Error()))
		}

		current, _ := t.Posts.Get(postAID)
		return current, fmt.Errorf("%w: %s: %w", ErrToggleFailed, postAID, err)
	}

	toggles.WithLabelValues(operation, outcomeConfirmed).Inc()
	if t.Reconcile && snapshot != nil {
		t.Posts.Add(*snapshot)
	}

	t.Logger.Debug("reaction toggled", "post", postAID, "emoji", emoji.AID, "removing", removing)

	current, _ := t.Posts.Get(postAID)
	return current, nil
}
