package composer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"amiverse/internal/core"
	"amiverse/internal/store"
	"amiverse/pkg/amiapi"
)

// MaxMedia is the number of media files a post may carry.
const MaxMedia = 8

// CurrentFeed receives the viewer's new posts.
const CurrentFeed = "current"

var (
	ErrEmptyDraft        = errors.New("draft has no content, media or drawing")
	ErrTooManyMedia      = errors.New("too many media files")
	ErrInvalidVisibility = errors.New("invalid visibility")
	ErrSubmitFailed      = errors.New("failed to submit post")
)

type Draft struct {
	Content    string
	Visibility amiapi.Visibility
	ReplyAID   string
	QuoteAID   string
	Media      []amiapi.MediaFile
	Drawing    *amiapi.DrawingAttributes
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Content) == "" && len(d.Media) == 0 && d.Drawing == nil {
		return ErrEmptyDraft
	}
	if len(d.Media) > MaxMedia {
		return fmt.Errorf("%w: %d, at most %d", ErrTooManyMedia, len(d.Media), MaxMedia)
	}
	if d.Visibility != "" && !d.Visibility.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidVisibility, d.Visibility)
	}
	return nil
}

func (d Draft) newPost() *amiapi.NewPost {
	visibility := d.Visibility
	if visibility == "" {
		visibility = amiapi.VisibilityOpened
	}

	return &amiapi.NewPost{
		Content:    d.Content,
		Visibility: visibility,
		ReplyAID:   d.ReplyAID,
		QuoteAID:   d.QuoteAID,
		Media:      d.Media,
		Drawing:    d.Drawing,
	}
}

type Composer struct {
	Backend  core.PostBackend
	Posts    *store.Posts
	Feeds    *store.Feeds
	Notifier core.Notifier
	Logger   *slog.Logger
}

func New(backend core.PostBackend, posts *store.Posts, feeds *store.Feeds, notifier core.Notifier,
	logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Composer{
		Backend:  backend,
		Posts:    posts,
		Feeds:    feeds,
		Notifier: notifier,
		Logger:   logger.With("component", "composer.Composer"),
	}
}

// Submit creates the post, caches it and puts it first in the current feed
// when that feed is cached.
func (c *Composer) Submit(ctx context.Context, draft Draft) (amiapi.Post, error) {
	if err := draft.Validate(); err != nil {
		return amiapi.Post{}, err
	}

	post, err := c.Backend.CreatePost(ctx, draft.newPost())
	if err == nil && (post == nil || post.AID == "") {
		err = amiapi.ErrEmptyResponse
	}
	if err != nil {
		c.Logger.Warn("failed to submit post", "error", err)
		if c.Notifier != nil {
			c.Notifier.Notify("Failed to post", amiapi.Messages(err, err.Error()))
		}
		return amiapi.Post{}, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	c.Posts.Add(*post)
	c.Feeds.Prepend(CurrentFeed, amiapi.FeedItem{Type: amiapi.FeedItemPost, PostAID: post.AID})

	c.Logger.Info("post submitted", "aid", post.AID, "visibility", post.Visibility)
	return *post, nil
}
