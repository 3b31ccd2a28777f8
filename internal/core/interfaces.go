package core

import (
	"context"

	"amiverse/pkg/amiapi"
)

// Notifier surfaces a transient, non-fatal message to the user.
type Notifier interface {
	Notify(title, message string)
}

// PageSource fetches one page of a feed. A nil cursor requests the first page.
type PageSource func(ctx context.Context, cursor *int64) (*amiapi.Page, error)

type SessionBackend interface {
	Start(ctx context.Context) (*amiapi.Session, error)
}

type FeedBackend interface {
	Feed(ctx context.Context, feedType string, cursor *int64) (*amiapi.Page, error)
	Search(ctx context.Context, query string, cursor *int64) (*amiapi.Page, error)
}

type PostBackend interface {
	Post(ctx context.Context, aid string) (*amiapi.PostDetail, error)
	CreatePost(ctx context.Context, post *amiapi.NewPost) (*amiapi.Post, error)
	Quotes(ctx context.Context, aid string) ([]amiapi.Post, error)
	Diffusions(ctx context.Context, aid string) ([]amiapi.Account, error)
	Reactions(ctx context.Context, aid, emojiNameID string) (*amiapi.PostReactions, error)
}

// ReactionBackend may answer with the authoritative post snapshot or nil.
type ReactionBackend interface {
	React(ctx context.Context, postAID, emojiAID string) (*amiapi.Post, error)
	Unreact(ctx context.Context, postAID string) (*amiapi.Post, error)
}

type AccountBackend interface {
	Account(ctx context.Context, nameID string) (*amiapi.Account, error)
}

type EmojiBackend interface {
	EmojiGroups(ctx context.Context) ([]string, error)
	EmojisByGroup(ctx context.Context, group string) ([]amiapi.Emoji, error)
	Emoji(ctx context.Context, aid string) (*amiapi.Emoji, error)
}

type NotificationBackend interface {
	Notifications(ctx context.Context, cursor string) (*amiapi.NotificationPage, error)
	UnreadCount(ctx context.Context) (int, error)
}

type TrendBackend interface {
	Trends(ctx context.Context) ([]amiapi.Trend, error)
}

// Backend is everything the client consumes from the backend API.
type Backend interface {
	SessionBackend
	FeedBackend
	PostBackend
	ReactionBackend
	AccountBackend
	EmojiBackend
	NotificationBackend
	TrendBackend
}

// Publisher delivers a payload to a message subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte) error
}

type MetricsServer interface{}

type MetricsCollector interface{}

type Forwarder interface{}

type Watcher interface{}
