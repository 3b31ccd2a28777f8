package emojis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"amiverse/internal/core"
	"amiverse/pkg/amiapi"
)

var ErrFetchFailed = errors.New("failed to fetch emojis")

const groupsKey = "groups"

// Cache keeps emoji groups, per-group lists and an aid index. Every list is
// fetched once; concurrent requests for the same list share one call.
type Cache struct {
	Backend core.EmojiBackend
	Logger  *slog.Logger

	flight singleflight.Group

	mu      sync.RWMutex
	groups  []string
	byGroup map[string][]amiapi.Emoji
	byAID   map[string]amiapi.Emoji
}

func New(backend core.EmojiBackend, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{
		Backend: backend,
		Logger:  logger.With("component", "emojis.Cache"),
		byGroup: map[string][]amiapi.Emoji{},
		byAID:   map[string]amiapi.Emoji{},
	}
}

func (c *Cache) Groups(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	groups := c.groups
	c.mu.RUnlock()
	if groups != nil {
		return groups, nil
	}

	v, err, _ := c.flight.Do(groupsKey, func() (any, error) {
		groups, err := c.Backend.EmojiGroups(ctx)
		if err != nil {
			return nil, err
		}
		if groups == nil {
			groups = []string{}
		}

		c.mu.Lock()
		c.groups = groups
		c.mu.Unlock()

		return groups, nil
	})
	if err != nil {
		return nil, c.failed("groups", err)
	}
	return v.([]string), nil
}

// Group returns the emojis of group and indexes them by aid.
func (c *Cache) Group(ctx context.Context, group string) ([]amiapi.Emoji, error) {
	c.mu.RLock()
	emojis, ok := c.byGroup[group]
	c.mu.RUnlock()
	if ok {
		return emojis, nil
	}

	v, err, _ := c.flight.Do("group:"+group, func() (any, error) {
		emojis, err := c.Backend.EmojisByGroup(ctx, group)
		if err != nil {
			return nil, err
		}
		if emojis == nil {
			emojis = []amiapi.Emoji{}
		}

		c.mu.Lock()
		c.byGroup[group] = emojis
		for _, e := range emojis {
			c.byAID[e.AID] = e
		}
		c.mu.Unlock()

		return emojis, nil
	})
	if err != nil {
		return nil, c.failed("group "+group, err)
	}
	return v.([]amiapi.Emoji), nil
}

// Get returns the emoji with aid from the index, fetching it when unknown.
func (c *Cache) Get(ctx context.Context, aid string) (amiapi.Emoji, error) {
	if emoji, ok := c.Cached(aid); ok {
		return emoji, nil
	}

	v, err, _ := c.flight.Do("emoji:"+aid, func() (any, error) {
		emoji, err := c.Backend.Emoji(ctx, aid)
		if err != nil {
			return nil, err
		}
		if emoji == nil {
			return nil, amiapi.ErrEmptyResponse
		}

		c.mu.Lock()
		c.byAID[aid] = *emoji
		c.mu.Unlock()

		return *emoji, nil
	})
	if err != nil {
		return amiapi.Emoji{}, c.failed("emoji "+aid, err)
	}
	return v.(amiapi.Emoji), nil
}

func (c *Cache) Cached(aid string) (amiapi.Emoji, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	emoji, ok := c.byAID[aid]
	return emoji, ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byAID)
}

func (c *Cache) failed(what string, err error) error {
	c.Logger.Warn("failed to fetch emojis", "what", what, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrFetchFailed, what, err)
}
