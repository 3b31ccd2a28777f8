package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"amiverse/internal/core"
	"amiverse/pkg/amiapi"
)

var ErrFetchFailed = errors.New("failed to fetch account")

type CachedAccount struct {
	amiapi.Account

	FetchedAt time.Time
}

// Cache holds accounts by name_id. Each account is fetched at most once;
// concurrent callers share the request.
type Cache struct {
	Backend core.AccountBackend
	Logger  *slog.Logger
	Clock   func() time.Time

	flight singleflight.Group

	mu       sync.RWMutex
	accounts map[string]CachedAccount
}

func New(backend core.AccountBackend, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{
		Backend:  backend,
		Logger:   logger.With("component", "accounts.Cache"),
		Clock:    time.Now,
		accounts: map[string]CachedAccount{},
	}
}

func (c *Cache) Get(nameID string) (CachedAccount, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	account, ok := c.accounts[nameID]
	return account, ok
}

// Fetch returns the cached account or fetches it. Failures are not cached.
func (c *Cache) Fetch(ctx context.Context, nameID string) (CachedAccount, error) {
	if account, ok := c.Get(nameID); ok {
		return account, nil
	}

	v, err, shared := c.flight.Do(nameID, func() (any, error) {
		account, err := c.Backend.Account(ctx, nameID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, amiapi.ErrEmptyResponse
		}
		return c.put(nameID, *account), nil
	})
	if err != nil {
		c.Logger.Warn("failed to fetch account", "name_id", nameID, "error", err)
		return CachedAccount{}, fmt.Errorf("%w: %s: %w", ErrFetchFailed, nameID, err)
	}

	c.Logger.Debug("account fetched", "name_id", nameID, "shared", shared)
	return v.(CachedAccount), nil
}

// put keys the account by the requested name_id, which may differ from the
// one in the response.
func (c *Cache) put(nameID string, account amiapi.Account) CachedAccount {
	cached := CachedAccount{Account: account, FetchedAt: c.now()}

	c.mu.Lock()
	c.accounts[nameID] = cached
	c.mu.Unlock()

	return cached
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.accounts)
}

func (c *Cache) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}
