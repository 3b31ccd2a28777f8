package accounts_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"amiverse/internal/accounts"
	"amiverse/pkg/amiapi"
)

type backend struct {
	calls   atomic.Int32
	err     error
	release chan struct{}
	// respondAs overrides the name_id the backend answers with.
	respondAs string
}

func (b *backend) Account(_ context.Context, nameID string) (*amiapi.Account, error) {
	b.calls.Add(1)
	if b.release != nil {
		<-b.release
	}
	if b.err != nil {
		return nil, b.err
	}
	if b.respondAs != "" {
		return &amiapi.Account{AID: "aid-" + nameID, NameID: b.respondAs}, nil
	}
	return &amiapi.Account{AID: "aid-" + nameID, NameID: nameID}, nil
}

func TestCache_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("fetches once", func(t *testing.T) {
		t.Parallel()

		at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		b := &backend{}
		cache := accounts.New(b, nil)
		cache.Clock = func() time.Time { return at }

		first, err := cache.Fetch(t.Context(), "alice")
		require.NoError(t, err)
		require.Equal(t, "aid-alice", first.AID)
		require.Equal(t, at, first.FetchedAt)

		second, err := cache.Fetch(t.Context(), "alice")
		require.NoError(t, err)
		require.Equal(t, first, second)
		require.EqualValues(t, 1, b.calls.Load())
	})

	t.Run("concurrent callers share a request", func(t *testing.T) {
		t.Parallel()

		b := &backend{release: make(chan struct{})}
		cache := accounts.New(b, nil)

		var wg sync.WaitGroup
		errs := make(chan error, 5)
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := cache.Fetch(context.Background(), "bob")
				errs <- err
			}()
		}

		require.Eventually(t, func() bool { return b.calls.Load() == 1 }, time.Second, time.Millisecond)
		time.Sleep(10 * time.Millisecond)
		close(b.release)
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
		require.EqualValues(t, 1, b.calls.Load())
		require.Equal(t, 1, cache.Len())
	})

	t.Run("failure is not cached", func(t *testing.T) {
		t.Parallel()

		b := &backend{err: errors.New("boom")}
		cache := accounts.New(b, nil)

		_, err := cache.Fetch(t.Context(), "carol")
		require.ErrorIs(t, err, accounts.ErrFetchFailed)

		_, ok := cache.Get("carol")
		require.False(t, ok)

		b.err = nil
		_, err = cache.Fetch(t.Context(), "carol")
		require.NoError(t, err)
		require.EqualValues(t, 2, b.calls.Load())
	})

	t.Run("keyed by the requested name id", func(t *testing.T) {
		t.Parallel()

		b := &backend{respondAs: "Dave"}
		cache := accounts.New(b, nil)

		_, err := cache.Fetch(t.Context(), "dave")
		require.NoError(t, err)

		cached, ok := cache.Get("dave")
		require.True(t, ok)
		require.Equal(t, "Dave", cached.NameID)

		_, err = cache.Fetch(t.Context(), "dave")
		require.NoError(t, err)
		require.EqualValues(t, 1, b.calls.Load())
	})
}
