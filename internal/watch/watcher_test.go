package watch_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"amiverse/internal/app"
	"amiverse/internal/config"
	"amiverse/internal/watch"
	"amiverse/pkg/amiapi"
)

type server struct {
	feedCalls   atomic.Int32
	unreadCalls atomic.Int32
	signedIn    bool
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/v1/start":
		if s.signedIn {
			w.Write([]byte(`{"account":{"aid":"me","name_id":"me"},"csrf_token":"t"}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{}`)) //nolint:errcheck
	case "/v1/feeds/follow":
		s.feedCalls.Add(1)
		w.Write([]byte(`{"posts":[{"aid":"p1","created_at":"2024-06-01T12:00:00Z"}]}`)) //nolint:errcheck
	case "/v1/notifications/unread_count":
		s.unreadCalls.Add(1)
		w.Write([]byte(`{"count":3}`)) //nolint:errcheck
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newWatcher(t *testing.T, s *server, interval time.Duration) (*watch.Watcher, *app.App) {
	t.Helper()

	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	client, err := amiapi.NewClient(&amiapi.ClientConfig{BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() }) //nolint:errcheck

	a := app.New(client, app.Options{}, nil)
	t.Cleanup(a.Close)

	w := &watch.Watcher{
		Logger: slog.Default(),
		Config: &config.Config{Feed: "follow", PollInterval: interval},
		App:    a,
	}
	require.NoError(t, w.Init(t.Context()))
	return w, a
}

func TestWatcher_Tick(t *testing.T) {
	t.Parallel()

	t.Run("signed in", func(t *testing.T) {
		t.Parallel()

		s := &server{signedIn: true}
		w, a := newWatcher(t, s, time.Hour)

		_, err := a.Start(t.Context())
		require.NoError(t, err)

		w.Tick(t.Context())

		require.EqualValues(t, 1, s.feedCalls.Load())
		require.Equal(t, 3, a.Notifications.State().Unread)
		require.Len(t, a.Timeline("follow").Entries(), 1)
	})

	t.Run("signed out skips unread count", func(t *testing.T) {
		t.Parallel()

		s := &server{}
		w, a := newWatcher(t, s, time.Hour)

		_, err := a.Start(t.Context())
		require.NoError(t, err)

		w.Tick(t.Context())

		require.EqualValues(t, 1, s.feedCalls.Load())
		require.Zero(t, s.unreadCalls.Load())
	})
}

func TestWatcher_Run(t *testing.T) {
	t.Parallel()

	s := &server{signedIn: true}
	w, _ := newWatcher(t, s, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return s.feedCalls.Load() >= 2 }, 5*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, w.Shutdown(t.Context()))
}
