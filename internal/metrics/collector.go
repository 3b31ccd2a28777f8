package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"amiverse/internal/app"
)

var (
	cacheSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "amiverse_cache_entries",
		Help: "Number of entries held by a client cache.",
	}, []string{"cache"})
)

const collectInterval = 15 * time.Second

// Collector periodically publishes cache sizes as gauges.
type Collector struct {
	Logger *slog.Logger
	App    *app.App
}

func (c *Collector) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "metrics.Collector")
	return nil
}

func (c *Collector) Run(ctx context.Context) error {
	ticker := time.NewTicker(collectInterval)
	defer ticker.Stop()

	for {
		c.Collect()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Collect sets every cache gauge once and returns the values set.
func (c *Collector) Collect() map[string]int {
	sizes := map[string]int{
		"posts":         c.App.Posts.Len(),
		"feeds":         c.App.Feeds.Len(),
		"accounts":      c.App.Accounts.Len(),
		"emojis":        c.App.Emojis.Len(),
		"notifications": len(c.App.Notifications.Items()),
		"toasts":        len(c.App.Toasts.Visible()),
	}

	for cache, size := range sizes {
		cacheSize.WithLabelValues(cache).Set(float64(size))
	}

	c.Logger.Debug("Collected cache metrics", "sizes", sizes)
	return sizes
}
