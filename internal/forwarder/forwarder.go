package forwarder

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/lo"

	"amiverse/internal/app"
	"amiverse/internal/core"
	"amiverse/internal/nats"
	"amiverse/internal/store"
	"amiverse/pkg/async"
)

var (
	eventsForwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amiverse_events_forwarded_total",
		Help: "The total number of forwarded store events",
	}, []string{"kind", "status"})
)

const (
	batchSize    = 100
	batchTimeout = time.Second
	bufferSize   = 1024
)

// Forwarder publishes store change events, batched per kind, to
// amiverse.cache.<kind>.
type Forwarder struct {
	Logger    *slog.Logger
	App       *app.App
	Publisher core.Publisher
}

func (f *Forwarder) Init(_ context.Context) error {
	f.Logger = f.Logger.With("component", "forwarder.Forwarder")
	return nil
}

func (f *Forwarder) Run(ctx context.Context) error {
	events := make(chan store.Event, bufferSize)

	unsubscribe := f.App.Bus.Subscribe(func(e store.Event) {
		select {
		case events <- e:
		default:
			eventsForwarded.WithLabelValues(string(e.Kind), "dropped").Inc()
		}
	})
	defer unsubscribe()

	f.Logger.Info("Forwarding store events")

	for batch := range async.Batch(ctx, events, batchSize, batchTimeout) {
		f.Forward(ctx, batch)
	}
	return nil
}

// Forward publishes one message per event kind present in batch.
func (f *Forwarder) Forward(ctx context.Context, batch []store.Event) {
	for kind, events := range lo.GroupBy(batch, func(e store.Event) store.Kind { return e.Kind }) {
		status := "ok"
		if err := f.publish(ctx, kind, events); err != nil {
			status = "error"
			f.Logger.Error("failed to forward events", "kind", kind, "count", len(events), "error", err)
		}
		eventsForwarded.WithLabelValues(string(kind), status).Add(float64(len(events)))
	}
}

func (f *Forwarder) publish(ctx context.Context, kind store.Kind, events []store.Event) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return f.Publisher.Publish(ctx, Subject(kind), payload)
}

func Subject(kind store.Kind) string {
	return nats.SubjectPrefix + "." + string(kind)
}
