package toast

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const DefaultTTL = 3 * time.Second

type Toast struct {
	ID        string
	Title     string
	Message   string
	CreatedAt time.Time
}

// Center keeps transient notifications visible for TTL. It implements
// core.Notifier.
type Center struct {
	TTL    time.Duration
	Logger *slog.Logger

	// OnShow is called for every new toast, outside the lock.
	OnShow func(Toast)

	mu     sync.Mutex
	toasts []Toast
	timers map[string]*time.Timer
}

func New(ttl time.Duration, logger *slog.Logger) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Center{
		TTL:    ttl,
		Logger: logger.With("component", "toast.Center"),
		timers: map[string]*time.Timer{},
	}
}

func (c *Center) Notify(title, message string) {
	t := Toast{
		ID:        ulid.Make().String(),
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.toasts = append(c.toasts, t)
	c.timers[t.ID] = time.AfterFunc(c.TTL, func() { c.Hide(t.ID) })
	onShow := c.OnShow
	c.mu.Unlock()

	c.Logger.Warn(title, "message", message, "toast", t.ID)
	if onShow != nil {
		onShow(t)
	}
}

// Hide removes the toast with id. It reports whether the toast was visible.
func (c *Center) Hide(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}

	i := slices.IndexFunc(c.toasts, func(t Toast) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	c.toasts = slices.Delete(c.toasts, i, i+1)
	return true
}

func (c *Center) Visible() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.toasts)
}

// Close hides every toast and stops pending timers.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	c.toasts = nil
}
