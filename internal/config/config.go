package config

import (
	"strings"
	"time"
)

type Config struct {
	BackendURL     string        `flag:"backend-url"`
	RequestTimeout time.Duration `flag:"request-timeout"`
	LogLevel       string        `flag:"log-level"`

	Feed         string        `flag:"feed"`
	PollInterval time.Duration `flag:"poll-interval"`
	ToastTTL     time.Duration `flag:"toast-ttl"`

	ReconcileReactions bool `flag:"reconcile-reactions"`

	MetricsAddr string `flag:"metrics-addr"`

	NATSURL  string `flag:"nats-url"`
	NATSInit bool   `flag:"nats-init"`
}

// APIBaseURL is the versioned API root of the backend.
func (c *Config) APIBaseURL() string {
	return strings.TrimRight(c.BackendURL, "/") + "/v1"
}
