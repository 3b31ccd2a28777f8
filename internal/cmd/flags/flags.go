package flags

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/urfave/cli/v3"

	"amiverse/internal/toast"
	"amiverse/pkg/amiapi"
)

var (
	ErrInvalidFlag = errors.New("invalid flag value")

	validLogLevels = []string{"debug", "info", "warn", "error"}

	validVisibilities = []string{
		string(amiapi.VisibilityOpened),
		string(amiapi.VisibilityClosed),
		string(amiapi.VisibilityLimited),
		string(amiapi.VisibilityFollowersOnly),
		string(amiapi.VisibilityDirectOnly),
	}
)

var BackendURL = &cli.StringFlag{
	Name:    "backend-url",
	Aliases: []string{"b"},
	Usage:   "The URL of the backend, without the API version",
	Value:   "http://localhost:3000",
	Sources: cli.EnvVars("AMIVERSE_BACKEND_URL"),
	Validator: func(value string) error {
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: backend url: %s", ErrInvalidFlag, value)
		}
		return nil
	},
}

var RequestTimeout = &cli.DurationFlag{
	Name:    "request-timeout",
	Usage:   "Timeout of a single backend request",
	Value:   10 * time.Second,
	Sources: cli.EnvVars("AMIVERSE_REQUEST_TIMEOUT"),
}

var LogLevel = &cli.StringFlag{
	Name:    "log-level",
	Aliases: []string{"l"},
	Usage:   "The level of the logs",
	Value:   "info",
	Validator: func(value string) error {
		return oneOf("log level", value, validLogLevels)
	},
	Sources: cli.EnvVars("LOG_LEVEL"),
}

var Feed = &cli.StringFlag{
	Name:    "feed",
	Aliases: []string{"f"},
	Usage:   "The feed type to show: index, follow, current or an account aid",
	Value:   "index",
	Sources: cli.EnvVars("AMIVERSE_FEED"),
}

var PollInterval = &cli.DurationFlag{
	Name:    "poll-interval",
	Usage:   "How often watch refreshes the feed and the unread count",
	Value:   60 * time.Second,
	Sources: cli.EnvVars("AMIVERSE_POLL_INTERVAL"),
	Validator: func(value time.Duration) error {
		if value <= 0 {
			return fmt.Errorf("%w: poll interval must be positive: %s", ErrInvalidFlag, value)
		}
		return nil
	},
}

var ToastTTL = &cli.DurationFlag{
	Name:    "toast-ttl",
	Usage:   "How long a notification toast stays visible",
	Value:   toast.DefaultTTL,
	Sources: cli.EnvVars("AMIVERSE_TOAST_TTL"),
}

var ReconcileReactions = &cli.BoolFlag{
	Name:    "reconcile-reactions",
	Usage:   "Store the post snapshot the backend returns after a reaction toggle",
	Sources: cli.EnvVars("AMIVERSE_RECONCILE_REACTIONS"),
}

var MetricsAddr = &cli.StringFlag{
	Name:    "metrics-addr",
	Usage:   "Serve /metrics and /health on this address, disabled when empty",
	Sources: cli.EnvVars("AMIVERSE_METRICS_ADDR"),
}

var NATSURL = &cli.StringFlag{
	Name:    "nats-url",
	Aliases: []string{"n"},
	Usage:   "Forward cache changes to this NATS server, disabled when empty",
	Sources: cli.EnvVars("NATS_URL"),
}

var InitNATS = &cli.BoolFlag{
	Name:        "nats-init",
	Aliases:     []string{"i"},
	Usage:       "Initialize the NATS server: create the stream",
	DefaultText: "false",
	Value:       false,
	Sources:     cli.EnvVars("NATS_INIT"),
}

var Pages = &cli.IntFlag{
	Name:  "pages",
	Usage: "Number of additional pages to load",
	Value: 0,
}

var All = &cli.BoolFlag{
	Name:  "all",
	Usage: "Load every page",
}

var Dump = &cli.BoolFlag{
	Name:  "dump",
	Usage: "Pretty print the raw records",
}

var Visibility = &cli.StringFlag{
	Name:  "visibility",
	Usage: "Visibility of the post",
	Value: string(amiapi.VisibilityOpened),
	Validator: func(value string) error {
		return oneOf("visibility", value, validVisibilities)
	},
}

var Reply = &cli.StringFlag{
	Name:  "reply",
	Usage: "The aid of the post to reply to",
}

var Quote = &cli.StringFlag{
	Name:  "quote",
	Usage: "The aid of the post to quote",
}

var Media = &cli.StringSliceFlag{
	Name:  "media",
	Usage: "Path of an image or video to attach, repeatable",
}

func oneOf(what, value string, allowed []string) error {
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("%w: %s: %s, allowed values are: %s", ErrInvalidFlag, what, value, allowed)
	}
	return nil
}
