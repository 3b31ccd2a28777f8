package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"resty.dev/v3"

	"amiverse/internal/app"
	"amiverse/internal/cmd/flags"
	"amiverse/internal/config"
	"amiverse/internal/metrics"
	"amiverse/pkg/amiapi"
	"amiverse/pkg/clicfg"
)

const VERSION = "0.1.0"

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "amiverse",
		Usage:   "Amiverse is a headless client for the Amiverse social network",
		Version: VERSION,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := initLogger(c.String("log-level")); err != nil {
				return ctx, err
			}
			return ctx, nil
		},
		Flags: []cli.Flag{
			flags.BackendURL,
			flags.RequestTimeout,
			flags.LogLevel,
			flags.Feed,
			flags.ToastTTL,
			flags.ReconcileReactions,
		},
		Commands: []*cli.Command{
			feedCmd,
			searchCmd,
			postCmd,
			quotesCmd,
			reactCmd,
			reactionsCmd,
			diffusionsCmd,
			accountCmd,
			notificationsCmd,
			emojisCmd,
			trendsCmd,
			composeCmd,
			watchCmd,
		},
	}
}

func Run() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseConfig(c *cli.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if err := clicfg.ParseFlags(c, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is the state every command works with.
type session struct {
	cfg    *config.Config
	client *amiapi.Client
	app    *app.App
}

func (s *session) Close() {
	s.app.Close()
	s.client.Close() //nolint:errcheck
}

// openSession builds the client from the parsed flags and starts the backend
// session. A failed start leaves the viewer signed out.
func openSession(ctx context.Context, c *cli.Command) (*session, error) {
	cfg, err := parseConfig(c)
	if err != nil {
		return nil, err
	}

	client, err := amiapi.NewClient(&amiapi.ClientConfig{
		BaseURL:             cfg.APIBaseURL(),
		Timeout:             cfg.RequestTimeout,
		TransportSettings:   amiapi.DefaultConfig.TransportSettings,
		ResponseMiddlewares: []resty.ResponseMiddleware{metrics.LatencyMiddleware},
	})
	if err != nil {
		return nil, err
	}

	a := app.New(client, app.Options{
		Feed:               cfg.Feed,
		ToastTTL:           cfg.ToastTTL,
		ReconcileReactions: cfg.ReconcileReactions,
	}, slog.Default())

	status, err := a.Start(ctx)
	if err != nil {
		slog.Debug("continuing signed out", "error", err)
	}
	slog.Debug("session started", "status", status)

	return &session{cfg: cfg, client: client, app: a}, nil
}

// withSession runs fn with an open session, closing it afterwards.
func withSession(fn func(ctx context.Context, c *cli.Command, s *session) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		s, err := openSession(ctx, c)
		if err != nil {
			return err
		}
		defer s.Close()

		return fn(ctx, c, s)
	}
}
