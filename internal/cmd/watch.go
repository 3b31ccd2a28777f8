package cmd

import (
	"context"
	"log/slog"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"amiverse/internal/app"
	"amiverse/internal/cmd/flags"
	"amiverse/internal/config"
	"amiverse/internal/core"
	"amiverse/internal/forwarder"
	"amiverse/internal/metrics"
	inats "amiverse/internal/nats"
	"amiverse/internal/watch"
)

var watchCmd = &cli.Command{
	Name:  "watch",
	Usage: "Keep the feed and notifications fresh, optionally serving metrics and forwarding cache changes to NATS",
	Flags: []cli.Flag{
		flags.PollInterval,
		flags.MetricsAddr,
		flags.NATSURL,
		flags.InitNATS,
	},
	Action: withSession(func(ctx context.Context, _ *cli.Command, s *session) error {
		return pal.New(watchServices(s.cfg, s.app)...).
			InitTimeout(2*time.Second).
			HealthCheckTimeout(1*time.Second).
			ShutdownTimeout(10*time.Second).
			Run(ctx, syscall.SIGINT, syscall.SIGTERM)
	}),
}

func watchServices(cfg *config.Config, a *app.App) []pal.ServiceImpl {
	services := []pal.ServiceImpl{
		pal.ProvideConst[*slog.Logger](slog.Default()),
		pal.ProvideConst[*config.Config](cfg),
		pal.ProvideConst[*app.App](a),
		pal.Provide[core.Watcher, watch.Watcher](),
	}

	if cfg.MetricsAddr != "" {
		services = append(services,
			pal.Provide[core.MetricsServer, metrics.Server](),
			pal.Provide[core.MetricsCollector, metrics.Collector](),
		)
	}

	if cfg.NATSURL != "" {
		services = append(services, inats.Provide()...)
		services = append(services, pal.Provide[core.Forwarder, forwarder.Forwarder]())
	}

	return services
}
