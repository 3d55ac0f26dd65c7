package main

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/crumbtrail/internal/config"
	"github.com/vango-dev/crumbtrail/internal/demo"
	"github.com/vango-dev/crumbtrail/pkg/middleware"
	"github.com/vango-dev/crumbtrail/pkg/server"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

type serveOptions struct {
	configPath string
	addr       string
	logFormat  string
	logLevel   string
	metrics    bool
	tracing    bool
	persist    bool
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo shop",
		Long: `Serve the demo shop with live breadcrumb trails.

Settings are read from crumbs.json, crumbs.yaml or crumbs.yml in the
working directory, or from the file given with --config. Flags override
the file.

Examples:
  crumbs serve
  crumbs serve --addr=:8080 --metrics
  crumbs serve --config=deploy/crumbs.yaml --log-format=json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if cfg.Log.Format == "text" {
				printBanner(w)
				info(w, "serve")
				if cfg.Path() != "" {
					info(w, "config %s", cfg.Path())
				}
				io.WriteString(w, "\n")
			}

			srv, err := newServer(cfg, os.Stderr, prometheus.DefaultRegisterer)
			if err != nil {
				return err
			}
			success(w, "Listening on %s", cfg.Server.Address)
			return srv.Run()
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Config file (default: crumbs.json/yaml in the working directory)")
	f.StringVarP(&opts.addr, "addr", "a", "", "Address to listen on (default from config)")
	f.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	f.BoolVar(&opts.metrics, "metrics", false, "Expose Prometheus metrics")
	f.BoolVar(&opts.tracing, "tracing", false, "Trace requests with OpenTelemetry")
	f.BoolVar(&opts.persist, "persist-overrides", false, "Keep label overrides after their page unmounts")

	return cmd
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(cmd *cobra.Command, opts serveOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Address = opts.addr
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("metrics") {
		cfg.Metrics.Enabled = opts.metrics
	}
	if flags.Changed("tracing") {
		cfg.Tracing.Enabled = opts.tracing
	}
	if flags.Changed("persist-overrides") {
		cfg.Breadcrumb.PersistOverrides = opts.persist
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the slog logger described by cfg.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// newServer wires the demo, metrics and tracing into a server.
func newServer(cfg *config.Config, logOut io.Writer, reg prometheus.Registerer) (*server.Server, error) {
	logger := newLogger(cfg.Log, logOut)

	sc := cfg.ServerConfig()
	sc.Logger = logger

	bc := cfg.BreadcrumbConfig()

	var metrics *middleware.Metrics
	if cfg.Metrics.Enabled {
		metrics = middleware.Prometheus(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(reg),
		)
		sc.Observer = metrics
		bc.Observer = metrics
	}

	srv := server.New(sc)
	if err := srv.Config().Validate(); err != nil {
		return nil, err
	}

	viewOpts := cfg.ViewOptions()
	srv.SetRootComponent(func() vdom.Component {
		return demo.App(demo.Options{Breadcrumb: bc, View: viewOpts})
	})

	if cfg.Tracing.Enabled {
		tracerOpts := []middleware.OTelOption{
			middleware.WithRequestFilter(func(r *http.Request) bool {
				return r.URL.Path != "/healthz" && r.URL.Path != cfg.Metrics.Path
			}),
		}
		if cfg.Tracing.TracerName != "" {
			tracerOpts = append(tracerOpts, middleware.WithTracerName(cfg.Tracing.TracerName))
		}
		srv.Use(middleware.OpenTelemetry(tracerOpts...))
	}
	if metrics != nil {
		srv.Use(metrics.Handler)
		srv.Mount(cfg.Metrics.Path, metrics.Endpoint())
		logger.Info("metrics enabled", "path", cfg.Metrics.Path)
	}

	return srv, nil
}
