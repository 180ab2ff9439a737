// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/poiesic/pitchfinder"
	"github.com/poiesic/pitchfinder/config"
	"github.com/poiesic/pitchfinder/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "pitchfinder",
		Usage: "Discover and rank startup pitch events",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error); overrides the config file",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"PITCHFINDER_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address; overrides the config file",
			},
		},
		Metadata: map[string]interface{}{},
		Before:   setup,
		Commands: []*cli.Command{
			findCommand(),
			normalizeCommand(),
			reembedCommand(),
		},
	}
}

// setup loads the configuration and installs the logger.
func setup(c *cli.Context) error {
	cfg, errs := config.Load(c.String("config"))
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	level := cfg.Level()
	if s := c.String("log-level"); s != "" {
		var err error
		level, err = config.ParseLogLevel(s)
		if err != nil {
			return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", s)
		}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if addr := c.String("metrics-addr"); addr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = addr
	}

	c.App.Metadata[configKey] = cfg
	return nil
}

func configFrom(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// startMetrics serves a fresh registry when metrics are enabled. The
// returned stop function is always safe to call.
func startMetrics(cfg *config.Config) (*metrics.Metrics, func(), error) {
	if !cfg.Metrics.Enabled || cfg.Metrics.Addr == "" {
		return nil, func() {}, nil
	}

	m := metrics.NewMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		return nil, nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("metrics server stopped", "addr", cfg.Metrics.Addr, "error", err)
		}
	}()
	slog.Debug("serving metrics", "addr", cfg.Metrics.Addr)

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}
	return m, stop, nil
}

func openDatabase(cfg *config.Config, m *metrics.Metrics) (*pitchfinder.Database, error) {
	db, err := pitchfinder.NewDatabase(cfg.Storage.Path,
		pitchfinder.WithAIConfig(cfg.AIConfig()),
		pitchfinder.WithWeights(cfg.Ranking.Weights),
		pitchfinder.WithPoolSize(cfg.Ranking.PoolSize),
		pitchfinder.WithMetrics(m),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
