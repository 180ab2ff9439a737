package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

func reembedCommand() *cli.Command {
	return &cli.Command{
		Name:   "reembed",
		Usage:  "Reembed all stored events with the configured embedding model",
		Action: reembedAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory; overrides the config file",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of events to process in each batch",
			},
			&cli.IntFlag{
				Name:  "report-interval",
				Usage: "Report progress every N events",
			},
			&cli.IntFlag{
				Name:  "max-retries",
				Usage: "Maximum retry attempts for failed operations",
			},
			&cli.DurationFlag{
				Name:  "retry-delay",
				Usage: "Base delay for exponential backoff",
			},
		},
	}
}

func reembedAction(c *cli.Context) error {
	ctx := context.Background()
	cfg := configFrom(c)

	if dbPath := c.String("db"); dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	reembedConfig := cfg.Reembed
	if c.IsSet("batch-size") {
		reembedConfig.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("report-interval") {
		reembedConfig.ReportInterval = c.Int("report-interval")
	}
	if c.IsSet("max-retries") {
		reembedConfig.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("retry-delay") {
		reembedConfig.RetryDelay = c.Duration("retry-delay")
	}

	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}
	if reembedConfig.RetryDelay < 0 {
		reembedConfig.RetryDelay = time.Second
	}

	m, stopMetrics, err := startMetrics(cfg)
	if err != nil {
		return err
	}
	defer stopMetrics()

	db, err := openDatabase(cfg, m)
	if err != nil {
		return err
	}
	defer db.Close()

	reembedder, err := db.NewReembedder(&reembedConfig, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Storage.Path)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", cfg.AI.BaseURL)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}
