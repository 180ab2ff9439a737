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
	"os"

	"github.com/poiesic/pitchfinder"
	"github.com/poiesic/pitchfinder/config"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "seeder",
		Usage: "Ingest raw search hits into the local event store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "src",
				Usage: "JSON file of raw hits (array or one object per line); built-in samples when empty",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"PITCHFINDER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory; overrides the config file",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of hits to ingest per batch",
				Value: 5,
			},
		},
		Action: seed,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func seed(c *cli.Context) error {
	cfg, errs := config.Load(c.String("config"))
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	})))
	if dbPath := c.String("db"); dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if c.Int("batch-size") < 1 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	db, err := pitchfinder.NewDatabase(cfg.Storage.Path,
		pitchfinder.WithAIConfig(cfg.AIConfig()),
		pitchfinder.WithPoolSize(cfg.Ranking.PoolSize))
	if err != nil {
		return err
	}
	defer db.Close()

	ingester, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer ingester.Release()

	source := hitsFromSlice(sampleHits)
	if path := c.String("src"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		source = hitsFromReader(f)
	}

	stored, err := ingestBatched(context.Background(), ingester, source, c.Int("batch-size"))
	if err != nil {
		return err
	}
	slog.Info("seeding complete", "stored", stored)
	return nil
}
