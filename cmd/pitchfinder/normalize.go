package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/poiesic/pitchfinder/normalize"
	"github.com/urfave/cli/v2"
)

// ErrNoEvent is returned when no strategy could build an event.
var ErrNoEvent = errors.New("no event could be extracted from the input")

func normalizeCommand() *cli.Command {
	return &cli.Command{
		Name:   "normalize",
		Usage:  "Normalize a page or a title/snippet pair and print the canonical event",
		Action: normalizeAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "html",
				Usage: "Path to an HTML page",
			},
			&cli.StringFlag{
				Name:  "api-json",
				Usage: "Path to a platform API payload",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Listing title",
			},
			&cli.StringFlag{
				Name:  "snippet",
				Usage: "Listing snippet",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Listing URL",
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Source name recorded on the event",
				Value: "cli",
			},
		},
	}
}

func normalizeAction(c *cli.Context) error {
	in, err := inputFromFlags(c)
	if err != nil {
		return err
	}

	normalizer, err := normalize.New()
	if err != nil {
		return err
	}
	event := normalizer.Normalize(in, c.String("source"))
	if event == nil {
		return ErrNoEvent
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(event)
}

func inputFromFlags(c *cli.Context) (normalize.Input, error) {
	in := normalize.Input{
		URL:     c.String("url"),
		Title:   c.String("title"),
		Snippet: c.String("snippet"),
	}
	if path := c.String("html"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return in, fmt.Errorf("failed to read html: %w", err)
		}
		in.HTML = string(data)
	}
	if path := c.String("api-json"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return in, fmt.Errorf("failed to read api payload: %w", err)
		}
		if !json.Valid(data) {
			return in, fmt.Errorf("api payload %s is not valid JSON", path)
		}
		in.APIPayload = data
	}
	if in.HTML == "" && in.APIPayload == nil && in.Title == "" && in.Snippet == "" {
		return in, errors.New("one of --html, --api-json, --title or --snippet is required")
	}
	return in, nil
}
