package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/pitchfinder/config"
	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/metrics"
	"github.com/poiesic/pitchfinder/search"
	"github.com/poiesic/pitchfinder/websearch"
	"github.com/urfave/cli/v2"
)

const dateLayout = "2006-01-02"

func findCommand() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Search the web for pitch events and rank them",
		ArgsUsage: "<intent>",
		Action:    findAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "persona",
				Usage: "Who is searching (founder, investor)",
				Value: string(core.PersonaFounder),
			},
			&cli.StringFlag{
				Name:  "location",
				Usage: "City, country or region to attend in",
			},
			&cli.StringFlag{
				Name:  "region",
				Usage: "Broader region used when no location is given",
			},
			&cli.StringSliceFlag{
				Name:  "industry",
				Usage: "Industry of interest (repeatable)",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "Earliest event date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Latest event date (YYYY-MM-DD)",
			},
			&cli.Float64Flag{
				Name:  "max-price",
				Usage: "Highest acceptable ticket price",
				Value: -1,
			},
			&cli.BoolFlag{
				Name:  "pitch-only",
				Usage: "Only return events with pitch slots",
			},
			&cli.BoolFlag{
				Name:  "online-only",
				Usage: "Only return online events",
			},
			&cli.IntFlag{
				Name:  "max-results",
				Usage: "Number of events to return",
				Value: core.DefaultMaxResults,
			},
			&cli.BoolFlag{
				Name:  "stored",
				Usage: "Rank stored events only, skipping the web search",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
		},
	}
}

func findAction(c *cli.Context) error {
	ctx := context.Background()
	cfg := configFrom(c)

	query, err := queryFromFlags(c)
	if err != nil {
		return err
	}
	if err := core.ValidateQuery(query); err != nil {
		return err
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

	var opts []search.Option
	opts = append(opts,
		search.WithIngestLimit(cfg.Search.IngestLimit),
		search.WithCandidateLimit(cfg.Search.CandidateLimit))
	if !c.Bool("stored") {
		web, closeWeb, err := newWebSearcher(cfg, m)
		switch {
		case err == nil:
			defer closeWeb()
			opts = append(opts, search.WithWebSearcher(web))
		case errors.Is(err, websearch.ErrAPIKeyRequired):
			slog.Warn("no Tavily API key configured, ranking stored events only")
		default:
			return err
		}
	}

	finder, err := db.NewFinder(opts...)
	if err != nil {
		return fmt.Errorf("failed to create finder: %w", err)
	}
	defer finder.Release()

	results, err := finder.Find(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return printResults(c.App.Writer, results, c.Bool("json"))
}

func queryFromFlags(c *cli.Context) (*core.SearchQuery, error) {
	query := &core.SearchQuery{
		Intent:     strings.Join(c.Args().Slice(), " "),
		Persona:    core.Persona(strings.ToLower(c.String("persona"))),
		Location:   c.String("location"),
		Region:     c.String("region"),
		Industry:   c.StringSlice("industry"),
		PitchOnly:  c.Bool("pitch-only"),
		OnlineOnly: c.Bool("online-only"),
		MaxResults: c.Int("max-results"),
	}
	if c.Float64("max-price") >= 0 {
		price := c.Float64("max-price")
		query.MaxPrice = &price
	}
	var err error
	if query.DateFrom, err = parseDate(c.String("from"), "from"); err != nil {
		return nil, err
	}
	if query.DateTo, err = parseDate(c.String("to"), "to"); err != nil {
		return nil, err
	}
	if query.DateTo != nil {
		// Include the whole final day.
		end := query.DateTo.Add(24*time.Hour - time.Second)
		query.DateTo = &end
	}
	return query, nil
}

func parseDate(s, flag string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("--%s must be a date like 2026-03-01: %w", flag, err)
	}
	return &t, nil
}

// newWebSearcher builds the Tavily-backed searcher, cached in Redis when a
// URL is configured.
func newWebSearcher(cfg *config.Config, m *metrics.Metrics) (*websearch.Searcher, func(), error) {
	if cfg.Search.TavilyAPIKey == "" {
		return nil, nil, websearch.ErrAPIKeyRequired
	}
	client, err := websearch.NewTavilyClient(cfg.Search.TavilyAPIKey, websearch.WithBaseURL(cfg.Search.TavilyURL))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create search client: %w", err)
	}

	opts := []websearch.Option{
		websearch.WithMaxResults(cfg.Search.MaxResults),
		websearch.WithDomains(cfg.Search.Domains...),
		websearch.WithMetrics(m),
	}
	closeCache := func() {}
	if cfg.Search.RedisURL != "" {
		cache, err := websearch.NewRedisCacheFromURL(cfg.Search.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, websearch.WithCache(cache, cfg.Search.CacheTTL))
		closeCache = func() { cache.Close() }
	}

	searcher, err := websearch.NewSearcher(client, opts...)
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	return searcher, closeCache, nil
}

func printResults(w io.Writer, results []core.RankedEvent, asJSON bool) error {
	if w == nil {
		w = os.Stdout
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Fprintf(w, "Found %d events\n", len(results))
	for i, r := range results {
		e := r.Event
		fmt.Fprintf(w, "\n%d. %s [%0.3f]\n", i+1, e.Title, r.Score)
		fmt.Fprintf(w, "   %s | %s\n", e.StartUTC.Format("Mon Jan 2, 2006 15:04 MST"), where(e))
		if e.ShortSummary != "" {
			fmt.Fprintf(w, "   %s\n", e.ShortSummary)
		}
		fmt.Fprintf(w, "   %s\n", r.Explanation)
		if link := eventLink(e); link != "" {
			fmt.Fprintf(w, "   %s\n", link)
		}
	}
	return nil
}

func where(e *core.CanonicalEvent) string {
	if e.Venue.Type == core.VenueOnline {
		return "online"
	}
	parts := make([]string, 0, 2)
	for _, p := range []string{e.Venue.City, e.Venue.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return string(e.Venue.Type)
	}
	return strings.Join(parts, ", ")
}

func eventLink(e *core.CanonicalEvent) string {
	if e.Registration.URL != "" {
		return e.Registration.URL
	}
	for _, s := range e.Sources {
		if s.SourceURL != "" {
			return s.SourceURL
		}
	}
	return ""
}
