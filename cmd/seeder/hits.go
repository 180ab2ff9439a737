package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/ingestion"
)

// hitsFromReader returns an iterator over the hits in r. Accepts a JSON
// array or a stream of objects. A decoding error ends the sequence.
func hitsFromReader(r io.Reader) iter.Seq2[core.RawHit, error] {
	return func(yield func(core.RawHit, error) bool) {
		br := bufio.NewReader(r)
		dec := json.NewDecoder(br)

		first, err := peekNonSpace(br)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				yield(core.RawHit{}, err)
			}
			return
		}
		if first == '[' {
			if _, err := dec.Token(); err != nil {
				yield(core.RawHit{}, err)
				return
			}
		}

		for dec.More() {
			var hit core.RawHit
			if err := dec.Decode(&hit); err != nil {
				yield(core.RawHit{}, fmt.Errorf("failed to decode hit: %w", err))
				return
			}
			if !yield(hit, nil) {
				return
			}
		}
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

// hitsFromSlice returns an iterator over a slice of hits.
func hitsFromSlice(hits []core.RawHit) iter.Seq2[core.RawHit, error] {
	return func(yield func(core.RawHit, error) bool) {
		for _, hit := range hits {
			if !yield(hit, nil) {
				return
			}
		}
	}
}

// ingestBatched reads hits from source and ingests them in batches. It
// returns the number of events stored.
func ingestBatched(ctx context.Context, pipeline *ingestion.Pipeline, source iter.Seq2[core.RawHit, error], batchSize int) (int, error) {
	batch := make([]core.RawHit, 0, batchSize)
	stored := 0

	flush := func() error {
		events, err := pipeline.IngestHits(ctx, batch...)
		stored += len(events)
		batch = batch[:0]
		return err
	}

	for hit, err := range source {
		if err != nil {
			return stored, err
		}
		batch = append(batch, hit)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return stored, err
			}
		}
	}

	// Process any remaining hits
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return stored, err
		}
	}
	return stored, nil
}

var sampleHits = []core.RawHit{
	{
		Title:   "SaaS Founders Demo Day",
		Snippet: "Join us online on March 5, 2026. 8 pitch slots available for seed-stage SaaS startups. Apply by February 20, 2026.",
		URL:     "https://lu.ma/saas-founders-demo-day",
		Source:  "seed",
	},
	{
		Title:   "Fintech Pitch Night Berlin",
		Snippet: "Pitch your fintech startup to investors in Berlin, Germany on February 18, 2026. Free entry.",
		URL:     "https://www.meetup.com/fintech-pitch-night-berlin",
		Source:  "seed",
	},
	{
		Title:   "Climate Tech Startup Showcase",
		Snippet: "Series A climate startups present to VCs in London on April 9, 2026. Tickets $25.",
		URL:     "https://www.eventbrite.co.uk/e/climate-tech-startup-showcase",
		Source:  "seed",
	},
	{
		Title:   "AI Founders Breakfast",
		Snippet: "Meet other AI founders in San Francisco on January 28, 2026 over breakfast.",
		URL:     "https://partiful.com/e/ai-founders-breakfast",
		Source:  "seed",
	},
	{
		Title:   "Healthtech Investor Office Hours",
		Snippet: "Book a slot with healthtech angels online on 03/12/2026. Submit your deck to apply.",
		URL:     "https://www.eventbrite.com/e/healthtech-investor-office-hours",
		Source:  "seed",
	},
	{
		Title:   "Bangalore Startup Pitch Fest",
		Snippet: "10 pitch slots for early-stage founders in Bangalore, India on May 2, 2026.",
		URL:     "https://www.eventbrite.in/e/bangalore-startup-pitch-fest",
		Source:  "seed",
	},
	{
		Title:   "Startup Ecosystem Report 2026",
		Snippet: "An analysis of venture funding trends across Europe.",
		URL:     "https://news.example.com/startup-ecosystem-report",
		Source:  "seed",
	},
}
