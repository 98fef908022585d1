package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dotcommander/sitegen/internal/config"
	"github.com/dotcommander/sitegen/internal/pipeline"
	"github.com/dotcommander/sitegen/internal/scraper"
	"github.com/dotcommander/sitegen/internal/storage"
	"github.com/dotcommander/sitegen/internal/synth"
	"github.com/dotcommander/sitegen/internal/templates"
)

// app holds the long-lived collaborators shared by every command
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	synth     *synth.Synthesizer
	generator *pipeline.Generator
	sites     *storage.SiteWriter
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	corpus := storage.NewCorpusFile(
		storage.NewFileSystem(filepath.Dir(cfg.Paths.CorpusFile)),
		filepath.Base(cfg.Paths.CorpusFile),
	)
	seed, err := corpus.LoadCorpus(ctx)
	if err != nil {
		return nil, err
	}

	s := synth.New(
		synth.WithCorpus(seed),
		synth.WithCorpusStore(corpus),
		synth.WithLogger(logger),
	)

	registry, err := templates.Default()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	gen := pipeline.New(newSource(cfg, logger), s, registry,
		pipeline.WithReferenceURLs(cfg.Pipeline.ReferenceURLs...),
		pipeline.WithFeatures(cfg.Pipeline.Features...),
		pipeline.WithConcurrency(cfg.Limits.MaxConcurrentScrapes),
		pipeline.WithTimeout(cfg.Limits.GenerationTimeout),
		pipeline.WithLogger(logger),
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		synth:     s,
		generator: gen,
		sites:     storage.NewSiteWriter(storage.NewFileSystem(cfg.Paths.OutputDir), logger),
	}, nil
}

// newSource picks the design source for the configured scraper mode and
// fronts it with a cache when one is configured
func newSource(cfg *config.Config, logger *slog.Logger) scraper.Source {
	var src scraper.Source
	switch cfg.Scraper.Mode {
	case "live":
		fetcher := scraper.NewFetcher(
			scraper.WithTimeout(cfg.Limits.FetchTimeout),
			scraper.WithRateLimit(cfg.Limits.RateLimit.RequestsPerMinute, cfg.Limits.RateLimit.BurstSize),
			scraper.WithUserAgent(cfg.Scraper.UserAgent),
			scraper.WithMaxBodyBytes(cfg.Limits.MaxBodyBytes),
			scraper.WithFetcherLogger(logger),
		)
		src = scraper.NewHTMLScraper(fetcher, logger)
	default:
		src = scraper.NewReferenceSource(logger)
	}

	if cfg.Scraper.CacheSize > 0 {
		src = scraper.NewCachedSource(src, cfg.Scraper.CacheSize, cfg.Limits.CacheTTL, logger)
	}
	return src
}

func (a *app) Close() error {
	return a.synth.Close()
}
