package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/sitegen/internal/domain/design"
)

var errEmptyPage = errors.New("page has no markup or styles")

// HTMLScraper fetches a live page and extracts its design description
type HTMLScraper struct {
	fetcher *Fetcher
	logger  *slog.Logger
}

// NewHTMLScraper creates a scraper that downloads pages through fetcher
func NewHTMLScraper(fetcher *Fetcher, logger *slog.Logger) *HTMLScraper {
	if logger == nil {
		logger = slog.Default()
	}
	if fetcher == nil {
		fetcher = NewFetcher(WithFetcherLogger(logger))
	}
	return &HTMLScraper{
		fetcher: fetcher,
		logger:  logger.With("component", "html_scraper"),
	}
}

func (s *HTMLScraper) Scrape(ctx context.Context, rawURL string) (*design.ScrapedDesign, error) {
	body, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return s.Extract(ctx, rawURL, body)
}

// Extract builds a ScrapedDesign from an already downloaded page. Colors,
// layout and typography are extracted concurrently.
func (s *HTMLScraper) Extract(ctx context.Context, rawURL string, body []byte) (*design.ScrapedDesign, error) {
	start := time.Now()

	p, err := parsePage(rawURL, body)
	if err != nil {
		return nil, NewFetchError(rawURL, fmt.Errorf("parse html: %w", err))
	}
	if strings.TrimSpace(p.css) == "" && len(p.inline) == 0 && !hasContent(p) {
		return nil, NewFetchError(rawURL, errEmptyPage)
	}

	var (
		colors design.Colors
		layout design.Layout
		typo   design.Typography
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		colors, err = extractColors(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		layout, err = analyzeLayout(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		typo, err = extractTypography(gctx, p)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, NewFetchError(rawURL, err)
	}

	components := extractComponents(p)
	d := &design.ScrapedDesign{
		URL:          rawURL,
		HTML:         render(p.doc, 0),
		CSS:          p.css,
		Colors:       colors,
		Typography:   typo,
		Spacing:      extractSpacing(p, layout),
		Components:   components,
		Layout:       layout,
		Animations:   extractAnimations(p),
		Patterns:     summarizePatterns(p, components),
		Interactions: extractInteractions(p),
	}

	s.logger.Info("page extracted",
		"url", rawURL,
		"components", len(d.Components),
		"colors", len(colors.Primary)+len(colors.Secondary)+len(colors.Accent),
		"sections", len(layout.Sections),
		"duration_ms", time.Since(start).Milliseconds())

	return d, nil
}

func hasContent(p *page) bool {
	body := bodySel.MatchFirst(p.doc)
	return body != nil && body.FirstChild != nil
}
