// Package trends aggregates scraped reference designs into a trend report.
package trends

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/sitegen/internal/domain/design"
	"github.com/dotcommander/sitegen/internal/scraper"
)

// ErrAllSourcesFailed is matched by every AllSourcesFailedError
var ErrAllSourcesFailed = errors.New("all reference sources failed")

// AllSourcesFailedError is returned when no reference URL could be scraped
type AllSourcesFailedError struct {
	URLs     []string
	Failures map[string]error
}

func (e *AllSourcesFailedError) Error() string {
	if len(e.URLs) == 0 {
		return "no reference sources given"
	}
	first := e.URLs[0]
	return fmt.Sprintf("all %d reference sources failed (first: %s: %v)", len(e.URLs), first, e.Failures[first])
}

func (e *AllSourcesFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.URLs))
	for _, u := range e.URLs {
		if err := e.Failures[u]; err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (e *AllSourcesFailedError) Is(target error) bool {
	return target == ErrAllSourcesFailed
}

// IsAllSourcesFailed checks if err reports a total trend analysis failure
func IsAllSourcesFailed(err error) bool {
	var failed *AllSourcesFailedError
	return errors.As(err, &failed)
}

const defaultConcurrency = 4

// Analyzer scrapes reference sites concurrently and aggregates the results
type Analyzer struct {
	source      scraper.Source
	concurrency int
	logger      *slog.Logger
}

type Option func(*Analyzer)

// WithConcurrency bounds how many sources are scraped at once
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger.With("component", "trend_analyzer")
		}
	}
}

func New(source scraper.Source, opts ...Option) *Analyzer {
	a := &Analyzer{
		source:      source,
		concurrency: defaultConcurrency,
		logger:      slog.Default().With("component", "trend_analyzer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scrapes every URL and aggregates the successful results in input
// order. A failing source is logged and skipped; it never cancels the others.
func (a *Analyzer) Analyze(ctx context.Context, urls []string) (*design.TrendReport, error) {
	if len(urls) == 0 {
		return nil, &AllSourcesFailedError{Failures: map[string]error{}}
	}

	start := time.Now()
	designs := make([]*design.ScrapedDesign, len(urls))
	errs := make([]error, len(urls))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			designs[i], errs[i] = a.source.Scrape(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	var ok []*design.ScrapedDesign
	failures := make(map[string]error)
	for i, u := range urls {
		if errs[i] != nil {
			a.logger.Warn("reference source skipped", "url", u, "error", errs[i])
			failures[u] = errs[i]
			continue
		}
		ok = append(ok, designs[i])
	}

	if len(ok) == 0 {
		return nil, &AllSourcesFailedError{URLs: urls, Failures: failures}
	}

	report := Aggregate(ok)
	if len(failures) > 0 {
		report.Failures = make(map[string]string, len(failures))
		for u, err := range failures {
			report.Failures[u] = err.Error()
		}
	}

	a.logger.Info("trend analysis complete",
		"sources", len(ok),
		"failed", len(failures),
		"components", len(report.PopularComponents),
		"duration_ms", time.Since(start).Milliseconds())

	return report, nil
}
