// Package pipeline turns a prompt into a generated site file set.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/sitegen/internal/analyzer"
	"github.com/dotcommander/sitegen/internal/config"
	"github.com/dotcommander/sitegen/internal/domain/design"
	"github.com/dotcommander/sitegen/internal/domain/site"
	"github.com/dotcommander/sitegen/internal/orderedset"
	"github.com/dotcommander/sitegen/internal/scraper"
	"github.com/dotcommander/sitegen/internal/styling"
	"github.com/dotcommander/sitegen/internal/templates"
	"github.com/dotcommander/sitegen/internal/trends"
)

// TrendAnalyzer aggregates reference sites into a trend report
type TrendAnalyzer interface {
	Analyze(ctx context.Context, urls []string) (*design.TrendReport, error)
}

// Synthesizer generates page markup for a prompt
type Synthesizer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result carries the generated files with the intermediate artifacts that
// produced them
type Result struct {
	RequestID string
	Files     site.FileSet
	Response  site.LLMResponse
	Analysis  site.AIResponse
	Trends    *design.TrendReport
}

// Generator runs the generation pipeline. It holds no per-request state and
// is safe for concurrent use.
type Generator struct {
	source        scraper.Source
	trends        TrendAnalyzer
	synth         Synthesizer
	registry      *templates.Registry
	referenceURLs []string
	features      []string
	concurrency   int
	timeout       time.Duration
	logger        *slog.Logger
}

type Option func(*Generator)

func WithReferenceURLs(urls ...string) Option {
	return func(g *Generator) {
		g.referenceURLs = append([]string(nil), urls...)
	}
}

// WithFeatures replaces the baseline feature list
func WithFeatures(features ...string) Option {
	return func(g *Generator) {
		g.features = append([]string(nil), features...)
	}
}

// WithTimeout bounds a whole request; zero means no bound
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// WithConcurrency bounds the reference sites scraped at once during trend
// analysis
func WithConcurrency(n int) Option {
	return func(g *Generator) {
		g.concurrency = n
	}
}

// WithTrendAnalyzer overrides the analyzer built over the scrape source
func WithTrendAnalyzer(a TrendAnalyzer) Option {
	return func(g *Generator) {
		g.trends = a
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger.With("component", "generator")
		}
	}
}

// New creates a generator. Trend analysis scrapes through source unless
// WithTrendAnalyzer is given.
func New(source scraper.Source, synth Synthesizer, registry *templates.Registry, opts ...Option) *Generator {
	g := &Generator{
		source:        source,
		synth:         synth,
		registry:      registry,
		referenceURLs: config.DefaultReferenceURLs,
		features:      config.DefaultFeatures,
		logger:        slog.Default().With("component", "generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.trends == nil {
		topts := []trends.Option{trends.WithLogger(g.logger)}
		if g.concurrency > 0 {
			topts = append(topts, trends.WithConcurrency(g.concurrency))
		}
		g.trends = trends.New(source, topts...)
	}
	return g
}

// GenerateWebsite returns the generated file set for prompt
func (g *Generator) GenerateWebsite(ctx context.Context, prompt string) (site.FileSet, error) {
	res, err := g.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return res.Files, nil
}

// Generate runs every stage for prompt. On failure it returns a
// GenerationError and no files.
func (g *Generator) Generate(ctx context.Context, prompt string) (*Result, error) {
	reqID := uuid.NewString()
	logger := g.logger.With("request_id", reqID)
	start := time.Now()

	fail := func(stage Stage, err error) (*Result, error) {
		logger.Error("generation failed", "stage", stage, "error", err)
		return nil, &GenerationError{Stage: stage, RequestID: reqID, Err: err}
	}

	if strings.TrimSpace(prompt) == "" {
		return fail(StageInput, ErrEmptyPrompt)
	}
	if len(g.referenceURLs) == 0 {
		return fail(StageInput, ErrNoReferenceURLs)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	logger.Info("generation started", "prompt_length", len(prompt), "references", len(g.referenceURLs))

	var (
		report  *design.TrendReport
		scraped *design.ScrapedDesign
		code    string
	)

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		r, err := g.trends.Analyze(egctx, g.referenceURLs)
		if err != nil {
			return &GenerationError{Stage: StageTrends, RequestID: reqID, Err: err}
		}
		report = r
		logger.Info("stage complete", "stage", StageTrends, "sources", len(r.Sources))
		return nil
	})
	eg.Go(func() error {
		d, err := g.source.Scrape(egctx, g.referenceURLs[0])
		if err != nil {
			return &GenerationError{Stage: StageScrape, RequestID: reqID, Err: err}
		}
		scraped = d
		logger.Info("stage complete", "stage", StageScrape, "url", d.URL, "components", len(d.Components))
		return nil
	})
	eg.Go(func() error {
		c, err := g.synth.Generate(egctx, prompt)
		if err != nil {
			return &GenerationError{Stage: StageSynthesize, RequestID: reqID, Err: err}
		}
		code = c
		logger.Info("stage complete", "stage", StageSynthesize, "code_length", len(c))
		return nil
	})
	if err := eg.Wait(); err != nil {
		logger.Error("generation failed", "error", err)
		return nil, err
	}

	response := site.LLMResponse{
		HTML:       code,
		CSS:        scraped.CSS,
		Components: orderedset.Union(report.PopularComponents, scraped.ComponentTypes()),
		Features:   orderedset.Union(g.features),
	}
	response.StyledHTML = styling.Apply(code, styling.Config{
		DesignSystem: report.PrimarySystem(),
		Interactions: report.InteractionPatterns,
		Animations:   scraped.Animations,
		Layout:       &scraped.Layout,
	})

	if err := ctx.Err(); err != nil {
		return fail(StageMerge, err)
	}
	analysis := analyzer.Analyze(prompt, response)
	logger.Info("stage complete", "stage", StageAnalyze, "archetype", analysis.Archetype)

	files, err := g.registry.Instantiate(analysis.Archetype, analysis.Customization)
	if err != nil {
		return fail(StageInstantiate, err)
	}

	for _, feature := range analysis.Customization.Features {
		extra, ok := g.registry.FeatureFiles(feature)
		if !ok {
			if feature == site.FeatureAuthentication {
				return fail(StageFeatures, fmt.Errorf("%s: %w", feature, ErrMissingFeatureFiles))
			}
			continue
		}
		files.Merge(extra)
	}

	logger.Info("generation complete",
		"archetype", analysis.Archetype,
		"files", len(files),
		"duration_ms", time.Since(start).Milliseconds())

	return &Result{
		RequestID: reqID,
		Files:     files,
		Response:  response,
		Analysis:  analysis,
		Trends:    report,
	}, nil
}
