// Package synth generates page markup and learns section preferences from
// recorded feedback.
package synth

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dotcommander/sitegen/internal/domain/site"
)

// CorpusStore persists corpus snapshots after each model update
type CorpusStore interface {
	SaveCorpus(ctx context.Context, corpus []site.TrainingExample) error
}

// Synthesizer turns prompts into markup. It is safe for concurrent use;
// generation reads the learned weights while a single background worker
// rebuilds them from the corpus.
type Synthesizer struct {
	mu      sync.RWMutex
	corpus  []site.TrainingExample
	weights map[string]float64
	closed  bool

	store    CorpusStore
	validate *validator.Validate
	logger   *slog.Logger

	updates chan struct{}
	flushes chan chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

type Option func(*Synthesizer)

// WithCorpusStore persists the corpus after every update
func WithCorpusStore(store CorpusStore) Option {
	return func(s *Synthesizer) {
		s.store = store
	}
}

// WithCorpus seeds the synthesizer with previously recorded examples
func WithCorpus(corpus []site.TrainingExample) Option {
	return func(s *Synthesizer) {
		s.corpus = append(s.corpus, corpus...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) {
		if logger != nil {
			s.logger = logger.With("component", "synthesizer")
		}
	}
}

// New creates a synthesizer and starts its update worker. Call Close to stop it.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		weights:  make(map[string]float64),
		validate: validator.New(),
		logger:   slog.Default().With("component", "synthesizer"),
		updates:  make(chan struct{}, 1),
		flushes:  make(chan chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.weights = sectionWeights(s.corpus)

	s.wg.Add(1)
	go s.run()

	return s
}

// Generate returns markup for prompt. The result depends only on the prompt
// and the current learned weights.
func (s *Synthesizer) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &SynthesisError{Prompt: prompt, Err: err}
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return "", &SynthesisError{Prompt: prompt, Err: ErrUnavailable}
	}
	sections := selectSections(tokenize(prompt), s.weights)
	s.mu.RUnlock()

	code := renderPage(prompt, sections)

	s.logger.Debug("markup generated",
		"prompt_length", len(prompt),
		"sections", len(sections))

	return code, nil
}

// RecordFeedback validates and appends an example, then schedules a model
// update. Only validation failures are returned; the example is kept even if
// the later update fails.
func (s *Synthesizer) RecordFeedback(ctx context.Context, example site.TrainingExample) error {
	if err := s.validate.StructCtx(ctx, example); err != nil {
		return &ValidationError{Err: err}
	}

	if example.ID == "" {
		example.ID = uuid.NewString()
	}
	if example.RecordedAt.IsZero() {
		example.RecordedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.corpus = append(s.corpus, example)
	closed := s.closed
	size := len(s.corpus)
	s.mu.Unlock()

	s.logger.Info("feedback recorded",
		"example_id", example.ID,
		"feedback", example.Feedback,
		"corpus_size", size)

	if closed {
		s.logger.Warn("synthesizer closed, update skipped", "example_id", example.ID)
		return nil
	}

	// coalesce: one pending signal covers any number of appends
	select {
	case s.updates <- struct{}{}:
	default:
	}
	return nil
}

// Flush blocks until updates scheduled before the call have been applied
func (s *Synthesizer) Flush(ctx context.Context) error {
	reply := make(chan struct{})
	select {
	case s.flushes <- reply:
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the update worker after applying any pending update
func (s *Synthesizer) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.done)
		s.wg.Wait()
	})
	return nil
}

// Corpus returns a copy of the recorded examples in append order
func (s *Synthesizer) Corpus() []site.TrainingExample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]site.TrainingExample, len(s.corpus))
	copy(out, s.corpus)
	return out
}

func (s *Synthesizer) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.corpus)
}

// Weights returns a copy of the learned section weights
func (s *Synthesizer) Weights() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.weights))
	for k, v := range s.weights {
		out[k] = v
	}
	return out
}

func (s *Synthesizer) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.updates:
			s.update()
		case reply := <-s.flushes:
			s.drain()
			close(reply)
		case <-s.done:
			s.drain()
			return
		}
	}
}

// drain applies a pending update, if any
func (s *Synthesizer) drain() {
	select {
	case <-s.updates:
		s.update()
	default:
	}
}

// update rebuilds section weights from a corpus snapshot and persists it.
// Failures are logged and never reach the caller that recorded feedback.
func (s *Synthesizer) update() {
	start := time.Now()
	corpus := s.Corpus()
	weights := sectionWeights(corpus)

	s.mu.Lock()
	s.weights = weights
	s.mu.Unlock()

	if s.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := s.store.SaveCorpus(ctx, corpus)
		cancel()
		if err != nil {
			s.logger.Error("corpus snapshot failed",
				"corpus_size", len(corpus),
				"error", err)
		}
	}

	s.logger.Debug("model updated",
		"corpus_size", len(corpus),
		"weighted_sections", len(weights),
		"duration_ms", time.Since(start).Milliseconds())
}

// sectionWeights scores each section by the mean quality of the examples
// whose code contains it
func sectionWeights(corpus []site.TrainingExample) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, ex := range corpus {
		q := quality(ex)
		for _, sec := range sectionLibrary {
			if strings.Contains(ex.GeneratedCode, `data-section="`+sec.name+`"`) {
				sums[sec.name] += q
				counts[sec.name]++
			}
		}
	}

	weights := make(map[string]float64, len(sums))
	for name, sum := range sums {
		weights[name] = sum / float64(counts[name])
	}
	return weights
}

// quality combines the rating with measured accessibility and SEO into [0,1]
func quality(ex site.TrainingExample) float64 {
	rating := float64(ex.Feedback) / 5
	perf := 1.0
	if ex.Performance.Accessibility > 0 || ex.Performance.SEO > 0 {
		perf = (ex.Performance.Accessibility + ex.Performance.SEO) / 200
	}
	return rating * perf
}
