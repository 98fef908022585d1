package synth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/sitegen/internal/domain/site"
)

type recordingStore struct {
	mu        sync.Mutex
	snapshots [][]site.TrainingExample
	err       error
}

func (r *recordingStore) SaveCorpus(ctx context.Context, corpus []site.TrainingExample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, corpus)
	return r.err
}

func (r *recordingStore) last() []site.TrainingExample {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return nil
	}
	return r.snapshots[len(r.snapshots)-1]
}

func newSynthesizer(t *testing.T, opts ...Option) *Synthesizer {
	t.Helper()
	s := New(opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sectionOrder(code string) []string {
	var out []string
	for _, part := range strings.Split(code, `data-section="`)[1:] {
		name, _, _ := strings.Cut(part, `"`)
		out = append(out, name)
	}
	return out
}

func example(prompt, code string, rating int) site.TrainingExample {
	return site.TrainingExample{
		Prompt:        prompt,
		GeneratedCode: code,
		Feedback:      rating,
		Performance:   site.Performance{LoadTime: 1.2, Accessibility: 100, SEO: 100},
	}
}

func TestGenerateSelectsSections(t *testing.T) {
	s := newSynthesizer(t)

	tests := []struct {
		prompt string
		want   []string
	}{
		{prompt: "Create a modern landing page", want: []string{"hero", "features", "cta", "footer"}},
		{prompt: "Admin dashboard with analytics", want: []string{"sidebar", "stats", "table", "footer"}},
		{prompt: "SaaS pricing plans", want: []string{"features", "pricing", "footer"}},
		{prompt: "something else entirely", want: []string{"hero", "features", "cta", "footer"}},
	}

	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			code, err := s.Generate(context.Background(), tt.prompt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sectionOrder(code))
			assert.Contains(t, code, "className=")
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	s := newSynthesizer(t)

	first, err := s.Generate(context.Background(), "Create a modern landing page")
	require.NoError(t, err)
	second, err := s.Generate(context.Background(), "Create a modern landing page")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateEscapesTitle(t *testing.T) {
	s := newSynthesizer(t)

	code, err := s.Generate(context.Background(), `landing <script>alert("x")</script>`)
	require.NoError(t, err)
	assert.NotContains(t, code, "<script>")
	assert.Contains(t, code, "&lt;script&gt;")
}

func TestGenerateFailures(t *testing.T) {
	t.Run("canceled context", func(t *testing.T) {
		s := newSynthesizer(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.Generate(ctx, "landing")
		require.Error(t, err)
		assert.True(t, IsSynthesisError(err))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("closed", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())

		_, err := s.Generate(context.Background(), "landing")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestRecordFeedbackValidation(t *testing.T) {
	s := newSynthesizer(t)

	tests := []struct {
		name    string
		example site.TrainingExample
	}{
		{name: "rating too low", example: example("landing", "", 0)},
		{name: "rating too high", example: example("landing", "", 6)},
		{name: "missing prompt", example: example("", "", 3)},
		{name: "accessibility out of range", example: site.TrainingExample{
			Prompt: "landing", Feedback: 3, Performance: site.Performance{Accessibility: 140},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.RecordFeedback(context.Background(), tt.example)
			require.Error(t, err)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}

	assert.Equal(t, 0, s.Len())
}

func TestRecordFeedbackConcurrent(t *testing.T) {
	store := &recordingStore{}
	s := newSynthesizer(t, WithCorpusStore(store))

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.RecordFeedback(context.Background(), example("landing", "", i%5+1)))
		}(i)
	}
	wg.Wait()

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, n, s.Len())
	assert.Len(t, store.last(), n)

	ids := make(map[string]bool)
	for _, ex := range s.Corpus() {
		assert.NotEmpty(t, ex.ID)
		assert.False(t, ex.RecordedAt.IsZero())
		ids[ex.ID] = true
	}
	assert.Len(t, ids, n)
}

func TestRecordFeedbackSwallowsUpdateFailure(t *testing.T) {
	store := &recordingStore{err: errors.New("disk full")}
	s := newSynthesizer(t, WithCorpusStore(store))

	err := s.RecordFeedback(context.Background(), example("landing", `data-section="pricing"`, 5))
	require.NoError(t, err)
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, 1, s.Len())
	assert.Len(t, store.last(), 1)
	assert.InDelta(t, 1.0, s.Weights()["pricing"], 1e-9)
}

func TestFeedbackChangesGeneration(t *testing.T) {
	s := newSynthesizer(t)
	ctx := context.Background()

	require.NoError(t, s.RecordFeedback(ctx, example("a", `<section data-section="pricing">`, 5)))
	require.NoError(t, s.RecordFeedback(ctx, example("b", `<section data-section="features">`, 1)))
	require.NoError(t, s.Flush(ctx))

	code, err := s.Generate(ctx, "Create a modern landing page")
	require.NoError(t, err)
	assert.Equal(t, []string{"hero", "pricing", "cta", "footer"}, sectionOrder(code))

	// naming a section keeps it even with a poor weight
	code, err = s.Generate(ctx, "landing page with features")
	require.NoError(t, err)
	assert.Equal(t, []string{"hero", "pricing", "cta", "features", "footer"}, sectionOrder(code))
}

func TestRecordFeedbackAfterClose(t *testing.T) {
	s := New()
	require.NoError(t, s.Close())

	require.NoError(t, s.RecordFeedback(context.Background(), example("landing", "", 4)))
	assert.Equal(t, 1, s.Len())
	assert.NoError(t, s.Flush(context.Background()))
}

func TestSeededCorpusWeights(t *testing.T) {
	s := newSynthesizer(t, WithCorpus([]site.TrainingExample{
		example("a", `data-section="testimonials"`, 4),
		{Prompt: "b", GeneratedCode: `data-section="testimonials"`, Feedback: 2},
	}))

	assert.Equal(t, 2, s.Len())
	assert.InDelta(t, 0.6, s.Weights()["testimonials"], 1e-9)
}
