package styling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dotcommander/sitegen/internal/domain/design"
)

const page = `<div className="site" data-generator="sitegen">
  <section className="hero" data-section="hero">
    <h1 className="hero-title text-4xl">Title</h1>
    <img src="/logo.png" alt="" />
    <button className="btn btn-primary" onClick={handleClick}>Go</button>
  </section>
  <section className="features" data-section="features">
    <div className="feature-card"><p>Fast</p></div>
  </section>
</div>
`

func canonical() *design.DesignSystem {
	ds := design.CanonicalSystem()
	return &ds
}

func hoverScale(freq float64) []design.InteractionPattern {
	return []design.InteractionPattern{{Type: "hover-scale", Frequency: freq, Implementation: "transform: scale(1.05)"}}
}

func TestApplyEmptyConfigIsIdentity(t *testing.T) {
	inputs := []string{"", page, "plain text", `<p class="x">html</p>`}
	for _, in := range inputs {
		assert.Equal(t, in, Apply(in, Config{}))
	}
}

func TestApplyTypography(t *testing.T) {
	out := Apply(page, Config{DesignSystem: canonical()})

	assert.Contains(t, out, `<h1 className="hero-title text-4xl font-bold leading-tight text-neutral-900">`)
	assert.Contains(t, out, "font-[Inter]")
	assert.Contains(t, out, `<p className="text-base leading-normal">`)
	assert.Equal(t, 1, strings.Count(out, "text-4xl"))
}

func TestApplyColors(t *testing.T) {
	out := Apply(page, Config{DesignSystem: canonical()})

	assert.Contains(t, out, `data-primary="#6366F1"`)
	assert.Contains(t, out, `data-secondary="#2DD4BF"`)
	assert.Contains(t, out, `<button className="btn btn-primary bg-primary text-white hover:bg-primary-dark" onClick={handleClick}>`)
}

func TestApplyLayout(t *testing.T) {
	layout := &design.Layout{Type: "grid", ContainerWidth: "max-w-7xl"}
	out := Apply(page, Config{Layout: layout})

	assert.Contains(t, out, `<section className="hero" data-section="hero" data-layout="grid">`)
	assert.Contains(t, out, `<section className="features grid gap-6 md:grid-cols-3" data-section="features" data-layout="grid">`)
	assert.Contains(t, out, `<div className="site mx-auto max-w-7xl" data-generator="sitegen">`)
}

func TestApplyAnimations(t *testing.T) {
	anims := []design.Animation{{Type: "fade-in", Trigger: "on-scroll"}}
	out := Apply(page, Config{Animations: anims})

	assert.Contains(t, out, `<section className="hero animate-fade-in" data-section="hero" data-animate="scroll">`)
	assert.NotContains(t, out, `<h1 className="hero-title text-4xl animate-fade-in"`)
}

func TestApplyInteractionsDependOnLayout(t *testing.T) {
	t.Run("without layout only buttons", func(t *testing.T) {
		out := Apply(page, Config{Interactions: hoverScale(0.8)})

		assert.Contains(t, out, `<button className="btn btn-primary transition-transform hover:scale-105"`)
		assert.Contains(t, out, `<section className="hero" data-section="hero">`)
	})

	t.Run("with layout sections too", func(t *testing.T) {
		out := Apply(page, Config{
			Interactions: hoverScale(0.8),
			Layout:       &design.Layout{Type: "split-screen"},
		})

		assert.Contains(t, out, `<section className="hero grid md:grid-cols-2 items-center transition-transform hover:scale-105" data-section="hero" data-layout="split-screen">`)
	})

	t.Run("rare interactions skipped", func(t *testing.T) {
		out := Apply(page, Config{Interactions: hoverScale(0.2)})
		assert.Equal(t, page, out)
	})
}

func TestApplyPreservesUntouchedTags(t *testing.T) {
	out := Apply(page, Config{
		DesignSystem: canonical(),
		Layout:       &design.Layout{Type: "grid"},
		Animations:   []design.Animation{{Type: "fade-in"}},
		Interactions: hoverScale(0.9),
	})

	assert.Contains(t, out, `<img src="/logo.png" alt="" />`)
	assert.Contains(t, out, `<div className="feature-card">`)
	assert.Contains(t, out, "onClick={handleClick}")
}

func TestApplyIsIdempotent(t *testing.T) {
	cfg := Config{
		DesignSystem: canonical(),
		Layout:       &design.Layout{Type: "grid"},
		Animations:   []design.Animation{{Type: "fade-in", Trigger: "on-scroll"}},
		Interactions: hoverScale(0.9),
	}

	once := Apply(page, cfg)
	assert.Equal(t, once, Apply(once, cfg))
}

func TestApplyHTMLClassAttribute(t *testing.T) {
	in := `<main class="site"><h2 class="title">Hi</h2></main>`
	out := Apply(in, Config{DesignSystem: canonical()})

	assert.Contains(t, out, `<h2 class="title text-3xl font-semibold leading-tight text-neutral-900">`)
	assert.NotContains(t, out, "className")
}

func TestApplyKeepsAttributeQuoting(t *testing.T) {
	in := `<main class="site"><h2 class="title" title='Say "hi"' data-note="it's">Hi</h2></main>`
	out := Apply(in, Config{DesignSystem: canonical()})

	assert.Contains(t, out, `<h2 class="title text-3xl font-semibold leading-tight text-neutral-900" title='Say "hi"' data-note="it's">`)
}

func TestRenderEscapesQuotes(t *testing.T) {
	tests := []struct {
		name string
		attr attribute
		want string
	}{
		{name: "double", attr: attribute{key: "title", value: `a "b"`, quote: '"'}, want: `<p title="a &quot;b&quot;">`},
		{name: "single", attr: attribute{key: "title", value: `it's`, quote: '\''}, want: `<p title='it&#39;s'>`},
		{name: "added", attr: attribute{key: "title", value: `x"y`}, want: `<p title="x&quot;y">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := &element{name: "p", attrs: []attribute{tt.attr}}
			assert.Equal(t, tt.want, el.render())
		})
	}
}
