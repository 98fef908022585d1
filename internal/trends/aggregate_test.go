package trends

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dotcommander/sitegen/internal/domain/design"
)

func TestAggregateDeduplicatesComponents(t *testing.T) {
	designs := []*design.ScrapedDesign{
		{URL: "a", Components: []design.Component{{Type: "hero"}, {Type: "cta"}}},
		{URL: "b", Components: []design.Component{{Type: "cta"}, {Type: "footer"}, {Type: "hero"}}},
	}

	report := Aggregate(designs)
	assert.Equal(t, []string{"hero", "cta", "footer"}, report.PopularComponents)
}

func TestAggregateInteractionFrequencies(t *testing.T) {
	designs := []*design.ScrapedDesign{
		{URL: "a", Interactions: []design.InteractionStat{
			{Type: "hover-scale", Frequency: 0.6, Implementation: "first"},
		}},
		{URL: "b", Interactions: []design.InteractionStat{
			{Type: "smooth-fade", Frequency: 0.5, Implementation: "fade"},
			{Type: "hover-scale", Frequency: 1.0, Implementation: "second"},
		}},
	}

	report := Aggregate(designs)

	assert.Equal(t, "hover-scale", report.InteractionPatterns[0].Type)
	assert.InDelta(t, 0.8, report.InteractionPatterns[0].Frequency, 1e-9)
	assert.Equal(t, "first", report.InteractionPatterns[0].Implementation)

	assert.Equal(t, "smooth-fade", report.InteractionPatterns[1].Type)
	assert.InDelta(t, 0.5, report.InteractionPatterns[1].Frequency, 1e-9)
}

func TestAggregateKeepsDuplicateColorSchemes(t *testing.T) {
	colors := design.Colors{Primary: []string{"#111111"}, Secondary: []string{"#222222"}}
	designs := []*design.ScrapedDesign{
		{URL: "a", Colors: colors},
		{URL: "b", Colors: colors},
		{URL: "c", Colors: design.Colors{Primary: []string{"#333333"}}},
		{URL: "d"},
	}

	report := Aggregate(designs)
	assert.Equal(t, [][2]string{
		{"#111111", "#222222"},
		{"#111111", "#222222"},
		{"#333333", ""},
		{"", ""},
	}, report.ColorSchemes)
	assert.Len(t, report.ColorSchemes, len(report.Sources))
	assert.Len(t, report.DesignSystems, 4)
}

func TestSystemFor(t *testing.T) {
	d := &design.ScrapedDesign{
		Colors: design.Colors{Primary: []string{"#3B82F6"}},
		Typography: design.Typography{
			Fonts:    []string{"Geist"},
			Headings: design.HeadingScale{Sizes: map[string]string{"h1": "4rem"}},
			Body:     design.BodyScale{LineHeights: map[string]string{"base": "1.6"}},
		},
		Layout: design.Layout{Breakpoints: map[string]design.Breakpoint{"md": {Width: "800px"}}},
	}

	sys := SystemFor(d)
	canonical := design.CanonicalSystem()

	assert.Equal(t, "Geist", sys.Typography.FontFamily)
	assert.Equal(t, "4rem", sys.Typography.Scale["4xl"])
	assert.Equal(t, "1.6", sys.Typography.LineHeight["normal"])
	assert.Equal(t, []string{"#3B82F6"}, sys.Colors.Primary)
	assert.Equal(t, canonical.Colors.Secondary, sys.Colors.Secondary)
	assert.Equal(t, canonical.Colors.Semantic, sys.Colors.Semantic)
	assert.Equal(t, "800px", sys.Breakpoints["md"])
	assert.Equal(t, canonical.Shadows, sys.Shadows)
}
