package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/sitegen/internal/domain/design"
)

func TestReferenceSourceProfiles(t *testing.T) {
	src := NewReferenceSource(nil)

	tests := []struct {
		url            string
		wantPrimary    string
		wantSecondary  string
		wantLayout     string
		wantComponents []string
	}{
		{
			url:            "https://stripe.com",
			wantPrimary:    "#6366F1",
			wantSecondary:  "#2DD4BF",
			wantLayout:     "grid",
			wantComponents: []string{"hero", "sticky-header", "gradient-buttons", "feature-grid"},
		},
		{
			url:            "https://www.vercel.com:443/",
			wantPrimary:    "#3B82F6",
			wantSecondary:  "#10B981",
			wantLayout:     "split-screen",
			wantComponents: []string{"hero", "glassmorphic-cards", "floating-labels", "pricing-table", "cta-section"},
		},
		{
			url:            "https://LINEAR.app/features",
			wantPrimary:    "#8B5CF6",
			wantSecondary:  "#EC4899",
			wantLayout:     "sidebar-layout",
			wantComponents: []string{"hero-with-image", "testimonial-carousel", "stat-cards", "cta-section"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			d, err := src.Scrape(context.Background(), tt.url)
			require.NoError(t, err)

			assert.Equal(t, tt.url, d.URL)
			assert.Equal(t, tt.wantPrimary, d.Colors.Primary[0])
			assert.Equal(t, tt.wantSecondary, d.Colors.Secondary[0])
			assert.Equal(t, tt.wantLayout, d.Layout.Type)
			assert.Equal(t, tt.wantComponents, d.ComponentTypes())
			assert.NotEmpty(t, d.Interactions)
		})
	}
}

func TestReferenceSourceUnknownHost(t *testing.T) {
	src := NewReferenceSource(nil)

	_, err := src.Scrape(context.Background(), "https://unknown.example")
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
	assert.ErrorIs(t, err, errUnknownReference)

	_, err = src.Scrape(context.Background(), "not a url")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestReferenceSourceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReferenceSource(nil).Scrape(ctx, "https://stripe.com")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestReferenceSourceReturnsFreshDesigns(t *testing.T) {
	src := NewReferenceSource(nil)

	first, err := src.Scrape(context.Background(), "https://stripe.com")
	require.NoError(t, err)
	first.Colors.Primary[0] = "#000000"
	first.Components = nil

	second, err := src.Scrape(context.Background(), "https://stripe.com")
	require.NoError(t, err)
	assert.Equal(t, "#6366F1", second.Colors.Primary[0])
	assert.Len(t, second.Components, 4)
}

func TestReferenceSourceRegister(t *testing.T) {
	src := NewReferenceSource(nil)
	src.Register("www.Acme.test", func() *design.ScrapedDesign {
		d := baseProfile()
		d.Layout.Type = "masonry"
		return d
	})

	assert.Equal(t, []string{"acme.test", "linear.app", "stripe.com", "vercel.com"}, src.Hosts())

	d, err := src.Scrape(context.Background(), "https://acme.test")
	require.NoError(t, err)
	assert.Equal(t, "masonry", d.Layout.Type)
}
