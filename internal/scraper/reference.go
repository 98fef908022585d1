package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/dotcommander/sitegen/internal/domain/design"
)

var errUnknownReference = errors.New("no reference profile for host")

// ReferenceSource serves canonical design profiles for well-known reference
// sites without touching the network. Unknown hosts are unreachable.
type ReferenceSource struct {
	profiles map[string]func() *design.ScrapedDesign
	logger   *slog.Logger
}

// NewReferenceSource creates a source with the built-in profiles
func NewReferenceSource(logger *slog.Logger) *ReferenceSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReferenceSource{
		profiles: map[string]func() *design.ScrapedDesign{
			"stripe.com": stripeProfile,
			"vercel.com": vercelProfile,
			"linear.app": linearProfile,
		},
		logger: logger.With("component", "reference_source"),
	}
}

// Register adds or replaces the profile served for host
func (s *ReferenceSource) Register(host string, profile func() *design.ScrapedDesign) {
	s.profiles[normalizeHost(host)] = profile
}

// Hosts lists the hosts with a registered profile
func (s *ReferenceSource) Hosts() []string {
	hosts := make([]string, 0, len(s.profiles))
	for h := range s.profiles {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

func (s *ReferenceSource) Scrape(ctx context.Context, rawURL string) (*design.ScrapedDesign, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewFetchError(rawURL, err)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, NewFetchError(rawURL, errInvalidURL)
	}

	profile, ok := s.profiles[normalizeHost(parsed.Host)]
	if !ok {
		s.logger.Debug("reference profile missing", "url", rawURL)
		return nil, NewFetchError(rawURL, errUnknownReference)
	}

	d := profile()
	d.URL = rawURL
	return d, nil
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	return strings.TrimPrefix(host, "www.")
}

// baseProfile is the canonical reference design every profile starts from
func baseProfile() *design.ScrapedDesign {
	return &design.ScrapedDesign{
		HTML: `<div class="hero">...</div>`,
		CSS:  ".hero { ... }",
		Colors: design.Colors{
			Primary:   []string{"#6366F1", "#4F46E5"},
			Secondary: []string{"#2DD4BF", "#14B8A6"},
			Accent:    []string{"#F43F5E", "#E11D48"},
			Neutral:   []string{"#1F2937", "#374151", "#6B7280"},
			Gradients: []design.Gradient{
				{From: "#6366F1", To: "#2DD4BF", Direction: "to-br"},
			},
		},
		Typography: design.Typography{
			Fonts: []string{"Inter", "Outfit"},
			Headings: design.HeadingScale{
				Sizes:       map[string]string{"h1": "3.5rem", "h2": "2.5rem", "h3": "2rem", "h4": "1.5rem"},
				LineHeights: map[string]string{"h1": "1.2", "h2": "1.3", "h3": "1.4", "h4": "1.5"},
				FontWeights: map[string]int{"h1": 700, "h2": 600, "h3": 600, "h4": 500},
			},
			Body: design.BodyScale{
				Sizes:       map[string]string{"base": "1rem", "lg": "1.125rem", "sm": "0.875rem"},
				LineHeights: map[string]string{"base": "1.5", "lg": "1.6", "sm": "1.4"},
			},
		},
		Spacing: design.Spacing{
			Padding: []string{"1rem", "1.5rem", "2rem", "3rem"},
			Margin:  []string{"0.5rem", "1rem", "1.5rem", "2rem"},
			Gap:     []string{"0.5rem", "1rem", "1.5rem"},
			Layout: design.SpacingLayout{
				ContainerWidth:   "1280px",
				SectionSpacing:   "4rem",
				ComponentSpacing: "1.5rem",
			},
		},
		Components: []design.Component{heroComponent()},
		Layout: design.Layout{
			Type:           "grid",
			GridSystem:     "flexbox-grid",
			ContainerWidth: "max-w-7xl",
			Breakpoints: map[string]design.Breakpoint{
				"sm": {Width: "640px", Columns: 4, Gap: "1rem"},
				"md": {Width: "768px", Columns: 8, Gap: "1.5rem"},
				"lg": {Width: "1024px", Columns: 12, Gap: "2rem"},
				"xl": {Width: "1280px", Columns: 12, Gap: "2.5rem"},
			},
			Sections: []design.Section{
				{Type: "hero", Layout: "split", Spacing: "4rem"},
				{Type: "features", Layout: "grid", Spacing: "3rem"},
				{Type: "testimonials", Layout: "carousel", Spacing: "2rem"},
			},
		},
		Animations: []design.Animation{
			{
				Type:       "fade-in",
				Properties: []string{"opacity", "transform"},
				Timing:     "cubic-bezier(0.4, 0, 0.2, 1)",
				Trigger:    "on-scroll",
				Variants: []design.AnimationVariant{
					{Name: "slow", Properties: map[string]string{"duration": "1s", "delay": "0.2s"}},
					{Name: "fast", Properties: map[string]string{"duration": "0.3s", "delay": "0s"}},
				},
			},
		},
		Patterns: design.Patterns{
			Navigation: design.NavigationPattern{Type: "sticky-header", Position: "top", Style: "glass-morphism"},
			Cards:      design.CardPattern{Style: "glass-morphism", Shadow: "lg", Border: "rounded-lg"},
			Buttons: design.ButtonPattern{
				Variants: []string{"primary", "secondary", "outline", "ghost"},
				Sizes:    []string{"sm", "md", "lg"},
				Styles: map[string]string{
					"primary":   "bg-primary hover:bg-primary-dark",
					"secondary": "bg-secondary hover:bg-secondary-dark",
				},
			},
			Forms: design.FormPattern{
				Layout:      "stacked",
				FieldStyles: "glass-morphism",
				Validation:  []string{"required", "pattern", "minLength"},
			},
		},
	}
}

func heroComponent() design.Component {
	return design.Component{
		Type:   "hero",
		HTML:   `<section class="hero">...</section>`,
		Styles: ".hero { ... }",
		Variants: []design.ComponentVariant{
			{Name: "centered", Styles: ".hero--centered { ... }"},
			{Name: "split", Styles: ".hero--split { ... }"},
		},
		Attributes: design.ComponentAttributes{
			Accessibility: []string{"aria-label", "role"},
			Animation: []design.Animation{
				{
					Type:       "fade-in",
					Properties: []string{"opacity", "transform"},
					Timing:     "cubic-bezier(0.4, 0, 0.2, 1)",
					Trigger:    "on-scroll",
				},
			},
			Responsive: &design.Responsive{
				Breakpoints: []string{"sm", "md", "lg"},
				Styles: map[string]string{
					"sm": ".hero--sm { ... }",
					"md": ".hero--md { ... }",
					"lg": ".hero--lg { ... }",
				},
			},
			Interactions: []design.Interaction{
				{Type: "hover", Styles: "transform: scale(1.05)", Trigger: "mouseenter"},
			},
		},
	}
}

// simpleComponent describes a component observed without extra attributes
func simpleComponent(kind string) design.Component {
	return design.Component{
		Type:   kind,
		HTML:   `<div class="` + kind + `">...</div>`,
		Styles: "." + kind + " { ... }",
	}
}

func stripeProfile() *design.ScrapedDesign {
	d := baseProfile()
	d.Components = append(d.Components,
		simpleComponent("sticky-header"),
		simpleComponent("gradient-buttons"),
		simpleComponent("feature-grid"),
	)
	d.Interactions = []design.InteractionStat{
		{Type: "hover-scale", Frequency: 0.8, Implementation: "transform: scale(1.05)"},
		{Type: "smooth-fade", Frequency: 0.9, Implementation: "transition: opacity 0.3s ease-in-out"},
	}
	return d
}

func vercelProfile() *design.ScrapedDesign {
	d := baseProfile()
	d.Colors.Primary = []string{"#3B82F6", "#2563EB"}
	d.Colors.Secondary = []string{"#10B981", "#059669"}
	d.Colors.Gradients = []design.Gradient{{From: "#3B82F6", To: "#10B981", Direction: "to-r"}}
	d.Typography.Fonts = []string{"Geist", "Inter"}
	d.Layout.Type = "split-screen"
	d.Components = append(d.Components,
		simpleComponent("glassmorphic-cards"),
		simpleComponent("floating-labels"),
		simpleComponent("pricing-table"),
		simpleComponent("cta-section"),
	)
	d.Interactions = []design.InteractionStat{
		{Type: "hover-scale", Frequency: 0.8, Implementation: "transform: scale(1.05)"},
		{Type: "smooth-fade", Frequency: 1.0, Implementation: "transition: opacity 0.3s ease-in-out"},
	}
	return d
}

func linearProfile() *design.ScrapedDesign {
	d := baseProfile()
	d.Colors.Primary = []string{"#8B5CF6", "#7C3AED"}
	d.Colors.Secondary = []string{"#EC4899", "#DB2777"}
	d.Colors.Gradients = []design.Gradient{{From: "#8B5CF6", To: "#EC4899", Direction: "to-br"}}
	d.Layout.Type = "sidebar-layout"
	d.Components = []design.Component{
		simpleComponent("hero-with-image"),
		simpleComponent("testimonial-carousel"),
		simpleComponent("stat-cards"),
		simpleComponent("cta-section"),
	}
	d.Interactions = []design.InteractionStat{
		{Type: "scroll-reveal", Frequency: 0.7, Implementation: "opacity: 0; transform: translateY(20px);"},
		{Type: "smooth-fade", Frequency: 0.8, Implementation: "transition: opacity 0.3s ease-in-out"},
	}
	return d
}
