package design

// DesignSystem is a canonical set of design tokens
type DesignSystem struct {
	Typography   SystemTypography  `json:"typography"`
	Colors       SystemColors      `json:"colors"`
	Shadows      map[string]string `json:"shadows"`
	BorderRadius map[string]string `json:"border_radius"`
	Spacing      map[string]string `json:"spacing"`
	Breakpoints  map[string]string `json:"breakpoints"`
}

type SystemTypography struct {
	FontFamily  string            `json:"font_family"`
	Scale       map[string]string `json:"scale"`
	LineHeight  map[string]string `json:"line_height"`
	FontWeights map[string]int    `json:"font_weights"`
}

type SystemColors struct {
	Primary   []string       `json:"primary"`
	Secondary []string       `json:"secondary"`
	Accent    []string       `json:"accent"`
	Neutral   []string       `json:"neutral"`
	Semantic  SemanticColors `json:"semantic"`
}

type SemanticColors struct {
	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
	Info    string `json:"info"`
}

// InteractionPattern is an aggregated interaction statistic across sources
type InteractionPattern struct {
	Type           string  `json:"type"`
	Frequency      float64 `json:"frequency"`
	Implementation string  `json:"implementation"`
}

// TrendReport aggregates scraped designs across reference sites
type TrendReport struct {
	PopularComponents   []string             `json:"popular_components"`
	ColorSchemes        [][2]string          `json:"color_schemes"`
	LayoutPatterns      []string             `json:"layout_patterns"`
	DesignSystems       []DesignSystem       `json:"design_systems"`
	InteractionPatterns []InteractionPattern `json:"interaction_patterns"`

	// Sources lists the URLs that contributed, in input order
	Sources []string `json:"sources"`
	// Failures maps skipped URLs to the reason they were skipped
	Failures map[string]string `json:"failures,omitempty"`
}

// PrimarySystem returns the first design system, if any
func (r *TrendReport) PrimarySystem() *DesignSystem {
	if r == nil || len(r.DesignSystems) == 0 {
		return nil
	}
	return &r.DesignSystems[0]
}

// CanonicalSystem returns the baseline token set that scraped designs are
// completed with. Each call returns fresh maps.
func CanonicalSystem() DesignSystem {
	return DesignSystem{
		Typography: SystemTypography{
			FontFamily: "Inter",
			Scale: map[string]string{
				"xs":   "0.75rem",
				"sm":   "0.875rem",
				"base": "1rem",
				"lg":   "1.125rem",
				"xl":   "1.25rem",
				"2xl":  "1.5rem",
				"3xl":  "1.875rem",
				"4xl":  "2.25rem",
			},
			LineHeight: map[string]string{
				"tight":   "1.25",
				"normal":  "1.5",
				"relaxed": "1.75",
			},
			FontWeights: map[string]int{
				"normal":   400,
				"medium":   500,
				"semibold": 600,
				"bold":     700,
			},
		},
		Colors: SystemColors{
			Primary:   []string{"#6366F1", "#4F46E5"},
			Secondary: []string{"#2DD4BF", "#14B8A6"},
			Accent:    []string{"#F43F5E", "#E11D48"},
			Neutral:   []string{"#1F2937", "#374151", "#6B7280"},
			Semantic: SemanticColors{
				Success: "#10B981",
				Warning: "#F59E0B",
				Error:   "#EF4444",
				Info:    "#3B82F6",
			},
		},
		Shadows: map[string]string{
			"sm":      "0 1px 2px 0 rgb(0 0 0 / 0.05)",
			"DEFAULT": "0 1px 3px 0 rgb(0 0 0 / 0.1), 0 1px 2px -1px rgb(0 0 0 / 0.1)",
			"md":      "0 4px 6px -1px rgb(0 0 0 / 0.1), 0 2px 4px -2px rgb(0 0 0 / 0.1)",
			"lg":      "0 10px 15px -3px rgb(0 0 0 / 0.1), 0 4px 6px -4px rgb(0 0 0 / 0.1)",
		},
		BorderRadius: map[string]string{
			"none":    "0",
			"sm":      "0.125rem",
			"DEFAULT": "0.25rem",
			"md":      "0.375rem",
			"lg":      "0.5rem",
			"full":    "9999px",
		},
		Spacing: map[string]string{
			"0":  "0",
			"1":  "0.25rem",
			"2":  "0.5rem",
			"3":  "0.75rem",
			"4":  "1rem",
			"5":  "1.25rem",
			"6":  "1.5rem",
			"8":  "2rem",
			"10": "2.5rem",
			"12": "3rem",
			"16": "4rem",
		},
		Breakpoints: map[string]string{
			"sm":  "640px",
			"md":  "768px",
			"lg":  "1024px",
			"xl":  "1280px",
			"2xl": "1536px",
		},
	}
}
