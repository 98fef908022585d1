package site

import (
	"sort"
	"time"
)

// Archetype is the coarse site category that drives template selection
type Archetype string

const (
	ArchetypeLanding   Archetype = "landing"
	ArchetypeDashboard Archetype = "dashboard"
	ArchetypeCustom    Archetype = "custom"
)

// Baseline feature flags
const (
	FeatureAuthentication   = "authentication"
	FeatureDarkMode         = "dark-mode"
	FeatureResponsiveDesign = "responsive-design"
)

// LLMResponse is synthesizer output merged with scraped and trend data
type LLMResponse struct {
	HTML       string   `json:"html"`
	CSS        string   `json:"css"`
	StyledHTML string   `json:"styled_html,omitempty"`
	Components []string `json:"components"`
	Features   []string `json:"features"`
}

// Customization holds the overrides resolved for a request
type Customization struct {
	Colors     []string `json:"colors,omitempty"`
	Layout     string   `json:"layout,omitempty"`
	Features   []string `json:"features,omitempty"`
	Components []string `json:"components,omitempty"`
	Style      string   `json:"style,omitempty"`
}

// HasFeature reports whether the feature flag is present
func (c Customization) HasFeature(feature string) bool {
	for _, f := range c.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// AIResponse is the prompt analysis result
type AIResponse struct {
	Archetype     Archetype     `json:"type"`
	Customization Customization `json:"customizations"`
}

// FileSet maps forward-slash relative paths to file content
type FileSet map[string]string

// Clone returns an independent copy
func (fs FileSet) Clone() FileSet {
	out := make(FileSet, len(fs))
	for path, content := range fs {
		out[path] = content
	}
	return out
}

// Merge copies other into fs, overwriting colliding paths
func (fs FileSet) Merge(other FileSet) {
	for path, content := range other {
		fs[path] = content
	}
}

// Paths returns the file paths in lexical order
func (fs FileSet) Paths() []string {
	paths := make([]string, 0, len(fs))
	for path := range fs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Performance is the measured quality of a generated site
type Performance struct {
	LoadTime      float64 `json:"load_time" yaml:"load_time" validate:"gte=0"`
	Accessibility float64 `json:"accessibility" yaml:"accessibility" validate:"gte=0,lte=100"`
	SEO           float64 `json:"seo" yaml:"seo" validate:"gte=0,lte=100"`
}

// TrainingExample is one recorded feedback tuple
type TrainingExample struct {
	ID            string      `json:"id" yaml:"id"`
	Prompt        string      `json:"prompt" yaml:"prompt" validate:"required"`
	GeneratedCode string      `json:"generated_code" yaml:"generated_code"`
	Feedback      int         `json:"feedback" yaml:"feedback" validate:"min=1,max=5"`
	Performance   Performance `json:"performance" yaml:"performance"`
	RecordedAt    time.Time   `json:"recorded_at" yaml:"recorded_at"`
}
