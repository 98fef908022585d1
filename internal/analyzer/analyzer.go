// Package analyzer classifies a prompt and resolves its customizations.
package analyzer

import (
	"strings"

	"github.com/dotcommander/sitegen/internal/domain/site"
	"github.com/dotcommander/sitegen/internal/orderedset"
)

// landingKeywords select the landing archetype when present as whole words
var landingKeywords = []string{"landing", "homepage"}

// DefaultColors is the palette named in every customization
var DefaultColors = []string{"purple", "teal"}

const (
	DefaultLayout = "modern"
	DefaultStyle  = "glass-morphism"
)

// Classify returns landing when the prompt names a landing page or homepage
// and dashboard otherwise. The custom archetype is never selected.
func Classify(prompt string) site.Archetype {
	for _, word := range strings.Fields(strings.ToLower(prompt)) {
		for _, kw := range landingKeywords {
			if word == kw {
				return site.ArchetypeLanding
			}
		}
	}
	return site.ArchetypeDashboard
}

// Analyze combines the prompt classification with the features and
// components suggested by the merged generation response
func Analyze(prompt string, llm site.LLMResponse) site.AIResponse {
	return site.AIResponse{
		Archetype: Classify(prompt),
		Customization: site.Customization{
			Colors:     append([]string(nil), DefaultColors...),
			Layout:     DefaultLayout,
			Features:   orderedset.Union(llm.Features),
			Components: orderedset.Union(llm.Components),
			Style:      DefaultStyle,
		},
	}
}
