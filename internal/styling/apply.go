// Package styling applies a design system to generated markup.
package styling

import (
	"strings"

	"github.com/dotcommander/sitegen/internal/domain/design"
)

// Config selects what Apply changes. A nil or empty field skips its step.
type Config struct {
	DesignSystem *design.DesignSystem
	Interactions []design.InteractionPattern
	Animations   []design.Animation
	Layout       *design.Layout
}

// MinInteractionFrequency is the share of reference sites an interaction
// must appear on before it is applied
const MinInteractionFrequency = 0.5

// Apply runs typography, color, layout, animation and interaction steps in
// that order. Apply(code, Config{}) returns code unchanged.
func Apply(code string, cfg Config) string {
	if cfg.DesignSystem != nil {
		code = applyTypography(code, cfg.DesignSystem.Typography)
		code = applyColors(code, cfg.DesignSystem.Colors)
	}
	if cfg.Layout != nil {
		code = applyLayout(code, *cfg.Layout)
	}
	if len(cfg.Animations) > 0 {
		code = applyAnimations(code, cfg.Animations)
	}
	if len(cfg.Interactions) > 0 {
		code = applyInteractions(code, cfg.Interactions)
	}
	return code
}

var headingClasses = map[string][]string{
	"h1": {"text-4xl", "font-bold", "leading-tight"},
	"h2": {"text-3xl", "font-semibold", "leading-tight"},
	"h3": {"text-2xl", "font-semibold"},
	"p":  {"text-base", "leading-normal"},
}

func isRoot(el *element) bool {
	_, ok := el.get("data-generator")
	return ok || el.hasClass("site")
}

func applyTypography(code string, t design.SystemTypography) string {
	return rewrite(code, func(el *element) {
		if isRoot(el) {
			el.addClass("font-sans", "antialiased")
			if t.FontFamily != "" {
				el.addClass("font-[" + strings.ReplaceAll(t.FontFamily, " ", "_") + "]")
			}
			return
		}
		if classes, ok := headingClasses[el.name]; ok {
			el.addClass(classes...)
		}
	})
}

func applyColors(code string, c design.SystemColors) string {
	if len(c.Primary) == 0 && len(c.Secondary) == 0 && len(c.Neutral) == 0 {
		return code
	}
	return rewrite(code, func(el *element) {
		switch {
		case isRoot(el):
			el.addClass("bg-white", "text-neutral-900")
			if len(c.Primary) > 0 {
				el.set("data-primary", c.Primary[0])
			}
			if len(c.Secondary) > 0 {
				el.set("data-secondary", c.Secondary[0])
			}
		case el.hasClass("btn-primary"):
			el.addClass("bg-primary", "text-white", "hover:bg-primary-dark")
		case el.hasClass("btn-secondary"):
			el.addClass("bg-secondary", "text-white", "hover:bg-secondary-dark")
		case el.name == "h1" || el.name == "h2":
			el.addClass("text-neutral-900")
		}
	})
}

// gridSections lay their cards out in columns on grid layouts
var gridSections = map[string]bool{
	"features": true,
	"pricing":  true,
	"stats":    true,
}

func applyLayout(code string, l design.Layout) string {
	layoutType := l.Type
	if layoutType == "" {
		layoutType = "block"
	}
	container := containerClass(l.ContainerWidth)

	return rewrite(code, func(el *element) {
		if isRoot(el) {
			el.addClass("mx-auto", container)
			if layoutType == "sidebar-layout" {
				el.addClass("flex")
			}
			return
		}
		name, ok := el.get("data-section")
		if !ok {
			return
		}
		el.set("data-layout", layoutType)
		if strings.Contains(layoutType, "grid") && gridSections[name] {
			el.addClass("grid", "gap-6", "md:grid-cols-3")
		}
		if strings.Contains(layoutType, "split") && name == "hero" {
			el.addClass("grid", "md:grid-cols-2", "items-center")
		}
	})
}

func containerClass(width string) string {
	switch {
	case width == "":
		return "max-w-7xl"
	case strings.HasPrefix(width, "max-w-"):
		return width
	default:
		return "max-w-[" + width + "]"
	}
}

func applyAnimations(code string, animations []design.Animation) string {
	return rewrite(code, func(el *element) {
		if _, ok := el.get("data-section"); !ok {
			return
		}
		for _, a := range animations {
			if a.Type == "" {
				continue
			}
			el.addClass("animate-" + a.Type)
			if a.Trigger == "on-scroll" {
				el.set("data-animate", "scroll")
			}
		}
	})
}

var interactionClasses = map[string][]string{
	"hover-scale": {"transition-transform", "hover:scale-105"},
	"smooth-fade": {"transition-opacity", "duration-300", "ease-in-out"},
}

func applyInteractions(code string, patterns []design.InteractionPattern) string {
	return rewrite(code, func(el *element) {
		_, layedOut := el.get("data-layout")
		button := el.name == "button" || el.hasClass("btn")
		if !layedOut && !button {
			return
		}
		for _, p := range patterns {
			if p.Frequency < MinInteractionFrequency {
				continue
			}
			if classes, ok := interactionClasses[p.Type]; ok {
				el.addClass(classes...)
			}
			if p.Type == "scroll-reveal" && layedOut {
				el.set("data-reveal", "true")
			}
		}
	})
}
