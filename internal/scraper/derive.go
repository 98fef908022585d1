package scraper

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/dotcommander/sitegen/internal/domain/design"
	"github.com/dotcommander/sitegen/internal/orderedset"
)

// maxMarkup bounds the sample markup stored per component
const maxMarkup = 2048

var componentKinds = []struct {
	kind string
	sel  cascadia.Selector
}{
	{"navigation", cascadia.MustCompile(`nav, [role="navigation"]`)},
	{"hero", cascadia.MustCompile(`[class*="hero"], [id="hero"]`)},
	{"feature-grid", cascadia.MustCompile(`[class*="feature"], [id="features"]`)},
	{"pricing-table", cascadia.MustCompile(`[class*="pricing"], [id="pricing"]`)},
	{"testimonial-carousel", cascadia.MustCompile(`[class*="testimonial"]`)},
	{"stat-cards", cascadia.MustCompile(`[class*="stats"], [class*="stat-card"]`)},
	{"cta-section", cascadia.MustCompile(`[class*="cta"]`)},
	{"card", cascadia.MustCompile(`[class~="card"], [class*="card-"]`)},
	{"button", cascadia.MustCompile(`button, a[class*="btn"], [class*="button"]`)},
	{"form", cascadia.MustCompile("form")},
	{"footer", cascadia.MustCompile("footer")},
}

var (
	interactiveSel = cascadia.MustCompile(`a, button, [class*="card"], [class*="btn"], input, select, textarea`)
	stickySel      = cascadia.MustCompile(`[class*="sticky"], [class*="fixed"]`)
	inputSel       = cascadia.MustCompile("input, select, textarea")
	formSel        = cascadia.MustCompile("form")
)

var accessibilityAttrs = []string{"aria-label", "aria-labelledby", "aria-describedby", "role", "alt", "tabindex"}

// extractComponents records the first element of each recognized kind, in
// the order the kinds are checked
func extractComponents(p *page) []design.Component {
	var out []design.Component
	for _, ck := range componentKinds {
		nodes := ck.sel.MatchAll(p.doc)
		if len(nodes) == 0 {
			continue
		}
		n := nodes[0]
		c := design.Component{
			Type:   ck.kind,
			HTML:   render(n, maxMarkup),
			Styles: p.stylesFor(n),
		}
		c.Variants = p.variantsFor(n)
		c.Attributes = p.attributesFor(n)
		out = append(out, c)
	}
	return out
}

// stylesFor concatenates the base rules of the element's classes
func (p *page) stylesFor(n *html.Node) string {
	var parts []string
	for _, class := range classes(n) {
		sel := "." + class
		for _, r := range p.rulesMatching(func(s string) bool { return s == sel }) {
			if r.Media != "" {
				continue
			}
			parts = append(parts, r.Selector+" { "+formatDecls(r.Decls)+" }")
		}
	}
	return strings.Join(parts, "\n")
}

// variantsFor finds BEM-style modifier rules of the element's first class
func (p *page) variantsFor(n *html.Node) []design.ComponentVariant {
	cls := classes(n)
	if len(cls) == 0 {
		return nil
	}
	prefix := "." + cls[0] + "--"
	var out []design.ComponentVariant
	for _, r := range p.rulesMatching(func(s string) bool { return strings.HasPrefix(s, prefix) }) {
		name := strings.TrimPrefix(strings.Fields(r.Selector)[0], prefix)
		name = strings.TrimSuffix(name, ",")
		out = append(out, design.ComponentVariant{
			Name:   name,
			Styles: r.Selector + " { " + formatDecls(r.Decls) + " }",
		})
	}
	return out
}

func (p *page) attributesFor(n *html.Node) design.ComponentAttributes {
	var attrs design.ComponentAttributes

	present := orderedset.New[string]()
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range accessibilityAttrs {
				if attr(n, a) != "" {
					present.Add(a)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	attrs.Accessibility = present.Values()

	for _, class := range classes(n) {
		switch {
		case strings.HasPrefix(class, "animate-"):
			attrs.Animation = append(attrs.Animation, design.Animation{
				Type:       strings.TrimPrefix(class, "animate-"),
				Properties: []string{"opacity", "transform"},
				Trigger:    "on-load",
			})
		case strings.HasPrefix(class, "hover:"):
			attrs.Interactions = append(attrs.Interactions, design.Interaction{
				Type: "hover", Styles: strings.TrimPrefix(class, "hover:"), Trigger: "mouseenter",
			})
		case strings.HasPrefix(class, "focus:"):
			attrs.Interactions = append(attrs.Interactions, design.Interaction{
				Type: "focus", Styles: strings.TrimPrefix(class, "focus:"), Trigger: "focus",
			})
		}
	}

	var breakpoints []string
	styles := make(map[string]string)
	for _, class := range classes(n) {
		bp, rest, ok := strings.Cut(class, ":")
		if !ok {
			continue
		}
		switch bp {
		case "sm", "md", "lg", "xl", "2xl":
			if _, seen := styles[bp]; !seen {
				breakpoints = append(breakpoints, bp)
			}
			styles[bp] = strings.TrimSpace(styles[bp] + " " + rest)
		}
	}
	if len(breakpoints) > 0 {
		attrs.Responsive = &design.Responsive{Breakpoints: breakpoints, Styles: styles}
	}

	return attrs
}

func formatDecls(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.Property+": "+d.Value+";")
	}
	return strings.Join(parts, " ")
}

var (
	keyframesRe  = regexp.MustCompile(`@keyframes\s+([\w-]+)\s*\{`)
	transitionRe = regexp.MustCompile(`cubic-bezier\([^)]*\)|ease-in-out|ease-in|ease-out|linear|ease`)
	durationRe   = regexp.MustCompile(`\b\d*\.?\d+m?s\b`)
)

// extractAnimations reads named keyframes and the transitions that use them
func extractAnimations(p *page) []design.Animation {
	var out []design.Animation
	css := stripComments(p.css)

	for _, m := range keyframesRe.FindAllStringSubmatchIndex(css, -1) {
		name := css[m[2]:m[3]]
		open := m[1] - 1
		body := css[open+1 : matchingBrace(css, open)]

		props := orderedset.New[string]()
		for _, d := range parseDeclarations(stripFrames(body)) {
			props.Add(d.Property)
		}

		anim := design.Animation{
			Type:       name,
			Properties: props.Values(),
			Timing:     "ease",
			Trigger:    "on-load",
		}
		for _, r := range p.rules {
			v := declValue(r.Decls, "animation")
			if v == "" {
				v = declValue(r.Decls, "animation-name")
			}
			if !strings.Contains(v, name) {
				continue
			}
			if t := transitionRe.FindString(v); t != "" {
				anim.Timing = t
			}
			if strings.Contains(r.Selector, "visible") || strings.Contains(r.Selector, "in-view") {
				anim.Trigger = "on-scroll"
			}
			if d := durationRe.FindString(v); d != "" {
				anim.Variants = append(anim.Variants, design.AnimationVariant{
					Name:       strings.TrimPrefix(strings.Fields(r.Selector)[0], "."),
					Properties: map[string]string{"duration": d},
				})
			}
		}
		out = append(out, anim)
	}

	seen := make(map[string]bool)
	for _, r := range p.rules {
		v := declValue(r.Decls, "transition")
		if v == "" || v == "none" {
			continue
		}
		prop := strings.Fields(v)[0]
		if seen[prop] {
			continue
		}
		seen[prop] = true
		trigger := "on-state-change"
		if strings.Contains(r.Selector, ":hover") {
			trigger = "on-hover"
		}
		timing := transitionRe.FindString(v)
		if timing == "" {
			timing = "ease"
		}
		out = append(out, design.Animation{
			Type:       "transition-" + prop,
			Properties: []string{prop},
			Timing:     timing,
			Trigger:    trigger,
		})
	}

	return out
}

// stripFrames flattens "from { a: b } 50% { c: d }" into "a: b; c: d"
func stripFrames(body string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range body {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			sb.WriteByte(';')
		default:
			if depth > 0 {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

// interaction signatures checked against hover and transition rules
var interactionSignatures = []struct {
	kind           string
	implementation string
	match          func(r cssRule) bool
}{
	{
		kind:           "hover-scale",
		implementation: "transform: scale(1.05)",
		match: func(r cssRule) bool {
			return strings.Contains(r.Selector, ":hover") && strings.Contains(declValue(r.Decls, "transform"), "scale")
		},
	},
	{
		kind:           "smooth-fade",
		implementation: "transition: opacity 0.3s ease-in-out",
		match: func(r cssRule) bool {
			return strings.Contains(declValue(r.Decls, "transition"), "opacity")
		},
	},
	{
		kind:           "scroll-reveal",
		implementation: "opacity: 0; transform: translateY(20px);",
		match: func(r cssRule) bool {
			return declValue(r.Decls, "opacity") == "0" && strings.Contains(declValue(r.Decls, "transform"), "translateY")
		},
	},
}

// extractInteractions estimates, per interaction type, the share of
// interactive elements whose classes are targeted by a matching rule
func extractInteractions(p *page) []design.InteractionStat {
	interactive := interactiveSel.MatchAll(p.doc)
	if len(interactive) == 0 {
		return nil
	}

	var out []design.InteractionStat
	for _, sig := range interactionSignatures {
		targeted := make(map[string]bool)
		for _, r := range p.rules {
			if !sig.match(r) {
				continue
			}
			for _, sel := range strings.Split(r.Selector, ",") {
				for _, class := range selectorClasses(sel) {
					targeted[class] = true
				}
			}
		}
		if len(targeted) == 0 {
			continue
		}

		hits := 0
		for _, n := range interactive {
			for _, class := range classes(n) {
				if targeted[class] {
					hits++
					break
				}
			}
		}
		if hits == 0 {
			continue
		}
		out = append(out, design.InteractionStat{
			Type:           sig.kind,
			Frequency:      float64(hits) / float64(len(interactive)),
			Implementation: sig.implementation,
		})
	}
	return out
}

var classTokenRe = regexp.MustCompile(`\.([A-Za-z0-9_-]+)`)

func selectorClasses(sel string) []string {
	var out []string
	for _, m := range classTokenRe.FindAllStringSubmatch(sel, -1) {
		out = append(out, m[1])
	}
	return out
}

// summarizePatterns derives the navigation, card, button and form summary
func summarizePatterns(p *page, components []design.Component) design.Patterns {
	var pat design.Patterns

	for _, c := range components {
		if c.Type != "navigation" {
			continue
		}
		pat.Navigation = design.NavigationPattern{Type: "header", Position: "top", Style: "solid"}
		if stickySel.MatchFirst(p.doc) != nil {
			pat.Navigation.Type = "sticky-header"
		}
		for _, r := range p.rulesMatching(func(s string) bool { return strings.Contains(s, "nav") || strings.Contains(s, "header") }) {
			if pos := declValue(r.Decls, "position"); pos == "sticky" || pos == "fixed" {
				pat.Navigation.Type = "sticky-header"
			}
			if strings.Contains(declValue(r.Decls, "backdrop-filter"), "blur") {
				pat.Navigation.Style = "glass-morphism"
			}
		}
	}

	for _, r := range p.rulesMatching(func(s string) bool { return strings.Contains(s, "card") }) {
		if v := declValue(r.Decls, "box-shadow"); v != "" && pat.Cards.Shadow == "" {
			pat.Cards.Shadow = v
		}
		if v := declValue(r.Decls, "border-radius"); v != "" && pat.Cards.Border == "" {
			pat.Cards.Border = v
		}
		if strings.Contains(declValue(r.Decls, "backdrop-filter"), "blur") {
			pat.Cards.Style = "glass-morphism"
		}
	}
	if pat.Cards.Style == "" && (pat.Cards.Shadow != "" || pat.Cards.Border != "") {
		pat.Cards.Style = "elevated"
	}

	variants := orderedset.New[string]()
	sizes := orderedset.New[string]()
	styles := make(map[string]string)
	for _, r := range p.rules {
		for _, sel := range strings.Split(r.Selector, ",") {
			for _, class := range selectorClasses(sel) {
				name, ok := buttonModifier(class)
				if !ok {
					continue
				}
				switch name {
				case "sm", "md", "lg", "xl":
					sizes.Add(name)
				default:
					variants.Add(name)
					if bg := declValue(r.Decls, "background"); bg != "" {
						styles[name] = bg
					} else if bg := declValue(r.Decls, "background-color"); bg != "" {
						styles[name] = bg
					}
				}
			}
		}
	}
	pat.Buttons = design.ButtonPattern{Variants: variants.Values(), Sizes: sizes.Values(), Styles: styles}

	if forms := formSel.MatchAll(p.doc); len(forms) > 0 {
		pat.Forms.Layout = "stacked"
		if strings.Contains(attr(forms[0], "class"), "inline") {
			pat.Forms.Layout = "inline"
		}
		validation := orderedset.New[string]()
		for _, in := range inputSel.MatchAll(forms[0]) {
			for _, a := range []string{"required", "pattern", "minlength", "maxlength"} {
				for _, at := range in.Attr {
					if at.Key == a {
						validation.Add(a)
					}
				}
			}
		}
		pat.Forms.Validation = validation.Values()
		pat.Forms.FieldStyles = "outlined"
	}

	return pat
}

func buttonModifier(class string) (string, bool) {
	for _, prefix := range []string{"btn-", "button--", "btn--"} {
		if name, ok := strings.CutPrefix(class, prefix); ok && name != "" {
			return name, true
		}
	}
	return "", false
}

// extractSpacing collects the padding, margin and gap scales in use
func extractSpacing(p *page, layout design.Layout) design.Spacing {
	padding := orderedset.New[string]()
	margin := orderedset.New[string]()
	gap := orderedset.New[string]()

	for _, d := range p.allDeclarations() {
		switch d.Property {
		case "padding", "padding-top", "padding-bottom", "padding-left", "padding-right":
			padding.Add(strings.Fields(d.Value)...)
		case "margin", "margin-top", "margin-bottom":
			for _, v := range strings.Fields(d.Value) {
				if v != "0" && v != "auto" {
					margin.Add(v)
				}
			}
		case "gap", "row-gap", "column-gap":
			gap.Add(strings.Fields(d.Value)...)
		}
	}

	sp := design.Spacing{
		Padding: sortLengths(padding.Values()),
		Margin:  sortLengths(margin.Values()),
		Gap:     sortLengths(gap.Values()),
	}
	sp.Layout.ContainerWidth = layout.ContainerWidth
	for _, s := range layout.Sections {
		if s.Spacing != "" && s.Type != "header" && s.Type != "footer" {
			sp.Layout.SectionSpacing = s.Spacing
			break
		}
	}
	if len(sp.Gap) > 0 {
		sp.Layout.ComponentSpacing = sp.Gap[len(sp.Gap)/2]
	}
	return sp
}

// sortLengths orders rem and px values by size, dropping anything else
func sortLengths(values []string) []string {
	type length struct {
		raw string
		px  float64
	}
	var ls []length
	for _, v := range values {
		if px, ok := toPixels(v); ok {
			ls = append(ls, length{v, px})
		}
	}
	sort.SliceStable(ls, func(i, j int) bool { return ls[i].px < ls[j].px })
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.raw
	}
	return out
}

var lengthRe = regexp.MustCompile(`^(\d*\.?\d+)(px|rem|em)$`)

func toPixels(v string) (float64, bool) {
	m := lengthRe.FindStringSubmatch(v)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] != "px" {
		n *= 16
	}
	return n, true
}
