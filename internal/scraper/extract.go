package scraper

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/dotcommander/sitegen/internal/domain/design"
	"github.com/dotcommander/sitegen/internal/orderedset"
)

var (
	hexColorRe = regexp.MustCompile(`#([0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)
	rgbColorRe = regexp.MustCompile(`rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})`)
	minWidthRe = regexp.MustCompile(`min-width\s*:\s*(\d+)px`)
)

// neutralSpread is the largest channel spread still treated as a gray
const neutralSpread = 32

type colorCount struct {
	hex   string
	count int
	order int
}

// extractColors ranks every color literal by frequency and splits the
// ranking into chromatic palettes and neutrals
func extractColors(ctx context.Context, p *page) (design.Colors, error) {
	if err := ctx.Err(); err != nil {
		return design.Colors{}, err
	}

	counts := make(map[string]*colorCount)
	var gradients []design.Gradient

	for _, decl := range p.allDeclarations() {
		for _, c := range colorLiterals(decl.Value) {
			cc, ok := counts[c]
			if !ok {
				cc = &colorCount{hex: c, order: len(counts)}
				counts[c] = cc
			}
			cc.count++
		}
		if strings.Contains(decl.Value, "linear-gradient(") {
			gradients = append(gradients, parseGradients(decl.Value)...)
		}
	}

	ranked := make([]*colorCount, 0, len(counts))
	for _, cc := range counts {
		ranked = append(ranked, cc)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].order < ranked[j].order
	})

	var chromatic, neutral []string
	for _, cc := range ranked {
		if isNeutral(cc.hex) {
			neutral = append(neutral, cc.hex)
		} else {
			chromatic = append(chromatic, cc.hex)
		}
	}

	return design.Colors{
		Primary:   window(chromatic, 0, 2),
		Secondary: window(chromatic, 2, 4),
		Accent:    window(chromatic, 4, 6),
		Neutral:   window(neutral, 0, 5),
		Gradients: gradients,
	}, nil
}

func window(s []string, from, to int) []string {
	if from >= len(s) {
		return nil
	}
	if to > len(s) {
		to = len(s)
	}
	return append([]string(nil), s[from:to]...)
}

// colorLiterals returns every color in value as uppercase #RRGGBB
func colorLiterals(value string) []string {
	var out []string
	for _, m := range hexColorRe.FindAllStringSubmatch(value, -1) {
		h := strings.ToUpper(m[1])
		if len(h) == 3 {
			h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		}
		out = append(out, "#"+h)
	}
	for _, m := range rgbColorRe.FindAllStringSubmatch(value, -1) {
		var rgb [3]int
		valid := true
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(m[i+1])
			if err != nil || v > 255 {
				valid = false
				break
			}
			rgb[i] = v
		}
		if valid {
			out = append(out, fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2]))
		}
	}
	return out
}

func isNeutral(hex string) bool {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return false
	}
	r, g, b := int(v>>16&0xFF), int(v>>8&0xFF), int(v&0xFF)
	return max(r, g, b)-min(r, g, b) <= neutralSpread
}

// parseGradients reads the first and last color stop of each linear-gradient
func parseGradients(value string) []design.Gradient {
	var out []design.Gradient
	rest := value
	for {
		idx := strings.Index(rest, "linear-gradient(")
		if idx < 0 {
			return out
		}
		rest = rest[idx+len("linear-gradient("):]
		end := closingParen(rest)
		args := splitTopLevel(rest[:end])
		rest = rest[end:]

		if len(args) == 0 {
			continue
		}
		direction := "to-b"
		if d, ok := gradientDirection(args[0]); ok {
			direction = d
			args = args[1:]
		}

		var stops []string
		for _, a := range args {
			if c := colorLiterals(a); len(c) > 0 {
				stops = append(stops, c[0])
			}
		}
		if len(stops) < 2 {
			continue
		}
		out = append(out, design.Gradient{From: stops[0], To: stops[len(stops)-1], Direction: direction})
	}
}

func closingParen(s string) int {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s)
}

func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

var degreeDirections = map[int]string{
	0: "to-t", 45: "to-tr", 90: "to-r", 135: "to-br",
	180: "to-b", 225: "to-bl", 270: "to-l", 315: "to-tl",
}

// gradientDirection maps "to bottom right" or "135deg" to the to-br shorthand
func gradientDirection(arg string) (string, bool) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if words, ok := strings.CutPrefix(arg, "to "); ok {
		var sb strings.Builder
		sb.WriteString("to-")
		// vertical side first, as in to-br
		fields := strings.Fields(words)
		sort.SliceStable(fields, func(i, j int) bool {
			return isVertical(fields[i]) && !isVertical(fields[j])
		})
		for _, w := range fields {
			sb.WriteByte(w[0])
		}
		return sb.String(), true
	}
	if deg, ok := strings.CutSuffix(arg, "deg"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(deg))
		if err != nil {
			return "", false
		}
		n = ((n % 360) + 360) % 360
		nearest := (n + 22) / 45 * 45 % 360
		return degreeDirections[nearest], true
	}
	return "", false
}

func isVertical(word string) bool {
	return word == "top" || word == "bottom"
}

var (
	layoutSectionSel = cascadia.MustCompile("header, section, footer")
	sidebarSel       = cascadia.MustCompile(`aside, [class*="sidebar"], [id*="sidebar"]`)
)

var sectionKeywords = []string{"hero", "feature", "pricing", "testimonial", "stats", "cta", "faq", "contact", "team", "gallery"}

var breakpointScale = []struct {
	name    string
	width   int
	columns int
	gap     string
}{
	{"sm", 640, 4, "1rem"},
	{"md", 768, 8, "1.5rem"},
	{"lg", 1024, 12, "2rem"},
	{"xl", 1280, 12, "2.5rem"},
	{"2xl", 1536, 12, "3rem"},
}

// breakpointSlot names a width after the standard breakpoint it equals, or
// the first free one otherwise; -1 when every name is taken
func breakpointSlot(width int, taken map[string]design.Breakpoint) int {
	for i, bp := range breakpointScale {
		if _, used := taken[bp.name]; bp.width == width && !used {
			return i
		}
	}
	for i, bp := range breakpointScale {
		if _, used := taken[bp.name]; !used {
			return i
		}
	}
	return -1
}

// analyzeLayout classifies the page layout and reads its breakpoints and sections
func analyzeLayout(ctx context.Context, p *page) (design.Layout, error) {
	if err := ctx.Err(); err != nil {
		return design.Layout{}, err
	}

	layout := design.Layout{
		Type:        "block",
		Breakpoints: make(map[string]design.Breakpoint),
	}

	var grid, flex, templated int
	for _, decl := range p.allDeclarations() {
		switch {
		case decl.Property == "display" && strings.Contains(decl.Value, "grid"):
			grid++
		case decl.Property == "display" && strings.Contains(decl.Value, "flex"):
			flex++
		case decl.Property == "grid-template-columns":
			templated++
		}
	}

	switch {
	case sidebarSel.MatchFirst(p.doc) != nil:
		layout.Type = "sidebar-layout"
	case grid > 0 && grid >= flex:
		layout.Type = "grid"
	case flex > 0:
		layout.Type = "flex"
	}

	switch {
	case templated > 0:
		layout.GridSystem = "css-grid"
	case flex > 0:
		layout.GridSystem = "flexbox-grid"
	}

	containers := p.rulesMatching(func(sel string) bool {
		return strings.Contains(sel, "container") || strings.Contains(sel, "wrapper")
	})
	for _, r := range containers {
		if w := declValue(r.Decls, "max-width"); w != "" {
			layout.ContainerWidth = w
			break
		}
	}

	var widths []int
	seen := make(map[int]bool)
	for _, r := range p.rules {
		for _, m := range minWidthRe.FindAllStringSubmatch(r.Media, -1) {
			w, err := strconv.Atoi(m[1])
			if err == nil && !seen[w] {
				seen[w] = true
				widths = append(widths, w)
			}
		}
	}
	sort.Ints(widths)
	for _, w := range widths {
		i := breakpointSlot(w, layout.Breakpoints)
		if i < 0 {
			break
		}
		bp := breakpointScale[i]
		layout.Breakpoints[bp.name] = design.Breakpoint{
			Width:   strconv.Itoa(w) + "px",
			Columns: bp.columns,
			Gap:     bp.gap,
		}
	}

	for _, n := range layoutSectionSel.MatchAll(p.doc) {
		layout.Sections = append(layout.Sections, design.Section{
			Type:    sectionType(n),
			Layout:  sectionLayout(n),
			Spacing: p.paddingFor(n),
		})
	}

	return layout, nil
}

func sectionType(n *html.Node) string {
	if n.Data == "header" || n.Data == "footer" {
		return n.Data
	}
	hint := strings.ToLower(attr(n, "id") + " " + attr(n, "class"))
	for _, kw := range sectionKeywords {
		if strings.Contains(hint, kw) {
			return kw
		}
	}
	return "content"
}

func sectionLayout(n *html.Node) string {
	hint := strings.ToLower(attr(n, "class"))
	switch {
	case strings.Contains(hint, "carousel") || strings.Contains(hint, "slider"):
		return "carousel"
	case strings.Contains(hint, "split") || strings.Contains(hint, "two-col"):
		return "split"
	case strings.Contains(hint, "grid"):
		return "grid"
	default:
		return "stack"
	}
}

// paddingFor returns the padding of the first class rule that targets n
func (p *page) paddingFor(n *html.Node) string {
	for _, class := range classes(n) {
		sel := "." + class
		for _, r := range p.rulesMatching(func(s string) bool { return s == sel }) {
			if v := declValue(r.Decls, "padding"); v != "" {
				return v
			}
			if v := declValue(r.Decls, "padding-top"); v != "" {
				return v
			}
		}
	}
	return ""
}

func declValue(decls []declaration, property string) string {
	for _, d := range decls {
		if d.Property == property {
			return d.Value
		}
	}
	return ""
}

var genericFamilies = map[string]bool{
	"serif": true, "sans-serif": true, "monospace": true, "cursive": true,
	"fantasy": true, "system-ui": true, "ui-sans-serif": true, "ui-serif": true,
	"ui-monospace": true, "-apple-system": true, "blinkmacsystemfont": true,
	"inherit": true, "initial": true, "unset": true, "emoji": true,
}

var bodyScaleSelectors = map[string]string{
	"html":     "base",
	"body":     "base",
	"p":        "base",
	"small":    "sm",
	".text-sm": "sm",
	".lead":    "lg",
	".text-lg": "lg",
}

// extractTypography reads font families and the heading and body type scales
func extractTypography(ctx context.Context, p *page) (design.Typography, error) {
	if err := ctx.Err(); err != nil {
		return design.Typography{}, err
	}

	typo := design.Typography{
		Headings: design.HeadingScale{
			Sizes:       make(map[string]string),
			LineHeights: make(map[string]string),
			FontWeights: make(map[string]int),
		},
		Body: design.BodyScale{
			Sizes:       make(map[string]string),
			LineHeights: make(map[string]string),
		},
	}

	fonts := orderedset.New[string]()
	for _, decl := range p.allDeclarations() {
		if decl.Property != "font-family" {
			continue
		}
		for _, family := range strings.Split(decl.Value, ",") {
			family = strings.Trim(strings.TrimSpace(family), `"'`)
			if family == "" || genericFamilies[strings.ToLower(family)] || strings.HasPrefix(family, "var(") {
				continue
			}
			fonts.Add(family)
		}
	}
	typo.Fonts = fonts.Values()

	for _, r := range p.rules {
		if r.Media != "" {
			continue
		}
		for _, sel := range strings.Split(r.Selector, ",") {
			sel = strings.TrimSpace(sel)
			if level, ok := headingLevel(sel); ok {
				if v := declValue(r.Decls, "font-size"); v != "" {
					typo.Headings.Sizes[level] = v
				}
				if v := declValue(r.Decls, "line-height"); v != "" {
					typo.Headings.LineHeights[level] = v
				}
				if w := fontWeight(declValue(r.Decls, "font-weight")); w > 0 {
					typo.Headings.FontWeights[level] = w
				}
				continue
			}
			if key, ok := bodyScaleSelectors[sel]; ok {
				if v := declValue(r.Decls, "font-size"); v != "" {
					typo.Body.Sizes[key] = v
				}
				if v := declValue(r.Decls, "line-height"); v != "" {
					typo.Body.LineHeights[key] = v
				}
			}
		}
	}

	return typo, nil
}

func headingLevel(sel string) (string, bool) {
	sel = strings.TrimPrefix(sel, ".")
	if len(sel) == 2 && sel[0] == 'h' && sel[1] >= '1' && sel[1] <= '6' {
		return sel, true
	}
	return "", false
}

func fontWeight(v string) int {
	switch strings.ToLower(v) {
	case "":
		return 0
	case "normal":
		return 400
	case "bold":
		return 700
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
