package scraper

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// page is a parsed reference document shared read-only by the extractors
type page struct {
	url    string
	doc    *html.Node
	css    string
	rules  []cssRule
	inline []declaration
}

// cssRule is a flattened style rule; rules nested in @media keep their query
type cssRule struct {
	Selector string
	Media    string
	Decls    []declaration
}

type declaration struct {
	Property string
	Value    string
}

var (
	styleSel  = cascadia.MustCompile("style")
	inlineSel = cascadia.MustCompile("[style]")
	bodySel   = cascadia.MustCompile("body")
)

// parsePage builds the shared page model; malformed markup is tolerated by
// the HTML5 parser, so only reader failures surface
func parsePage(rawURL string, body []byte) (*page, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	p := &page{url: rawURL, doc: doc}

	var sb strings.Builder
	for _, n := range styleSel.MatchAll(doc) {
		sb.WriteString(textContent(n))
		sb.WriteString("\n")
	}
	p.css = sb.String()
	p.rules = parseCSS(p.css)

	for _, n := range inlineSel.MatchAll(doc) {
		p.inline = append(p.inline, parseDeclarations(attr(n, "style"))...)
	}

	return p, nil
}

// allDeclarations returns stylesheet declarations followed by inline ones
func (p *page) allDeclarations() []declaration {
	var out []declaration
	for _, r := range p.rules {
		out = append(out, r.Decls...)
	}
	return append(out, p.inline...)
}

// rulesMatching returns rules whose selector list contains a selector for which
// match returns true
func (p *page) rulesMatching(match func(sel string) bool) []cssRule {
	var out []cssRule
	for _, r := range p.rules {
		for _, s := range strings.Split(r.Selector, ",") {
			if match(strings.TrimSpace(s)) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

var mediaQueryRe = regexp.MustCompile(`@media[^{]*`)

// parseCSS flattens a stylesheet into rules. It understands one level of
// at-rule nesting, which covers @media and @supports blocks.
func parseCSS(css string) []cssRule {
	css = stripComments(css)

	var rules []cssRule
	var media string
	depth := 0
	start := 0

	for i := 0; i < len(css); i++ {
		switch css[i] {
		case '{':
			prelude := strings.TrimSpace(css[start:i])
			if strings.HasPrefix(prelude, "@") {
				if strings.HasPrefix(prelude, "@media") {
					media = strings.TrimSpace(mediaQueryRe.FindString(prelude))
				}
				if strings.HasPrefix(prelude, "@keyframes") || strings.HasPrefix(prelude, "@font-face") {
					// keyframes and font-face bodies are not style rules
					end := matchingBrace(css, i)
					start = end + 1
					i = end
					continue
				}
				depth++
				start = i + 1
				continue
			}
			end := strings.IndexByte(css[i:], '}')
			if end < 0 {
				return rules
			}
			if prelude != "" {
				rules = append(rules, cssRule{
					Selector: prelude,
					Media:    media,
					Decls:    parseDeclarations(css[i+1 : i+end]),
				})
			}
			i += end
			start = i + 1
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					media = ""
				}
			}
			start = i + 1
		case ';':
			// statement at-rules such as @charset and @import
			start = i + 1
		}
	}
	return rules
}

func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s) - 1
}

var commentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

func stripComments(css string) string {
	return commentRe.ReplaceAllString(css, "")
}

func parseDeclarations(block string) []declaration {
	var out []declaration
	for _, part := range strings.Split(block, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		if prop == "" || value == "" {
			continue
		}
		out = append(out, declaration{Property: prop, Value: value})
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func classes(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// render returns the outer HTML of n, truncated to limit bytes
func render(n *html.Node, limit int) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	s := buf.String()
	if limit > 0 && len(s) > limit {
		s = s[:limit]
	}
	return s
}
