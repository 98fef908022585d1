package synth

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode"
)

// section is one building block the synthesizer can emit
type section struct {
	name     string
	keywords []string
	render   func(title string) string
}

// sectionLibrary is ordered the way sections appear on a page
var sectionLibrary = []section{
	{
		name:     "hero",
		keywords: []string{"landing", "homepage", "hero", "marketing", "product", "startup", "portfolio"},
		render: func(title string) string {
			return fmt.Sprintf(`<section className="hero" data-section="hero">
  <h1 className="hero-title">%s</h1>
  <p className="hero-subtitle">Everything you need, in one place.</p>
  <button className="btn btn-primary">Get started</button>
</section>`, title)
		},
	},
	{
		name:     "sidebar",
		keywords: []string{"dashboard", "admin", "panel", "app", "console"},
		render: func(title string) string {
			return fmt.Sprintf(`<aside className="sidebar" data-section="sidebar">
  <p className="sidebar-title">%s</p>
  <nav className="sidebar-nav">
    <a className="sidebar-link" href="#overview">Overview</a>
    <a className="sidebar-link" href="#reports">Reports</a>
    <a className="sidebar-link" href="#settings">Settings</a>
  </nav>
</aside>`, title)
		},
	},
	{
		name:     "stats",
		keywords: []string{"stats", "metrics", "analytics", "dashboard", "kpi", "numbers"},
		render: func(string) string {
			return `<section className="stats" data-section="stats">
  <div className="stat-card"><span className="stat-value">12k</span><span className="stat-label">Users</span></div>
  <div className="stat-card"><span className="stat-value">98%</span><span className="stat-label">Uptime</span></div>
  <div className="stat-card"><span className="stat-value">4.9</span><span className="stat-label">Rating</span></div>
</section>`
		},
	},
	{
		name:     "table",
		keywords: []string{"table", "data", "admin", "orders", "users", "inventory", "crm"},
		render: func(string) string {
			return `<section className="data-table" data-section="table">
  <table className="table">
    <thead><tr><th>Name</th><th>Status</th><th>Updated</th></tr></thead>
    <tbody><tr><td>Example</td><td>Active</td><td>Today</td></tr></tbody>
  </table>
</section>`
		},
	},
	{
		name:     "features",
		keywords: []string{"features", "feature", "product", "saas", "services", "landing"},
		render: func(string) string {
			return `<section className="features" data-section="features">
  <div className="feature-card"><h3 className="feature-title">Fast</h3><p>Built for speed.</p></div>
  <div className="feature-card"><h3 className="feature-title">Secure</h3><p>Safe by default.</p></div>
  <div className="feature-card"><h3 className="feature-title">Simple</h3><p>Easy to use.</p></div>
</section>`
		},
	},
	{
		name:     "pricing",
		keywords: []string{"pricing", "price", "prices", "plans", "subscription", "saas"},
		render: func(string) string {
			return `<section className="pricing" data-section="pricing">
  <div className="pricing-card"><h3>Starter</h3><p className="price">$0</p><button className="btn btn-secondary">Choose</button></div>
  <div className="pricing-card"><h3>Pro</h3><p className="price">$29</p><button className="btn btn-primary">Choose</button></div>
</section>`
		},
	},
	{
		name:     "testimonials",
		keywords: []string{"testimonials", "testimonial", "reviews", "social", "customers"},
		render: func(string) string {
			return `<section className="testimonials" data-section="testimonials">
  <blockquote className="testimonial">"It changed how we work."</blockquote>
  <blockquote className="testimonial">"Setup took five minutes."</blockquote>
</section>`
		},
	},
	{
		name:     "cta",
		keywords: []string{"landing", "homepage", "signup", "cta", "newsletter", "waitlist"},
		render: func(string) string {
			return `<section className="cta" data-section="cta">
  <h2 className="cta-title">Ready to start?</h2>
  <button className="btn btn-primary">Sign up</button>
</section>`
		},
	},
	{
		name:     "footer",
		keywords: nil,
		render: func(title string) string {
			return fmt.Sprintf(`<footer className="footer" data-section="footer">
  <p className="footer-text">%s</p>
</footer>`, title)
		},
	},
}

var defaultSections = []string{"hero", "features", "cta", "footer"}

// Thresholds applied to learned section weights
const (
	dropBelow  = 0.4
	enableFrom = 0.8
	// neutralWeight ranks sections with no feedback yet
	neutralWeight = 0.5
)

// tokenize lowercases the prompt and splits it on whitespace and punctuation
func tokenize(prompt string) map[string]bool {
	tokens := make(map[string]bool)
	for _, f := range strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
	}) {
		tokens[f] = true
	}
	return tokens
}

// selectSections picks and orders sections for the prompt tokens. hero stays
// first and footer last; the rest are ranked by learned weight.
func selectSections(tokens map[string]bool, weights map[string]float64) []section {
	chosen := make(map[string]bool)
	for _, s := range sectionLibrary {
		for _, kw := range s.keywords {
			if tokens[kw] {
				chosen[s.name] = true
				break
			}
		}
	}
	if len(chosen) == 0 {
		for _, name := range defaultSections {
			chosen[name] = true
		}
	}
	chosen["footer"] = true

	for name, w := range weights {
		switch {
		case w < dropBelow && !tokens[name]:
			delete(chosen, name)
		case w >= enableFrom:
			chosen[name] = true
		}
	}
	chosen["footer"] = true

	var head, middle, tail []section
	for _, s := range sectionLibrary {
		if !chosen[s.name] {
			continue
		}
		switch s.name {
		case "hero":
			head = append(head, s)
		case "footer":
			tail = append(tail, s)
		default:
			middle = append(middle, s)
		}
	}

	weight := func(name string) float64 {
		if w, ok := weights[name]; ok {
			return w
		}
		return neutralWeight
	}
	sort.SliceStable(middle, func(i, j int) bool {
		return weight(middle[i].name) > weight(middle[j].name)
	})

	out := append(head, middle...)
	return append(out, tail...)
}

// pageTitle turns the prompt into an escaped single-line heading
func pageTitle(prompt string) string {
	title := strings.Join(strings.Fields(prompt), " ")
	if title == "" {
		title = "Welcome"
	}
	const maxTitle = 80
	if r := []rune(title); len(r) > maxTitle {
		title = string(r[:maxTitle])
	}
	return html.EscapeString(title)
}

func renderPage(prompt string, sections []section) string {
	title := pageTitle(prompt)

	var sb strings.Builder
	sb.WriteString(`<div className="site" data-generator="sitegen">`)
	sb.WriteString("\n")
	for _, s := range sections {
		for _, line := range strings.Split(s.render(title), "\n") {
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("</div>\n")
	return sb.String()
}
