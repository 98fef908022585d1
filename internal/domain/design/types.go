package design

// ScrapedDesign is the structured design description extracted from one reference URL
type ScrapedDesign struct {
	URL          string            `json:"url"`
	HTML         string            `json:"html"`
	CSS          string            `json:"css"`
	Colors       Colors            `json:"colors"`
	Typography   Typography        `json:"typography"`
	Spacing      Spacing           `json:"spacing"`
	Components   []Component       `json:"components"`
	Layout       Layout            `json:"layout"`
	Animations   []Animation       `json:"animations"`
	Patterns     Patterns          `json:"patterns"`
	Interactions []InteractionStat `json:"interactions,omitempty"`
}

// ComponentTypes returns the component type names in page order
func (d *ScrapedDesign) ComponentTypes() []string {
	types := make([]string, 0, len(d.Components))
	for _, c := range d.Components {
		types = append(types, c.Type)
	}
	return types
}

// Colors groups the palettes found on a page
type Colors struct {
	Primary   []string   `json:"primary"`
	Secondary []string   `json:"secondary"`
	Accent    []string   `json:"accent"`
	Neutral   []string   `json:"neutral"`
	Gradients []Gradient `json:"gradients"`
}

// Gradient represents a two-stop gradient
type Gradient struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Direction string `json:"direction"`
}

// Typography describes fonts and the heading/body type scale
type Typography struct {
	Fonts    []string     `json:"fonts"`
	Headings HeadingScale `json:"headings"`
	Body     BodyScale    `json:"body"`
}

// HeadingScale holds per-level values keyed by "h1".."h6"
type HeadingScale struct {
	Sizes       map[string]string `json:"sizes"`
	LineHeights map[string]string `json:"line_heights"`
	FontWeights map[string]int    `json:"font_weights"`
}

// BodyScale holds body text values keyed by size name
type BodyScale struct {
	Sizes       map[string]string `json:"sizes"`
	LineHeights map[string]string `json:"line_heights"`
}

// Spacing is the spacing scale observed on a page
type Spacing struct {
	Padding []string      `json:"padding"`
	Margin  []string      `json:"margin"`
	Gap     []string      `json:"gap"`
	Layout  SpacingLayout `json:"layout"`
}

type SpacingLayout struct {
	ContainerWidth   string `json:"container_width"`
	SectionSpacing   string `json:"section_spacing"`
	ComponentSpacing string `json:"component_spacing"`
}

// Component describes one UI component found on a page
type Component struct {
	Type       string              `json:"type"`
	HTML       string              `json:"html"`
	Styles     string              `json:"styles"`
	Variants   []ComponentVariant  `json:"variants,omitempty"`
	Attributes ComponentAttributes `json:"attributes"`
}

type ComponentVariant struct {
	Name   string `json:"name"`
	Styles string `json:"styles"`
}

// ComponentAttributes carries the optional descriptors of a component
type ComponentAttributes struct {
	Accessibility []string      `json:"accessibility,omitempty"`
	Animation     []Animation   `json:"animation,omitempty"`
	Responsive    *Responsive   `json:"responsive,omitempty"`
	Interactions  []Interaction `json:"interactions,omitempty"`
}

type Responsive struct {
	Breakpoints []string          `json:"breakpoints"`
	Styles      map[string]string `json:"styles"`
}

type Interaction struct {
	Type    string `json:"type"`
	Styles  string `json:"styles"`
	Trigger string `json:"trigger"`
}

// Layout describes the page layout
type Layout struct {
	Type           string                `json:"type"`
	GridSystem     string                `json:"grid_system,omitempty"`
	ContainerWidth string                `json:"container_width,omitempty"`
	Breakpoints    map[string]Breakpoint `json:"breakpoints"`
	Sections       []Section             `json:"sections"`
}

type Breakpoint struct {
	Width   string `json:"width"`
	Columns int    `json:"columns"`
	Gap     string `json:"gap"`
}

type Section struct {
	Type    string `json:"type"`
	Layout  string `json:"layout"`
	Spacing string `json:"spacing"`
}

// Animation describes an animation pattern
type Animation struct {
	Type       string             `json:"type"`
	Properties []string           `json:"properties"`
	Timing     string             `json:"timing"`
	Trigger    string             `json:"trigger"`
	Variants   []AnimationVariant `json:"variants,omitempty"`
}

type AnimationVariant struct {
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties"`
}

// Patterns summarises recurring UI patterns
type Patterns struct {
	Navigation NavigationPattern `json:"navigation"`
	Cards      CardPattern       `json:"cards"`
	Buttons    ButtonPattern     `json:"buttons"`
	Forms      FormPattern       `json:"forms"`
}

type NavigationPattern struct {
	Type     string `json:"type"`
	Position string `json:"position"`
	Style    string `json:"style"`
}

type CardPattern struct {
	Style  string `json:"style"`
	Shadow string `json:"shadow"`
	Border string `json:"border"`
}

type ButtonPattern struct {
	Variants []string          `json:"variants"`
	Sizes    []string          `json:"sizes"`
	Styles   map[string]string `json:"styles"`
}

type FormPattern struct {
	Layout      string   `json:"layout"`
	FieldStyles string   `json:"field_styles"`
	Validation  []string `json:"validation"`
}

// InteractionStat is how often an interaction pattern was observed on one page
type InteractionStat struct {
	Type           string  `json:"type"`
	Frequency      float64 `json:"frequency"`
	Implementation string  `json:"implementation"`
}
