package trends

import (
	"github.com/dotcommander/sitegen/internal/domain/design"
	"github.com/dotcommander/sitegen/internal/orderedset"
)

// Aggregate folds designs, in the given order, into a trend report
func Aggregate(designs []*design.ScrapedDesign) *design.TrendReport {
	components := orderedset.New[string]()
	layouts := orderedset.New[string]()

	report := &design.TrendReport{
		ColorSchemes:  [][2]string{},
		DesignSystems: []design.DesignSystem{},
	}

	type tally struct {
		sum            float64
		count          int
		implementation string
	}
	tallies := make(map[string]*tally)
	var order []string

	for _, d := range designs {
		report.Sources = append(report.Sources, d.URL)
		components.Add(d.ComponentTypes()...)
		if d.Layout.Type != "" {
			layouts.Add(d.Layout.Type)
		}

		// one scheme per source; a missing palette leaves its slot empty
		report.ColorSchemes = append(report.ColorSchemes, [2]string{first(d.Colors.Primary), first(d.Colors.Secondary)})

		report.DesignSystems = append(report.DesignSystems, SystemFor(d))

		for _, stat := range d.Interactions {
			t, ok := tallies[stat.Type]
			if !ok {
				t = &tally{implementation: stat.Implementation}
				tallies[stat.Type] = t
				order = append(order, stat.Type)
			}
			t.sum += stat.Frequency
			t.count++
		}
	}

	report.PopularComponents = components.Values()
	report.LayoutPatterns = layouts.Values()

	report.InteractionPatterns = make([]design.InteractionPattern, 0, len(order))
	for _, kind := range order {
		t := tallies[kind]
		report.InteractionPatterns = append(report.InteractionPatterns, design.InteractionPattern{
			Type:           kind,
			Frequency:      clamp01(t.sum / float64(t.count)),
			Implementation: t.implementation,
		})
	}

	return report
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func clamp01(f float64) float64 {
	return max(0, min(1, f))
}

var headingScale = map[string]string{
	"h1": "4xl",
	"h2": "3xl",
	"h3": "2xl",
	"h4": "xl",
}

// SystemFor completes the canonical token set with what one design defines
func SystemFor(d *design.ScrapedDesign) design.DesignSystem {
	sys := design.CanonicalSystem()

	if len(d.Typography.Fonts) > 0 {
		sys.Typography.FontFamily = d.Typography.Fonts[0]
	}
	for level, key := range headingScale {
		if size, ok := d.Typography.Headings.Sizes[level]; ok {
			sys.Typography.Scale[key] = size
		}
	}
	for _, key := range []string{"sm", "base", "lg"} {
		if size, ok := d.Typography.Body.Sizes[key]; ok {
			sys.Typography.Scale[key] = size
		}
	}
	if lh, ok := d.Typography.Body.LineHeights["base"]; ok {
		sys.Typography.LineHeight["normal"] = lh
	}

	overridePalette(&sys.Colors.Primary, d.Colors.Primary)
	overridePalette(&sys.Colors.Secondary, d.Colors.Secondary)
	overridePalette(&sys.Colors.Accent, d.Colors.Accent)
	overridePalette(&sys.Colors.Neutral, d.Colors.Neutral)

	for name, bp := range d.Layout.Breakpoints {
		if bp.Width != "" {
			sys.Breakpoints[name] = bp.Width
		}
	}

	return sys
}

func overridePalette(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = append([]string(nil), src...)
	}
}
