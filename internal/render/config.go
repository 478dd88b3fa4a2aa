package render

import "github.com/fatih/color"

// Banner palette.
var (
	Accent = []color.Attribute{color.FgMagenta, color.Bold}
	Value  = []color.Attribute{color.FgCyan}
	Muted  = []color.Attribute{color.Faint}
	Alert  = []color.Attribute{color.FgRed, color.Bold}

	DefaultRuleWidth = 50
)
