package render

import (
	"bytes"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Line is one banner row: an icon, an optional label and a value.
type Line struct {
	Icon  string
	Label string
	Value string
	Attrs []color.Attribute
}

// Banner is the block printed to stdout once the server is listening.
type Banner struct {
	Lines     []Line
	RuleWidth int

	// QR is printed under the rule when non-empty.
	QR string

	NoColor bool
}

func (b Banner) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	for _, line := range b.Lines {
		if line.Icon != "" {
			buf.WriteString(line.Icon)
			buf.WriteString(" ")
		}
		if line.Label != "" {
			buf.WriteString(line.Label)
			if line.Value != "" {
				buf.WriteString(" ")
			}
		}
		if line.Value != "" {
			buf.WriteString(b.paint(line.Attrs, line.Value))
		}
		buf.WriteString("\n")
	}

	width := b.RuleWidth
	if width <= 0 {
		width = DefaultRuleWidth
	}
	buf.WriteString(b.paint(Muted, strings.Repeat("-", width)))
	buf.WriteString("\n")

	if b.QR != "" {
		buf.WriteString(b.QR)
		if !strings.HasSuffix(b.QR, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.WriteTo(w)
}

func (b Banner) paint(attrs []color.Attribute, s string) string {
	if len(attrs) == 0 {
		return s
	}
	c := color.New(attrs...)
	if b.NoColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c.Sprint(s)
}

// Message writes a single line such as an error or the stop notice.
func Message(w io.Writer, attrs []color.Attribute, noColor bool, text string) error {
	b := Banner{NoColor: noColor}
	_, err := io.WriteString(w, b.paint(attrs, text)+"\n")
	return err
}
