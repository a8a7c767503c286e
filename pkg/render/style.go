package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/familytree/pkg/family"
)

// Palette holds the colors used by [RenderSVG].
type Palette struct {
	Male, Female, Other string // box fill by sex; Other also covers unset
	Border                     string
	Focus                      string
	Selected                   string
	Connector                  string
	SpouseLink                 string
	Name, Dates, Sex           string // text colors
	Badge                      string
	Background                 string // empty means transparent
}

// DefaultPalette is the pastel scheme of the interactive canvas.
var DefaultPalette = Palette{
	Male:       "#dbeafe",
	Female:     "#fce7f3",
	Other:      "#e0e7ff",
	Border:     "#6b7280",
	Focus:      "#9333ea",
	Selected:   "#2563eb",
	Connector:  "#6b7280",
	SpouseLink: "#c084fc",
	Name:       "#111827",
	Dates:      "#4b5563",
	Sex:        "#6b7280",
	Badge:      "#9333ea",
}

// PrintPalette is a grayscale scheme for paper output.
var PrintPalette = Palette{
	Male:       "#f3f4f6",
	Female:     "#ffffff",
	Other:      "#e5e7eb",
	Border:     "#374151",
	Focus:      "#000000",
	Selected:   "#111827",
	Connector:  "#374151",
	SpouseLink: "#9ca3af",
	Name:       "#000000",
	Dates:      "#374151",
	Sex:        "#4b5563",
	Badge:      "#000000",
	Background: "#ffffff",
}

// Palettes maps palette names accepted on the command line.
var Palettes = map[string]Palette{
	"default": DefaultPalette,
	"print":   PrintPalette,
}

// Fill returns the box color for a person of the given sex.
func (p Palette) Fill(sex family.Sex) string {
	switch sex {
	case family.SexMale:
		return p.Male
	case family.SexFemale:
		return p.Female
	default:
		return p.Other
	}
}

const (
	nameFontSize  = 12.0
	smallFontSize = 10.0
	badgeFontSize = 9.0
	fontCharWidth = 0.55
	fontWidthUse  = 0.9
	cornerRadius  = 8.0
)

// truncate shortens s so it fits in width at the given font size.
func truncate(s string, width, fontSize float64) string {
	maxChars := max(int(width*fontWidthUse/(fontSize*fontCharWidth)), 3)
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-2]) + ".."
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func writeText(buf *bytes.Buffer, x, y, size float64, color, weight, anchor, text string) {
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.0f" fill="%s"`,
		x, y, size, color)
	if weight != "" {
		fmt.Fprintf(buf, ` font-weight="%s"`, weight)
	}
	fmt.Fprintf(buf, ` text-anchor="%s">%s</text>`+"\n", anchor, escape(text))
}
