// Package pipeline runs the build → layout → render sequence that turns
// family data into drawings.
//
// The CLI and the HTTP server both go through a [Runner] so that defaults,
// validation, and caching behave the same everywhere.
//
// # Stages
//
//  1. Build: expand the tree around the focus person ([tree.Build])
//  2. Layout: assign coordinates ([layout.Tidy])
//  3. Render: produce each requested format
//
// Stages 1 and 2 are cached together under a key derived from the family
// data and the view options. Stage 3 is cached per format under a key
// derived from the laid out tree.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, data, pipeline.Options{
//	    FocusID: "p1",
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/cache"
	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/render"
	"github.com/matzehuels/familytree/pkg/state"
	"github.com/matzehuels/familytree/pkg/tree"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultPalette names the on-screen color scheme.
	DefaultPalette = "default"

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// Output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
	FormatJSON     = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatDOT:      true,
	FormatGraphviz: true,
	FormatJSON:     true,
}

// Extension returns the file extension used when writing format to disk.
func Extension(format string) string {
	switch format {
	case FormatGraphviz:
		return ".graphviz.svg"
	default:
		return "." + format
	}
}

// =============================================================================
// Options
// =============================================================================

// Options configure one pipeline run.
type Options struct {
	// Build options. Depths are clamped to 0..tree.MaxDepth.
	FocusID         string `json:"focus_id"`
	AncestorDepth   int    `json:"ancestor_depth"`
	DescendantDepth int    `json:"descendant_depth"`
	MaxNodes        int    `json:"max_nodes,omitempty"`

	// Layout options. Zero fields use the layout defaults.
	Box layout.Options `json:"box"`

	// Render options.
	Formats       []string `json:"formats,omitempty"`
	Palette       string   `json:"palette,omitempty"`
	SelectedID    string   `json:"selected_id,omitempty"`
	Detailed      bool     `json:"detailed,omitempty"`
	NoSpouseLinks bool     `json:"no_spouse_links,omitempty"`
	NoBadges      bool     `json:"no_badges,omitempty"`
	Scale         float64  `json:"scale,omitempty"`
	Title         string   `json:"title,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// FromState returns options for the view held in s: its focus, depths, and
// selection.
func FromState(s state.AppState, formats ...string) Options {
	return Options{
		FocusID:         s.FocusPersonID,
		AncestorDepth:   s.AncestorDepth,
		DescendantDepth: s.DescendantDepth,
		SelectedID:      s.SelectedPersonID,
		Formats:         formats,
	}
}

// Result holds the outputs of one run.
type Result struct {
	// Tree is the positioned tree, nil when the focus names nobody.
	Tree   *tree.Node
	Bounds layout.Bounds

	// DataHash and LayoutHash identify the inputs of the layout and render
	// stages.
	DataHash   string
	LayoutHash string

	// Artifacts holds the rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	People     int
	Nodes      int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperr.New(apperr.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)",
			format, strings.Join(sortedKeys(ValidFormats), ", "))
	}
	return nil
}

// ValidateFormats checks every entry of formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePalette checks that name is a known palette.
func ValidatePalette(name string) error {
	if _, ok := render.Palettes[name]; !ok {
		names := make(map[string]bool, len(render.Palettes))
		for k := range render.Palettes {
			names[k] = true
		}
		return apperr.New(apperr.ErrCodeInvalidInput, "invalid palette: %q (must be one of: %s)",
			name, strings.Join(sortedKeys(names), ", "))
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.AncestorDepth = state.ClampDepth(o.AncestorDepth)
	o.DescendantDepth = state.ClampDepth(o.DescendantDepth)
	if o.MaxNodes == 0 {
		o.MaxNodes = tree.DefaultMaxNodes
	}
	o.Box = o.Box.Normalized()

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Palette == "" {
		o.Palette = DefaultPalette
	}
	if err := ValidatePalette(o.Palette); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// TreeOptions returns the build options.
func (o *Options) TreeOptions() tree.Options {
	return tree.Options{
		AncestorDepth:   o.AncestorDepth,
		DescendantDepth: o.DescendantDepth,
		MaxNodes:        o.MaxNodes,
	}
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Focus:           o.FocusID,
		AncestorDepth:   o.AncestorDepth,
		DescendantDepth: o.DescendantDepth,
		MaxNodes:        o.MaxNodes,
		NodeWidth:       o.Box.NodeWidth,
		NodeHeight:      o.Box.NodeHeight,
		Spacing:         o.Box.Spacing,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:      format,
		Palette:     o.Palette,
		Selected:    o.SelectedID,
		SpouseLinks: !o.NoSpouseLinks,
		Badges:      !o.NoBadges,
	}
	switch format {
	case FormatSVG, FormatPDF:
		k.Title = o.Title
	case FormatPNG:
		k.Title = o.Title
		k.Scale = o.Scale
	case FormatDOT, FormatGraphviz:
		k.Detailed = o.Detailed
		k.Selected = ""
		k.SpouseLinks, k.Badges = true, true
	case FormatJSON:
		k = cache.ArtifactKeyOpts{Format: format}
	}
	return k
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s Stats) String() string {
	return fmt.Sprintf("%d people, %d nodes, layout %s, render %s",
		s.People, s.Nodes, s.LayoutTime.Round(time.Microsecond), s.RenderTime.Round(time.Microsecond))
}
