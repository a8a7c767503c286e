package pipeline

import (
	"context"
	"fmt"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/render"
	"github.com/matzehuels/familytree/pkg/tree"
)

// Render produces every format in opts.Formats from a positioned tree.
// opts must have been validated.
func Render(ctx context.Context, root *tree.Node, bounds layout.Bounds, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	palette := render.Palettes[opts.Palette]

	var svg []byte
	drawSVG := func() []byte {
		if svg == nil {
			svg = render.RenderSVG(root, svgOptions(opts, palette)...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = drawSVG()
		case FormatPNG:
			data, err = render.ToPNG(ctx, drawSVG(), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, drawSVG())
		case FormatDOT:
			data = []byte(render.ToDOT(root, opts.FocusID, dotOptions(opts, palette)))
		case FormatGraphviz:
			data, err = render.RenderDOT(ctx, render.ToDOT(root, opts.FocusID, dotOptions(opts, palette)))
		case FormatJSON:
			data, err = render.MarshalTree(root, opts.FocusID, bounds)
		default:
			err = apperr.New(apperr.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func svgOptions(opts Options, palette render.Palette) []render.SVGOption {
	svgOpts := []render.SVGOption{
		render.WithBox(opts.Box),
		render.WithPalette(palette),
		render.WithFocus(opts.FocusID),
		render.WithSelected(opts.SelectedID),
	}
	if opts.NoSpouseLinks {
		svgOpts = append(svgOpts, render.WithoutSpouseLinks())
	}
	if opts.NoBadges {
		svgOpts = append(svgOpts, render.WithoutBadges())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, render.WithTitle(opts.Title))
	}
	return svgOpts
}

func dotOptions(opts Options, palette render.Palette) render.DOTOptions {
	return render.DOTOptions{Detailed: opts.Detailed, Palette: &palette}
}
