package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/pipeline"
	"github.com/matzehuels/familytree/pkg/render"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	view     viewFlags
	output   string
	formats  string
	palette  string
	selected string
	title    string
	scale    float64
	detailed bool
	noLinks  bool
	noBadges bool
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [focus-id]",
		Short: "Draw the tree around a person",
		Long: `Render lays out the ancestors and descendants of a focus person and writes
one file per requested format.

Formats: svg, png, pdf, dot, graphviz, json. PNG and PDF need rsvg-convert on
PATH. The graphviz format lays the same tree out with Graphviz instead of the
built-in tidy layout.`,
		Example: `  familytree render p1
  familytree render p1 -f svg,png -o smith
  familytree render p1 --ancestors 2 --descendants 1 --palette print -f pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	opts.view.register(cmd)
	f.StringVarP(&opts.output, "output", "o", "", "output path without extension (default familytree-<focus>)")
	f.StringVarP(&opts.formats, "format", "f", "", "comma-separated formats (default svg)")
	f.StringVar(&opts.palette, "palette", "", "color palette: "+strings.Join(paletteNames(), ", "))
	f.StringVar(&opts.selected, "selected", "", "highlight this person")
	f.StringVar(&opts.title, "title", "", "title drawn above the tree")
	f.Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	f.BoolVar(&opts.detailed, "detailed", false, "include dates in DOT labels")
	f.BoolVar(&opts.noLinks, "no-spouse-links", false, "omit lines between spouses")
	f.BoolVar(&opts.noBadges, "no-badges", false, "omit spouse count badges")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the layout and render cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	d, err := c.loadData(ctx)
	if err != nil {
		return err
	}
	focus, err := c.focusID(ctx, d, args)
	if err != nil {
		return err
	}
	if focus == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "the family is empty: add a person or run `familytree demo` first")
	}

	selected := opts.selected
	if selected != "" {
		if selected, err = resolveID(d, selected); err != nil {
			return err
		}
	}

	cfg := c.config()
	treeOpts := opts.view.options(c)
	palette := opts.palette
	if palette == "" {
		palette = cfg.View.Palette
	}

	popts := pipeline.Options{
		FocusID:         focus,
		AncestorDepth:   treeOpts.AncestorDepth,
		DescendantDepth: treeOpts.DescendantDepth,
		MaxNodes:        treeOpts.MaxNodes,
		Box:             cfg.LayoutOptions(),
		Formats:         parseFormats(opts.formats),
		Palette:         palette,
		SelectedID:      selected,
		Detailed:        opts.detailed,
		NoSpouseLinks:   opts.noLinks,
		NoBadges:        opts.noBadges,
		Scale:           opts.scale,
		Title:           opts.title,
		Refresh:         opts.refresh,
		Logger:          logger,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if needsConverter(popts.Formats) && !render.HasConverter() {
		return apperr.New(apperr.ErrCodeUnsupported, "png and pdf output need rsvg-convert on PATH")
	}

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, os.Stderr, c.out, "Rendering tree...")
	spinner.Start()
	result, err := runner.Execute(ctx, d, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	base := opts.output
	if base == "" {
		base = "familytree-" + shortID(focus)
	}
	paths, err := writeArtifacts(base, popts.Formats, result.Artifacts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d files", len(paths)))

	p, _ := d.Person(focus)
	c.out.success("Rendered the tree of %s", personStyle(p).Render(p.FullName()))
	for _, path := range paths {
		c.out.file(path)
	}
	c.out.stats(len(d.People), result.Stats.People, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	logger.Debug("pipeline stats", "stats", result.Stats.String())
	return nil
}

// writeArtifacts writes one file per format next to base.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidPath, err, "create output directory")
		}
	}
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + pipeline.Extension(format)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func needsConverter(formats []string) bool {
	return slices.Contains(formats, pipeline.FormatPNG) || slices.Contains(formats, pipeline.FormatPDF)
}

func paletteNames() []string {
	names := make([]string, 0, len(render.Palettes))
	for name := range render.Palettes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
