package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/familytree/pkg/cache"
	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/render"
	"github.com/matzehuels/familytree/pkg/state"
	"github.com/matzehuels/familytree/pkg/tree"
)

// mapCache is an in-memory cache that counts writes.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) Close() error { return nil }

var _ cache.Cache = (*mapCache)(nil)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"graphviz", false},
		{"json", false},
		{"SVG", true},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !apperr.Is(err, apperr.ErrCodeInvalidInput) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, apperr.GetCode(err))
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{
		FocusID:         "p1",
		AncestorDepth:   -3,
		DescendantDepth: 99,
		Formats:         []string{"svg", "json", "svg"},
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.AncestorDepth != 0 || opts.DescendantDepth != tree.MaxDepth {
		t.Errorf("depths = %d/%d, want 0/%d", opts.AncestorDepth, opts.DescendantDepth, tree.MaxDepth)
	}
	if opts.MaxNodes != tree.DefaultMaxNodes {
		t.Errorf("MaxNodes = %d", opts.MaxNodes)
	}
	if len(opts.Formats) != 2 {
		t.Errorf("Formats = %v, want duplicates removed", opts.Formats)
	}
	if opts.Palette != DefaultPalette || opts.Scale != DefaultScale || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if opts.Box.NodeWidth != 150 || opts.Box.NodeHeight != 80 || opts.Box.Spacing != 20 {
		t.Errorf("Box = %+v, want layout defaults", opts.Box)
	}

	bad := Options{Palette: "neon"}
	if err := bad.ValidateAndSetDefaults(); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("unknown palette error = %v", err)
	}
}

func TestFromState(t *testing.T) {
	s := state.WithData(family.Demo())
	s.FocusPersonID = "p3"
	s.SelectedPersonID = "p5"
	s.AncestorDepth = 1

	opts := FromState(s, FormatJSON)
	if opts.FocusID != "p3" || opts.SelectedID != "p5" || opts.AncestorDepth != 1 || opts.DescendantDepth != tree.DefaultDepth {
		t.Errorf("FromState = %+v", opts)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v", opts.Formats)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	res, err := r.Execute(ctx, family.Demo(), Options{
		FocusID:         "p1",
		AncestorDepth:   tree.DefaultDepth,
		DescendantDepth: tree.DefaultDepth,
		Formats:         []string{FormatSVG, FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Tree == nil || !res.Tree.IsSynthetic() {
		t.Fatal("demo p1 should merge ancestors under a synthetic root")
	}
	if res.Stats.People != 11 || res.Stats.Nodes != 8 {
		t.Errorf("Stats = %+v, want 11 people, 8 nodes", res.Stats)
	}
	if res.DataHash == "" || res.LayoutHash == "" {
		t.Error("hashes not set")
	}

	svg := string(res.Artifacts[FormatSVG])
	if got := strings.Count(svg, `class="person"`); got != 8 {
		t.Errorf("svg person boxes = %d, want 8", got)
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph family") {
		t.Error("dot artifact is not a digraph")
	}

	doc, err := render.UnmarshalTree(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if doc.FocusID != "p1" || doc.Nodes != 8 || doc.Bounds != res.Bounds {
		t.Errorf("json document = focus %q, %d nodes, bounds %+v", doc.FocusID, doc.Nodes, doc.Bounds)
	}
}

func TestExecuteWithoutFocus(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	for _, focus := range []string{"", "nobody"} {
		res, err := r.Execute(ctx, family.Demo(), Options{FocusID: focus, Formats: []string{FormatSVG, FormatJSON}})
		if err != nil {
			t.Fatalf("Execute(%q): %v", focus, err)
		}
		if res.Tree != nil {
			t.Errorf("focus %q: tree should be nil", focus)
		}
		if !strings.Contains(string(res.Artifacts[FormatSVG]), render.EmptyMessage) {
			t.Errorf("focus %q: svg should show the placeholder", focus)
		}
		var doc map[string]any
		if err := json.Unmarshal(res.Artifacts[FormatJSON], &doc); err != nil {
			t.Fatal(err)
		}
		if doc["root"] != nil {
			t.Errorf("focus %q: json root = %v, want null", focus, doc["root"])
		}
	}
}

func TestExecuteTooLarge(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), family.Demo(), Options{
		FocusID:         "p1",
		AncestorDepth:   4,
		DescendantDepth: 4,
		MaxNodes:        3,
	})
	if !apperr.Is(err, apperr.ErrCodeTreeTooLarge) {
		t.Errorf("error = %v, want TREE_TOO_LARGE", err)
	}
}

func TestExecuteCaching(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	r := NewRunner(c, nil, nil)
	opts := Options{FocusID: "p3", AncestorDepth: 1, DescendantDepth: 1, Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, family.Demo(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("cold run reported hits: %+v", first.CacheInfo)
	}
	if c.sets != 3 {
		t.Errorf("cache writes = %d, want layout + 2 artifacts", c.sets)
	}

	second, err := r.Execute(ctx, family.Demo(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("warm run missed: %+v", second.CacheInfo)
	}
	if string(second.Artifacts[FormatSVG]) != string(first.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from the rendered one")
	}
	if second.Tree.Find("p5") == nil {
		t.Error("tree restored from cache lost p5")
	}

	// Selecting someone changes only the drawing.
	opts.SelectedID = "p5"
	third, err := r.Execute(ctx, family.Demo(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("selection change: %+v, want layout hit and render miss", third.CacheInfo)
	}

	// Editing the data invalidates everything.
	d := family.Demo()
	d.People[2].Notes = "edited"
	fourth, err := r.Execute(ctx, d, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.LayoutHit {
		t.Error("edited data hit the layout cache")
	}

	opts.Refresh = true
	fifth, err := r.Execute(ctx, d, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fifth.CacheInfo.LayoutHit || fifth.CacheInfo.RenderHit {
		t.Errorf("refresh run reported hits: %+v", fifth.CacheInfo)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{SelectedID: "p2", Detailed: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if k := opts.ArtifactKeyOpts(FormatDOT); k.Selected != "" || !k.Detailed {
		t.Errorf("dot key = %+v, want detail without selection", k)
	}
	if k := opts.ArtifactKeyOpts(FormatSVG); k.Selected != "p2" || k.Detailed {
		t.Errorf("svg key = %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatPNG); k.Scale != DefaultScale {
		t.Errorf("png key scale = %v", k.Scale)
	}
}

func TestZeroSpacingSurvivesDefaults(t *testing.T) {
	tests := []struct {
		name string
		box  layout.Options
		want layout.Options
	}{
		{"unset box", layout.Options{}, layout.DefaultOptions()},
		{"touching boxes", layout.Options{NodeWidth: 120, NodeHeight: 60}, layout.Options{NodeWidth: 120, NodeHeight: 60}},
		{"negative spacing", layout.Options{NodeWidth: 120, NodeHeight: 60, Spacing: -5}, layout.Options{NodeWidth: 120, NodeHeight: 60, Spacing: layout.DefaultSpacing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Box: tt.box}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				t.Fatal(err)
			}
			if opts.Box != tt.want {
				t.Errorf("Box = %+v, want %+v", opts.Box, tt.want)
			}
			if opts.Box != tt.box.Normalized() {
				t.Errorf("pipeline box %+v disagrees with layout %+v", opts.Box, tt.box.Normalized())
			}
		})
	}
}

func TestTitleChangesRenderedArtifact(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMapCache(), nil, nil)
	opts := Options{FocusID: "p1", Formats: []string{FormatSVG, FormatDOT}, Title: "Smith family"}

	first, err := r.Execute(ctx, family.Demo(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(first.Artifacts[FormatSVG]), "Smith family") {
		t.Fatal("svg is missing its title")
	}

	opts.Title = "Johnson family"
	second, err := r.Execute(ctx, family.Demo(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheInfo.RenderHit {
		t.Error("retitled render was served from cache")
	}
	svg := string(second.Artifacts[FormatSVG])
	if !strings.Contains(svg, "Johnson family") || strings.Contains(svg, "Smith family") {
		t.Error("svg carries a stale title")
	}
}

func TestTitleKeysOnlyDrawnFormats(t *testing.T) {
	opts := Options{Title: "Smith family"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	for _, format := range []string{FormatSVG, FormatPNG, FormatPDF} {
		if k := opts.ArtifactKeyOpts(format); k.Title != "Smith family" {
			t.Errorf("%s key title = %q", format, k.Title)
		}
	}
	for _, format := range []string{FormatDOT, FormatGraphviz, FormatJSON} {
		if k := opts.ArtifactKeyOpts(format); k.Title != "" {
			t.Errorf("%s key title = %q, want none", format, k.Title)
		}
	}
}

func TestExtension(t *testing.T) {
	if got := Extension(FormatGraphviz); got != ".graphviz.svg" {
		t.Errorf("Extension(graphviz) = %q", got)
	}
	if got := Extension(FormatPDF); got != ".pdf" {
		t.Errorf("Extension(pdf) = %q", got)
	}
}
