package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/observability"
	"github.com/matzehuels/familytree/pkg/render"
	"github.com/matzehuels/familytree/pkg/store"
	"github.com/matzehuels/familytree/pkg/tree"
)

// Runner executes the pipeline with caching. It holds no per-run state and
// is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// cache.DefaultKeyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute builds, lays out, and renders d around opts.FocusID.
//
// An unknown or empty focus is not an error: the result has a nil Tree and
// the artifacts show the empty placeholder.
func (r *Runner) Execute(ctx context.Context, d *family.FamilyData, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}
	if d != nil {
		result.Stats.People = len(d.People)
	}

	layoutStart := time.Now()
	root, bounds, layoutData, hit, err := r.LayoutWithCacheInfo(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	result.Tree = root
	result.Bounds = bounds
	result.Stats.Nodes = countPeople(root)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit
	result.LayoutHash = cache.Hash(layoutData)
	if data, err := store.MarshalJSON(d); err == nil {
		result.DataHash = cache.Hash(data)
	}

	r.Logger.Info("computed layout",
		"focus", opts.FocusID,
		"nodes", result.Stats.Nodes,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, root, bounds, layoutData, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo builds and lays out the tree, or loads it from the
// cache. It also returns the tree's JSON encoding, which keys the render
// stage.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, d *family.FamilyData, opts Options) (*tree.Node, layout.Bounds, []byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, layout.Bounds{}, nil, false, err
	}

	dataJSON, err := store.MarshalJSON(d)
	if err != nil {
		return nil, layout.Bounds{}, nil, false, err
	}
	key := r.Keyer.LayoutKey(cache.Hash(dataJSON), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if doc, err := render.UnmarshalTree(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return doc.Tree(), doc.Bounds, data, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "stage", "layout", "error", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	root, bounds, err := BuildAndLayout(ctx, d, opts)
	if err != nil {
		return nil, layout.Bounds{}, nil, false, err
	}
	data, err := render.MarshalTree(root, opts.FocusID, bounds)
	if err != nil {
		return nil, layout.Bounds{}, nil, false, err
	}
	r.store(ctx, "layout", key, data, cache.TTLLayout)
	return root, bounds, data, false, nil
}

// RenderWithCacheInfo renders every requested format, serving them from the
// cache only when all of them are present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, root *tree.Node, bounds layout.Bounds, layoutData []byte, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(ctx, root, bounds, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range artifacts {
		r.store(ctx, "artifact", r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "stage", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func countPeople(root *tree.Node) int {
	if root == nil {
		return 0
	}
	n := root.Count()
	if root.IsSynthetic() {
		n--
	}
	return n
}
