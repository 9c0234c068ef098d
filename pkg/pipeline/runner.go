package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/borelog/borelog/pkg/borehole"
	"github.com/borelog/borelog/pkg/cache"
	"github.com/borelog/borelog/pkg/layout"
	"github.com/borelog/borelog/pkg/observability"
	"github.com/borelog/borelog/pkg/palette"
	"github.com/borelog/borelog/pkg/render"
	"github.com/borelog/borelog/pkg/scene"
)

// Runner encapsulates pipeline execution with artifact caching. Both the
// CLI and the render service use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete sanitize → layout → render pipeline.
//
// Structural failures (missing columns, unknown palette, bad color config,
// encoding errors) abort the run. Dropped rows and depth discontinuities
// are diagnostics: they are counted on the Result and logged, never fatal.
func (r *Runner) Execute(ctx context.Context, table borehole.Table, opts Options) (*Result, error) {
	// Logger first: Validate defaults an unset logger to io.Discard, which
	// would silently win over the runner's.
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	formats, err := opts.ParsedFormats()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Sanitize
	observability.Pipeline().OnSanitizeStart(ctx, len(table.Rows))
	sanitizeStart := time.Now()
	var layers []borehole.Layer
	var dropped int
	if opts.Strict {
		layers, err = borehole.SanitizeStrict(table, opts.Elevation)
	} else {
		layers, dropped, err = borehole.Sanitize(table, opts.Elevation)
	}
	if err != nil {
		observability.Pipeline().OnSanitizeComplete(ctx, 0, 0, time.Since(sanitizeStart), err)
		return nil, err
	}
	result.Layers = layers
	result.Dropped = dropped
	result.Materials = borehole.Materials(layers)
	result.Flagged = borehole.Discontinuities(layers)
	result.Stats.SanitizeTime = time.Since(sanitizeStart)
	result.Stats.LayerCount = len(layers)
	result.Stats.BoreholeCount = len(borehole.Boreholes(layers))
	observability.Pipeline().OnSanitizeComplete(ctx, result.Stats.LayerCount, result.Stats.BoreholeCount, result.Stats.SanitizeTime, nil)

	// Content hash for cache keys and API responses.
	if data, err := json.Marshal(layers); err == nil {
		result.LayersHash = cache.Hash(data)
	}

	if dropped > 0 {
		opts.Logger.Warn("dropped rows with invalid interval values", "count", dropped)
	}
	if len(result.Flagged) > 0 {
		opts.Logger.Warn("layer intervals do not line up", "count", len(result.Flagged))
	}
	opts.Logger.Info("sanitized records",
		"rows", len(table.Rows),
		"layers", result.Stats.LayerCount,
		"boreholes", result.Stats.BoreholeCount,
		"duration", result.Stats.SanitizeTime)

	// Stage 2: Colors (fast, not timed separately)
	colors, source, err := palette.Resolve(opts.Colors, result.Materials, opts.Colorscale, opts.Logger)
	if err != nil {
		return nil, err
	}
	result.Colors = colors
	result.ColorSource = source

	// Stage 3: Layout
	observability.Pipeline().OnLayoutStart(ctx, len(layers))
	layoutStart := time.Now()
	boxes := layout.Compute(layers, opts.LayoutParams())
	plan := scene.Build(boxes, result.Materials, colors, opts.SceneOptions())
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, result.Stats.LayoutTime, nil)

	opts.Logger.Info("assembled drawing plan",
		"boxes", len(plan.Boxes),
		"texts", len(plan.Texts),
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, renderHit, err := r.renderScene(ctx, plan, result.LayersHash, colors, formats, opts)
	if err != nil {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, nil)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// renderScene encodes the drawing plan in every requested format, serving
// all of them from the cache when possible. A single miss re-renders
// everything: encoding is cheap once the plan exists, and partial reuse is
// not worth a second bookkeeping path.
func (r *Runner) renderScene(ctx context.Context, plan scene.Scene, layersHash string, colors palette.Map, formats []render.Format, opts Options) (map[string][]byte, bool, error) {
	if layersHash != "" {
		artifacts := make(map[string][]byte, len(formats))
		allCached := true
		for _, format := range formats {
			key := r.Keyer.ArtifactKey(layersHash, opts.ArtifactKeyOpts(string(format), colors))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				allCached = false
				break
			}
			artifacts[string(format)] = data
		}
		if allCached && len(artifacts) == len(formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	rendered := make(map[string][]byte, len(formats))
	for _, format := range formats {
		data, err := render.Encode(plan, format, render.Options{PNGScale: opts.PNGScale})
		if err != nil {
			return nil, false, err
		}
		rendered[string(format)] = data
	}

	if layersHash != "" {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(layersHash, opts.ArtifactKeyOpts(format, colors))
			_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
