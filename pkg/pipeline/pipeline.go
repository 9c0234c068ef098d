// Package pipeline provides the core drawing pipeline for borelog.
//
// This package implements the complete sanitize → layout → render pipeline
// shared by the CLI and the render service. Centralizing this logic keeps
// behavior identical across entry points: the same defaults, the same
// caching, the same diagnostics.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Sanitize: validate the record table and reduce it to ordered layers
//  2. Layout: compute box geometry and assemble the drawing plan
//  3. Render: encode the plan in the requested output formats
//
// Each run works on an already loaded record table; reading input files is
// the loader package's job, so callers that get their records elsewhere
// (HTTP request bodies, generated data) use the same pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats: []string{"dxf", "svg"},
//	}
//	result, err := runner.Execute(ctx, table, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	drawing := result.Artifacts["dxf"]
//
// Use Draw instead of Execute to also persist every format next to
// Options.Path.
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/borelog/borelog/pkg/borehole"
	"github.com/borelog/borelog/pkg/cache"
	"github.com/borelog/borelog/pkg/errors"
	"github.com/borelog/borelog/pkg/layout"
	"github.com/borelog/borelog/pkg/palette"
	"github.com/borelog/borelog/pkg/render"
	"github.com/borelog/borelog/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultThickness is the horizontal width of every borehole column in
	// drawing units.
	DefaultThickness = 1.0

	// DefaultSpacing is the horizontal gap between adjacent borehole
	// columns.
	DefaultSpacing = 5.0

	// DefaultPath is the output destination used when none is configured.
	DefaultPath = "borehole2D.dxf"
)

// DefaultColorscale is the palette used when no explicit colors are given.
const DefaultColorscale = palette.DefaultScale

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = string(render.FormatDXF)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the drawing pipeline. The struct
// supports JSON serialization for API requests and TOML for config files;
// both use the historical key names, so existing configs keep working.
//
// The default-on toggles (Legend, Names, Dimensions, DrawOnZero) are
// pointers so that an omitted key means "default", not "off". Use the
// Should* accessors instead of dereferencing.
type Options struct {
	// Geometry options
	Thickness  float64 `json:"borehole_thickness,omitempty" toml:"borehole_thickness"`
	Spacing    float64 `json:"space_between_boreholes,omitempty" toml:"space_between_boreholes"`
	Elevation  bool    `json:"elevation,omitempty" toml:"elevation"`
	DrawOnZero *bool   `json:"draw_on_zero,omitempty" toml:"draw_on_zero"`

	// Drawing section toggles
	Legend     *bool `json:"legend,omitempty" toml:"legend"`
	Names      *bool `json:"borehole_name,omitempty" toml:"borehole_name"`
	Dimensions *bool `json:"dimension,omitempty" toml:"dimension"`

	// Color options. Colors accepts a material → color mapping (hex
	// strings, named colors, or RGB triples); anything else non-nil is an
	// INVALID_COLOR_CONFIG error at resolve time.
	Colors     any    `json:"colors,omitempty" toml:"colors"`
	Colorscale string `json:"colorscale,omitempty" toml:"colorscale"`

	// Output options
	Path     string   `json:"path,omitempty" toml:"path"`
	Formats  []string `json:"formats,omitempty" toml:"formats"`
	PNGScale float64  `json:"png_scale,omitempty" toml:"png_scale"`

	// Strict makes the sanitizer fail on the first invalid interval value
	// instead of dropping the row.
	Strict bool `json:"strict,omitempty" toml:"strict"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether Validate has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layers is the sanitized working set in drawing order.
	Layers []borehole.Layer

	// LayersHash is the content hash of the working set.
	LayersHash string

	// Dropped counts rows removed for invalid interval values.
	Dropped int

	// Flagged lists working-set indices whose start does not continue the
	// previous layer of the same borehole.
	Flagged []int

	// Materials holds the distinct materials in first-appearance order.
	Materials []string

	// Colors is the resolved material → color mapping and ColorSource
	// reports where it came from.
	Colors      palette.Map
	ColorSource palette.Source

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Written lists the files persisted by Draw, in format order.
	Written []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayerCount    int
	BoreholeCount int
	SanitizeTime  time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for the cached stages.
type CacheInfo struct {
	TableHit  bool // set by callers that loaded the table through the cache
	RenderHit bool // whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that every requested format is known.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateColorscale checks that a palette name is embedded.
func ValidateColorscale(name string) error {
	if _, ok := palette.Lookup(name); !ok {
		return errors.New(errors.ErrCodeUnknownPalette,
			"unknown colorscale %q (available: %s)", name, strings.Join(palette.Names(), ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// Validate applies defaults and checks the requested formats, the
// colorscale, and the output path. This method is idempotent - calling it
// multiple times has the same effect as calling it once.
func (o *Options) Validate() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateColorscale(o.Colorscale); err != nil {
		return err
	}
	if err := errors.ValidateOutputPath(o.Path); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields with the package defaults.
func (o *Options) SetDefaults() {
	if o.Thickness == 0 {
		o.Thickness = DefaultThickness
	}
	if o.Spacing == 0 {
		o.Spacing = DefaultSpacing
	}
	if o.Colorscale == "" {
		o.Colorscale = DefaultColorscale
	}
	if o.Path == "" {
		o.Path = DefaultPath
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.PNGScale == 0 {
		o.PNGScale = render.DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ShouldLegend returns whether the material legend is drawn.
func (o *Options) ShouldLegend() bool {
	return o.Legend == nil || *o.Legend
}

// ShouldNames returns whether borehole name labels are drawn.
func (o *Options) ShouldNames() bool {
	return o.Names == nil || *o.Names
}

// ShouldDimensions returns whether start/end dimension labels are drawn.
func (o *Options) ShouldDimensions() bool {
	return o.Dimensions == nil || *o.Dimensions
}

// ShouldDrawOnZero returns whether elevation drawings are shifted so every
// borehole starts at zero.
func (o *Options) ShouldDrawOnZero() bool {
	return o.DrawOnZero == nil || *o.DrawOnZero
}

// ParsedFormats returns the requested formats in canonical form.
func (o *Options) ParsedFormats() ([]render.Format, error) {
	out := make([]render.Format, 0, len(o.Formats))
	for _, f := range o.Formats {
		parsed, err := render.ParseFormat(f)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}

// LayoutParams returns the geometry parameters for layout computation.
func (o *Options) LayoutParams() layout.Params {
	return layout.Params{
		Thickness:  o.Thickness,
		Spacing:    o.Spacing,
		Elevation:  o.Elevation,
		DrawOnZero: o.ShouldDrawOnZero(),
	}
}

// SceneOptions returns the drawing section toggles.
func (o *Options) SceneOptions() scene.Options {
	return scene.Options{
		Legend:     o.ShouldLegend(),
		Dimensions: o.ShouldDimensions(),
		Names:      o.ShouldNames(),
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format. The
// resolved colors are part of the key: the same layers drawn with a
// different mapping are a different artifact.
func (o *Options) ArtifactKeyOpts(format string, colors palette.Map) cache.ArtifactKeyOpts {
	hex := make(map[string]string, len(colors))
	for material, c := range colors {
		hex[material] = c.Hex()
	}
	return cache.ArtifactKeyOpts{
		Format:     format,
		Thickness:  o.Thickness,
		Spacing:    o.Spacing,
		Legend:     o.ShouldLegend(),
		Names:      o.ShouldNames(),
		Dimensions: o.ShouldDimensions(),
		Elevation:  o.Elevation,
		DrawOnZero: o.ShouldDrawOnZero(),
		Scale:      o.Colorscale,
		Colors:     hex,
		PNGScale:   o.PNGScale,
	}
}
