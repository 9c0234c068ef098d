// Package pkg provides the core libraries for Borelog borehole drawing.
//
// # Overview
//
// Borelog transforms tabular geotechnical records into CAD-ready section
// drawings where each borehole becomes a column of material layers. The pkg
// directory is organized into four main areas:
//
//  1. [borehole] - Domain model (record tables, sanitized layers)
//  2. [pipeline] - Orchestration (sanitize → layout → render)
//  3. [render] - Output encoding (DXF, SVG, PNG, JSON)
//  4. [cache] - Artifact and table caching (files, Redis)
//
// # Architecture
//
// The typical data flow through Borelog:
//
//	XLSX/CSV/JSON records
//	         ↓
//	    [borehole] package (sanitize intervals)
//	         ↓
//	    [layout] package (column geometry)
//	         ↓
//	    [scene] package (drawing plan: boxes, labels, legend)
//	         ↓
//	    [render] package (encode formats)
//	         ↓
//	    DXF/SVG/PNG/JSON output
//
// # Quick Start
//
// Load a record table and render a borehole section:
//
//	import (
//	    "context"
//	    "github.com/borelog/borelog/pkg/loader"
//	    "github.com/borelog/borelog/pkg/pipeline"
//	)
//
//	// 1. Load records
//	table, _ := loader.Load("site.xlsx", "")
//
//	// 2. Run the pipeline
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), table, pipeline.Options{
//	    Formats: []string{"dxf", "svg"},
//	})
//
//	// 3. Use the artifacts
//	data := result.Artifacts["dxf"]
//
// # Main Packages
//
// ## Domain Model
//
// [borehole] - Record table model and sanitizing. Parses start/end interval
// values, supports both depth and elevation conventions, drops (or, in strict
// mode, rejects) invalid rows, and flags layers that do not continue the
// layer above them.
//
// [palette] - Embedded ColorBrewer palettes and material color resolution.
// Explicit color configuration wins over palette assignment; palette colors
// go to materials in order of first appearance.
//
// ## Geometry and Rendering
//
// [layout] - Column geometry. Computes one rectangle per layer from the
// configured column thickness and spacing, stacking layers by interval.
//
// [scene] - Drawing plan assembly. Adds the material legend, borehole name
// labels, and start/end dimension labels, and organizes everything into
// named CAD layers.
//
// [render] - Format registry and scene encoding. One entry point,
// [render.Encode], fans out to the per-format sinks.
//
//   - [render/sink]: encoders for DXF, SVG, PNG, and JSON
//   - [dxf]: minimal DXF writer (R12 entities and layer table)
//
// ## Input
//
// [loader] - Record table loading from XLSX workbooks (first sheet or a
// named one), CSV files, and JSON arrays. All loaders produce the same
// [borehole.Table], so the pipeline never knows the source format.
//
// ## Infrastructure
//
// [pipeline] - Complete drawing pipeline (sanitize → layout → render) used
// by CLI and render service. Ensures a drawing produced over HTTP is
// byte-for-byte what the draw command would write.
//
// [cache] - Cache backends for rendered artifacts and loaded tables.
// FileCache for the CLI (filesystem), RedisCache for the render service,
// NullCache to disable caching. Keys are content-addressed; entries carry
// TTLs.
//
// [errors] - Coded errors. Every failure surfaced to users carries a stable
// code (FILE_NOT_FOUND, INVALID_INPUT, UNKNOWN_PALETTE, ...) that the CLI
// prints and the render service maps onto HTTP statuses.
//
// [observability] - Optional instrumentation hooks for pipeline stages,
// cache operations, and API requests.
//
// [buildinfo] - Version metadata injected at build time via ldflags.
//
// # Common Workflows
//
// Sanitize records without rendering:
//
//	layers, dropped, _ := borehole.Sanitize(table, false)
//	flagged := borehole.Discontinuities(layers)
//
// Override material colors:
//
//	opts := pipeline.Options{
//	    Colors: map[string]any{"sand": "#fbb4ae", "clay": []any{179, 205, 227}},
//	}
//
// Render a drawing plan directly:
//
//	boxes := layout.Compute(layers, layout.Params{Thickness: 1, Spacing: 5})
//	plan := scene.Build(boxes, materials, colors, scene.Options{Legend: true})
//	svg, _ := sink.RenderSVG(plan)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/borehole/...           # Specific package
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [borehole]: https://pkg.go.dev/github.com/borelog/borelog/pkg/borehole
// [palette]: https://pkg.go.dev/github.com/borelog/borelog/pkg/palette
// [layout]: https://pkg.go.dev/github.com/borelog/borelog/pkg/layout
// [scene]: https://pkg.go.dev/github.com/borelog/borelog/pkg/scene
// [render]: https://pkg.go.dev/github.com/borelog/borelog/pkg/render
// [render.Encode]: https://pkg.go.dev/github.com/borelog/borelog/pkg/render#Encode
// [render/sink]: https://pkg.go.dev/github.com/borelog/borelog/pkg/render/sink
// [dxf]: https://pkg.go.dev/github.com/borelog/borelog/pkg/dxf
// [loader]: https://pkg.go.dev/github.com/borelog/borelog/pkg/loader
// [borehole.Table]: https://pkg.go.dev/github.com/borelog/borelog/pkg/borehole#Table
// [pipeline]: https://pkg.go.dev/github.com/borelog/borelog/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/borelog/borelog/pkg/cache
// [errors]: https://pkg.go.dev/github.com/borelog/borelog/pkg/errors
// [observability]: https://pkg.go.dev/github.com/borelog/borelog/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/borelog/borelog/pkg/buildinfo
package pkg
