// Package render dispatches a composed drawing scene to the output sinks.
//
// # Overview
//
// A [scene.Scene] is format independent; this package maps a format name to
// the sink that encodes it:
//
//   - dxf: the primary CAD deliverable ([sink.RenderDXF])
//   - svg: vector preview ([sink.RenderSVG])
//   - png: raster preview ([sink.RenderPNG])
//   - json: geometry export for external tools ([sink.RenderJSON])
//
// Typical usage:
//
//	f, err := render.ParseFormat("dxf")
//	data, err := render.Encode(sc, f, render.Options{})
//
// [scene.Scene]: github.com/borelog/borelog/pkg/scene.Scene
// [sink.RenderDXF]: github.com/borelog/borelog/pkg/render/sink.RenderDXF
// [sink.RenderSVG]: github.com/borelog/borelog/pkg/render/sink.RenderSVG
// [sink.RenderPNG]: github.com/borelog/borelog/pkg/render/sink.RenderPNG
// [sink.RenderJSON]: github.com/borelog/borelog/pkg/render/sink.RenderJSON
package render

import (
	"strings"

	"github.com/borelog/borelog/pkg/errors"
	"github.com/borelog/borelog/pkg/render/sink"
	"github.com/borelog/borelog/pkg/scene"
)

// Format identifies an output encoding.
type Format string

const (
	FormatDXF  Format = "dxf"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// DefaultPNGScale is the raster resolution in pixels per drawing unit.
const DefaultPNGScale = 32.0

// Formats lists every supported format, primary deliverable first.
func Formats() []Format {
	return []Format{FormatDXF, FormatSVG, FormatPNG, FormatJSON}
}

// ParseFormat normalizes a format name (case, surrounding space, a leading
// extension dot) and validates it.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, ".")
	f := Format(name)
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unknown output format %q (must be one of dxf, svg, png, json)", s)
}

// Options carries sink tuning that is not part of the scene itself.
type Options struct {
	// PNGScale is the raster resolution in pixels per drawing unit.
	// Zero means DefaultPNGScale.
	PNGScale float64
}

// Encode renders the scene in the given format.
func Encode(s scene.Scene, format Format, opts Options) ([]byte, error) {
	switch format {
	case FormatDXF:
		return sink.RenderDXF(s)
	case FormatSVG:
		return sink.RenderSVG(s), nil
	case FormatPNG:
		scale := opts.PNGScale
		if scale <= 0 {
			scale = DefaultPNGScale
		}
		return sink.RenderPNG(s, sink.WithScale(scale))
	case FormatJSON:
		return sink.RenderJSON(s)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unknown output format %q (must be one of dxf, svg, png, json)", string(format))
	}
}
