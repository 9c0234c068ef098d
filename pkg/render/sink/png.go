package sink

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"

	"github.com/borelog/borelog/pkg/scene"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale  float64
	margin float64
}

// WithScale sets the raster resolution in pixels per drawing unit
// (default 32).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGMargin sets the padding around the content in drawing units.
func WithPNGMargin(units float64) PNGOption {
	return func(r *pngRenderer) { r.margin = units }
}

// RenderPNG rasterizes the scene. Geometry scales with the configured
// resolution; labels use the built-in bitmap face, which is fixed-size but
// plenty for a preview.
func RenderPNG(s scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 32, margin: svgMargin}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 32
	}

	minX, minY, maxX, maxY, ok := s.Bounds()
	if !ok {
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}
	width := int(math.Ceil((maxX - minX + 2*r.margin) * r.scale))
	height := int(math.Ceil((maxY - minY + 2*r.margin) * r.scale))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	tx := func(x float64) float64 { return (x - minX + r.margin) * r.scale }
	ty := func(y float64) float64 { return (maxY - y + r.margin) * r.scale }

	dc := gg.NewContext(width, height)
	dc.SetHexColor(svgBackground)
	dc.Clear()

	lineWidth := math.Max(1, svgStrokeWidth*r.scale)
	for _, b := range s.Boxes {
		x := tx(min(b.X1, b.X2))
		y := ty(max(b.Y1, b.Y2))
		w := (max(b.X1, b.X2) - min(b.X1, b.X2)) * r.scale
		h := (max(b.Y1, b.Y2) - min(b.Y1, b.Y2)) * r.scale

		fill := s.LayerColor(b.Fill)
		outline := s.LayerColor(b.Outline)

		dc.DrawRectangle(x, y, w, h)
		dc.SetRGB255(int(fill.R), int(fill.G), int(fill.B))
		dc.FillPreserve()
		dc.SetRGB255(int(outline.R), int(outline.G), int(outline.B))
		dc.SetLineWidth(lineWidth)
		dc.Stroke()
	}

	for _, t := range s.Texts {
		c := s.LayerColor(t.Layer)
		dc.SetRGB255(int(c.R), int(c.G), int(c.B))
		ax, ay := pngAnchor(t.Align)
		dc.DrawStringAnchored(t.Value, tx(t.X), ty(t.Y), ax, ay)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pngAnchor maps a scene alignment onto DrawStringAnchored fractions.
func pngAnchor(a scene.Alignment) (ax, ay float64) {
	switch a {
	case scene.AlignCenter:
		return 0.5, 0
	case scene.AlignMiddleRight:
		return 1, 0.5
	default:
		return 0, 0
	}
}
