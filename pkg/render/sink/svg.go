package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/borelog/borelog/pkg/scene"
)

const (
	svgMargin      = 2.0  // drawing units of padding around the content
	svgUnitPixels  = 24.0 // width/height attribute scale in px per unit
	svgStrokeWidth = 0.05 // outline width in drawing units

	// Model-space canvas. The fixed layers are white by CAD convention, so
	// previews keep the dark editor background they were drawn for.
	svgBackground = "#1c1c1c"
	svgFontFamily = "Helvetica, Arial, sans-serif"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	margin     float64
}

// WithSVGBackground overrides the canvas color.
func WithSVGBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithSVGMargin sets the padding around the content in drawing units.
func WithSVGMargin(units float64) SVGOption {
	return func(r *svgRenderer) { r.margin = units }
}

var svgEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// RenderSVG encodes the scene as a standalone SVG preview. Scene
// coordinates grow upward; the emitter flips them into SVG screen space and
// fits the viewBox to the content bounds plus a margin.
func RenderSVG(s scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{background: svgBackground, margin: svgMargin}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY, ok := s.Bounds()
	if !ok {
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}
	width := maxX - minX + 2*r.margin
	height := maxY - minY + 2*r.margin
	tx := func(x float64) float64 { return x - minX + r.margin }
	ty := func(y float64) float64 { return maxY - y + r.margin }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %g %g" width="%.0f" height="%.0f">`+"\n",
		width, height, width*svgUnitPixels, height*svgUnitPixels)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)

	for _, b := range s.Boxes {
		x := tx(min(b.X1, b.X2))
		y := ty(max(b.Y1, b.Y2))
		w := max(b.X1, b.X2) - min(b.X1, b.X2)
		h := max(b.Y1, b.Y2) - min(b.Y1, b.Y2)
		fmt.Fprintf(&buf, `  <rect x="%g" y="%g" width="%g" height="%g" fill="%s" stroke="%s" stroke-width="%g"/>`+"\n",
			x, y, w, h, s.LayerColor(b.Fill).Hex(), s.LayerColor(b.Outline).Hex(), svgStrokeWidth)
	}

	for _, t := range s.Texts {
		anchor, baseline := svgTextAnchor(t.Align)
		fmt.Fprintf(&buf, `  <text x="%g" y="%g" font-size="%g" font-family="%s" fill="%s" text-anchor="%s" dominant-baseline="%s">%s</text>`+"\n",
			tx(t.X), ty(t.Y), t.Height, svgFontFamily, s.LayerColor(t.Layer).Hex(), anchor, baseline, svgEscaper.Replace(t.Value))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// svgTextAnchor maps a scene alignment onto SVG text-anchor and
// dominant-baseline values.
func svgTextAnchor(a scene.Alignment) (anchor, baseline string) {
	switch a {
	case scene.AlignCenter:
		return "middle", "auto"
	case scene.AlignMiddleRight:
		return "end", "central"
	default:
		return "start", "auto"
	}
}
