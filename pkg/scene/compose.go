package scene

import (
	"math"
	"strconv"

	"github.com/borelog/borelog/pkg/layout"
	"github.com/borelog/borelog/pkg/palette"
)

// Legend geometry. The legend stacks downward from y=0 at a fixed offset
// left of the first borehole column.
const (
	legendX         = -20.0
	legendBoxHeight = 1.0
	legendBoxGap    = 0.5
	legendBoxWidth  = 1.618 // golden ratio to the box height
	legendLabelPad  = 1.0
)

const (
	dimensionOffset = 0.5 // label distance left of the box edge
	dimensionHeight = 0.5
	nameHeight      = 0.5
	nameClearance   = 2.0 // label distance above the topmost box edge
)

// Options toggles the optional drawing sections. Log boxes are always drawn.
type Options struct {
	Legend     bool
	Dimensions bool
	Names      bool
}

// Build assembles the drawing plan from computed geometry and resolved
// colors. materials carries the first-appearance order that legend stacking
// and layer creation follow; colors must cover every material in it.
func Build(boxes []layout.Box, materials []string, colors palette.Map, opts Options) Scene {
	var s Scene

	s.Layers = buildLayers(materials, colors)
	s.Boxes = make([]FilledBox, 0, len(boxes))
	for _, b := range boxes {
		s.Boxes = append(s.Boxes, FilledBox{
			X1: b.X1, Y1: b.Y1, X2: b.X2, Y2: b.Y2,
			Outline: LayerBoreholeBoxes,
			Fill:    b.Material,
		})
	}

	if opts.Legend {
		buildLegend(&s, materials)
	}
	if opts.Dimensions {
		buildDimensions(&s, boxes)
	}
	if opts.Names {
		buildNames(&s, boxes)
	}
	return s
}

// buildLayers registers material layers first (in first-appearance order),
// then the fixed white layers. Duplicate names keep their first
// registration, so a material that happens to be called "legend_text"
// cannot restyle the legend.
func buildLayers(materials []string, colors palette.Map) []LayerStyle {
	white := palette.RGB{R: 255, G: 255, B: 255}
	fixed := []string{
		LayerLegendBoxes,
		LayerLegendText,
		LayerDimensionText,
		LayerBoreholeBoxes,
		LayerBoreholeText,
	}

	layers := make([]LayerStyle, 0, len(materials)+len(fixed))
	seen := make(map[string]bool, len(materials)+len(fixed))
	for _, m := range materials {
		if seen[m] {
			continue
		}
		seen[m] = true
		layers = append(layers, LayerStyle{Name: m, Color: colors[m]})
	}
	for _, name := range fixed {
		if seen[name] {
			continue
		}
		seen[name] = true
		layers = append(layers, LayerStyle{Name: name, Color: white})
	}
	return layers
}

func buildLegend(s *Scene, materials []string) {
	for i, material := range materials {
		yBottom := -legendBoxHeight - float64(i)*(legendBoxHeight+legendBoxGap)

		s.Boxes = append(s.Boxes, FilledBox{
			X1: legendX, Y1: yBottom,
			X2: legendX + legendBoxWidth, Y2: yBottom + legendBoxHeight,
			Outline: LayerLegendBoxes,
			Fill:    material,
		})
		s.Texts = append(s.Texts, Text{
			X:      legendX + legendBoxWidth + legendLabelPad,
			Y:      yBottom,
			Value:  material,
			Height: legendBoxHeight,
			Layer:  LayerLegendText,
			Align:  AlignLeft,
		})
	}
}

// buildDimensions labels the start and end of every box at its left edge.
// Adjacent layers share a boundary, so an exact (x, y, text) repeat of an
// earlier label is suppressed; same position with different text still
// draws both.
func buildDimensions(s *Scene, boxes []layout.Box) {
	type key struct {
		x, y float64
		text string
	}
	drawn := make(map[key]bool)

	emit := func(x, y float64, text string) {
		k := key{x, y, text}
		if drawn[k] {
			return
		}
		drawn[k] = true
		s.Texts = append(s.Texts, Text{
			X:      x,
			Y:      y,
			Value:  text,
			Height: dimensionHeight,
			Layer:  LayerDimensionText,
			Align:  AlignMiddleRight,
		})
	}

	for _, b := range boxes {
		x := b.X1 - dimensionOffset
		emit(x, b.Y1, formatDimension(b.Start))
		emit(x, b.Y2, formatDimension(b.End))
	}
}

func buildNames(s *Scene, boxes []layout.Box) {
	seen := make(map[string]bool)
	for _, b := range boxes {
		if seen[b.Borehole] {
			continue
		}
		seen[b.Borehole] = true
		s.Texts = append(s.Texts, Text{
			X:      (b.X1 + b.X2) / 2,
			Y:      math.Max(b.Y1, b.Y2) + nameClearance,
			Value:  b.Borehole,
			Height: nameHeight,
			Layer:  LayerBoreholeText,
			Align:  AlignCenter,
		})
	}
}

// formatDimension rounds to two decimals (half away from zero) and prints
// the minimal representation: 5 not 5.00, 2.5 not 2.50.
func formatDimension(v float64) string {
	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
