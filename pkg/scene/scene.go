// Package scene builds the format-independent drawing plan for a borehole
// log: named styled layers, filled boxes, and positioned text. A Scene is
// computed once per drawing and never mutated afterward; render sinks only
// read it.
package scene

import (
	"unicode/utf8"

	"github.com/borelog/borelog/pkg/palette"
)

// Fixed drawing layers. Material layers are created alongside these, named
// after the material itself.
const (
	LayerLegendBoxes   = "legend_boxes"
	LayerLegendText    = "legend_text"
	LayerDimensionText = "dimension_text"
	LayerBoreholeBoxes = "borehole_boxes"
	LayerBoreholeText  = "borehole_text"
)

// Alignment positions a text string relative to its anchor point.
type Alignment string

const (
	// AlignLeft anchors the baseline start at the point.
	AlignLeft Alignment = "left"
	// AlignCenter anchors the baseline center at the point.
	AlignCenter Alignment = "center"
	// AlignMiddleRight anchors the vertical middle of the right edge.
	AlignMiddleRight Alignment = "middle_right"
)

// LayerStyle declares a named drawing layer and its color. Fills and text
// inherit the color of the layer they live on.
type LayerStyle struct {
	Name  string      `json:"name" bson:"name"`
	Color palette.RGB `json:"color" bson:"color"`
}

// FilledBox is a rectangle whose outline and fill live on two layers: the
// outline on a fixed white layer, the fill on the material layer that gives
// it its color. Formats with native fill association (DXF hatches) bind the
// fill to the outline; others just paint both.
type FilledBox struct {
	X1 float64 `json:"x1" bson:"x1"`
	Y1 float64 `json:"y1" bson:"y1"`
	X2 float64 `json:"x2" bson:"x2"`
	Y2 float64 `json:"y2" bson:"y2"`

	Outline string `json:"outline" bson:"outline"`
	Fill    string `json:"fill" bson:"fill"`
}

// Text is one positioned string.
type Text struct {
	X      float64   `json:"x" bson:"x"`
	Y      float64   `json:"y" bson:"y"`
	Value  string    `json:"value" bson:"value"`
	Height float64   `json:"height" bson:"height"`
	Layer  string    `json:"layer" bson:"layer"`
	Align  Alignment `json:"align" bson:"align"`
}

// Scene is the complete drawing plan.
type Scene struct {
	Layers []LayerStyle `json:"layers" bson:"layers"`
	Boxes  []FilledBox  `json:"boxes" bson:"boxes"`
	Texts  []Text       `json:"texts" bson:"texts"`
}

// LayerColor returns the color of the named layer, defaulting to white for
// unknown names so preview sinks always have something to paint with.
func (s Scene) LayerColor(name string) palette.RGB {
	for _, l := range s.Layers {
		if l.Name == name {
			return l.Color
		}
	}
	return palette.RGB{R: 255, G: 255, B: 255}
}

// Bounds returns the extent of the drawing content. Text extents are
// estimated from height and rune count, which is plenty for fitting a
// preview viewport. ok is false for a scene with no boxes and no texts.
func (s Scene) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	grow := func(x, y float64) {
		if !ok {
			minX, minY, maxX, maxY = x, y, x, y
			ok = true
			return
		}
		minX = min(minX, x)
		minY = min(minY, y)
		maxX = max(maxX, x)
		maxY = max(maxY, y)
	}

	for _, b := range s.Boxes {
		grow(b.X1, b.Y1)
		grow(b.X2, b.Y2)
	}

	// Rough glyph advance relative to text height.
	const advance = 0.62
	for _, t := range s.Texts {
		width := advance * t.Height * float64(utf8.RuneCountInString(t.Value))
		switch t.Align {
		case AlignCenter:
			grow(t.X-width/2, t.Y)
			grow(t.X+width/2, t.Y+t.Height)
		case AlignMiddleRight:
			grow(t.X-width, t.Y-t.Height/2)
			grow(t.X, t.Y+t.Height/2)
		default:
			grow(t.X, t.Y)
			grow(t.X+width, t.Y+t.Height)
		}
	}
	return minX, minY, maxX, maxY, ok
}
