// Package layout computes 2D box geometry for sanitized borehole layers.
//
// Horizontal placement depends only on borehole ordinal and the configured
// thickness and spacing. Vertical placement depends on the interval bounds
// and the elevation/draw-on-zero mode. Compute is a pure function over its
// inputs: no state survives a call.
package layout

import (
	"github.com/borelog/borelog/pkg/borehole"
)

// Params controls box geometry.
type Params struct {
	Thickness  float64 // horizontal width of every borehole column
	Spacing    float64 // horizontal gap between adjacent columns
	Elevation  bool    // interval bounds are elevations, not depths
	DrawOnZero bool    // elevation mode only: shift each borehole's top to 0
}

// Box is the drawable extent of one layer. X1 <= X2 always; Y1 is the
// start-side edge and Y2 the end-side edge, so Y1 > Y2 for a layer drawn
// downward.
type Box struct {
	borehole.Layer
	X1 float64 `json:"x1" bson:"x1"`
	X2 float64 `json:"x2" bson:"x2"`
	Y1 float64 `json:"y1" bson:"y1"`
	Y2 float64 `json:"y2" bson:"y2"`
}

// Compute derives one Box per layer. The input must already be in drawing
// order: borehole ordinals follow first appearance, and each borehole's
// reference start (for draw-on-zero normalization) is taken from its first
// layer in slice order.
//
// Vertical modes:
//   - elevation with draw-on-zero: y = value - borehole start
//   - elevation without: y = value unchanged
//   - depth (draw-on-zero irrelevant): y = -value, so depth grows downward
func Compute(layers []borehole.Layer, p Params) []Box {
	ordinals := make(map[string]int)
	starts := make(map[string]float64)
	for _, l := range layers {
		if _, seen := ordinals[l.Borehole]; !seen {
			ordinals[l.Borehole] = len(ordinals)
			starts[l.Borehole] = l.Start
		}
	}

	boxes := make([]Box, len(layers))
	for i, l := range layers {
		x1 := float64(ordinals[l.Borehole]) * (p.Thickness + p.Spacing)

		var y1, y2 float64
		switch {
		case p.Elevation && p.DrawOnZero:
			y1 = l.Start - starts[l.Borehole]
			y2 = l.End - starts[l.Borehole]
		case p.Elevation:
			y1 = l.Start
			y2 = l.End
		default:
			y1 = -l.Start
			y2 = -l.End
		}

		boxes[i] = Box{
			Layer: l,
			X1:    x1,
			X2:    x1 + p.Thickness,
			Y1:    y1,
			Y2:    y2,
		}
	}
	return boxes
}
