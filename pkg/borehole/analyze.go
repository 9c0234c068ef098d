package borehole

// Discontinuities returns the indices of layers whose start does not meet
// the previous layer's end within the same borehole, i.e. gaps and overlaps
// in the logged column. The input must already be in drawing order.
//
// The first layer compares against itself so it can never be flagged, and
// boundaries between different boreholes are never flagged either. Float
// comparison is exact: a layer starting at 2.0000001 after one ending at 2
// is a discontinuity, because the log said so.
//
// The result is diagnostic only. Drawing proceeds regardless.
func Discontinuities(layers []Layer) []int {
	var flagged []int
	for i, l := range layers {
		prevEnd := l.Start
		prevBorehole := l.Borehole
		if i > 0 {
			prevEnd = layers[i-1].End
			prevBorehole = layers[i-1].Borehole
		}
		if prevEnd != l.Start && prevBorehole == l.Borehole {
			flagged = append(flagged, i)
		}
	}
	return flagged
}
