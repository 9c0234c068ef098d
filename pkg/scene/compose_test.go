package scene

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/borelog/borelog/pkg/borehole"
	"github.com/borelog/borelog/pkg/layout"
	"github.com/borelog/borelog/pkg/palette"
)

var testColors = palette.Map{
	"clay": {R: 100, G: 50, B: 0},
	"sand": {R: 255, G: 204, B: 0},
}

func depthBoxes(t *testing.T) []layout.Box {
	t.Helper()
	layers := []borehole.Layer{
		{Borehole: "A", Start: 0, End: 2, Material: "clay"},
		{Borehole: "A", Start: 2, End: 5, Material: "sand"},
		{Borehole: "B", Start: 0, End: 3, Material: "clay"},
	}
	return layout.Compute(layers, layout.Params{Thickness: 1, Spacing: 5})
}

func TestBuildLayers(t *testing.T) {
	s := Build(depthBoxes(t), []string{"clay", "sand"}, testColors, Options{})

	want := []LayerStyle{
		{Name: "clay", Color: palette.RGB{R: 100, G: 50, B: 0}},
		{Name: "sand", Color: palette.RGB{R: 255, G: 204, B: 0}},
		{Name: LayerLegendBoxes, Color: palette.RGB{R: 255, G: 255, B: 255}},
		{Name: LayerLegendText, Color: palette.RGB{R: 255, G: 255, B: 255}},
		{Name: LayerDimensionText, Color: palette.RGB{R: 255, G: 255, B: 255}},
		{Name: LayerBoreholeBoxes, Color: palette.RGB{R: 255, G: 255, B: 255}},
		{Name: LayerBoreholeText, Color: palette.RGB{R: 255, G: 255, B: 255}},
	}
	if diff := cmp.Diff(want, s.Layers); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildLayersCollision(t *testing.T) {
	colors := palette.Map{"legend_text": {R: 1, G: 2, B: 3}}
	s := Build(nil, []string{"legend_text"}, colors, Options{})

	count := 0
	for _, l := range s.Layers {
		if l.Name == "legend_text" {
			count++
			if l.Color != (palette.RGB{R: 1, G: 2, B: 3}) {
				t.Errorf("first registration lost: %v", l.Color)
			}
		}
	}
	if count != 1 {
		t.Errorf("layer %q registered %d times, want 1", "legend_text", count)
	}
}

func TestBuildLogBoxes(t *testing.T) {
	s := Build(depthBoxes(t), []string{"clay", "sand"}, testColors, Options{})

	want := []FilledBox{
		{X1: 0, Y1: 0, X2: 1, Y2: -2, Outline: LayerBoreholeBoxes, Fill: "clay"},
		{X1: 0, Y1: -2, X2: 1, Y2: -5, Outline: LayerBoreholeBoxes, Fill: "sand"},
		{X1: 6, Y1: 0, X2: 7, Y2: -3, Outline: LayerBoreholeBoxes, Fill: "clay"},
	}
	if diff := cmp.Diff(want, s.Boxes); diff != "" {
		t.Errorf("boxes mismatch (-want +got):\n%s", diff)
	}
	if len(s.Texts) != 0 {
		t.Errorf("texts = %v, want none with all toggles off", s.Texts)
	}
}

func TestBuildLegend(t *testing.T) {
	s := Build(nil, []string{"clay", "sand"}, testColors, Options{Legend: true})

	wantBoxes := []FilledBox{
		{
			X1: legendX, Y1: -legendBoxHeight,
			X2: legendX + legendBoxWidth, Y2: 0,
			Outline: LayerLegendBoxes, Fill: "clay",
		},
		{
			X1: legendX, Y1: -legendBoxHeight - (legendBoxHeight + legendBoxGap),
			X2: legendX + legendBoxWidth, Y2: -(legendBoxHeight + legendBoxGap),
			Outline: LayerLegendBoxes, Fill: "sand",
		},
	}
	if diff := cmp.Diff(wantBoxes, s.Boxes); diff != "" {
		t.Errorf("legend boxes mismatch (-want +got):\n%s", diff)
	}

	wantTexts := []Text{
		{
			X: legendX + legendBoxWidth + legendLabelPad, Y: -legendBoxHeight,
			Value: "clay", Height: legendBoxHeight, Layer: LayerLegendText, Align: AlignLeft,
		},
		{
			X: legendX + legendBoxWidth + legendLabelPad, Y: -legendBoxHeight - (legendBoxHeight + legendBoxGap),
			Value: "sand", Height: legendBoxHeight, Layer: LayerLegendText, Align: AlignLeft,
		},
	}
	if diff := cmp.Diff(wantTexts, s.Texts); diff != "" {
		t.Errorf("legend texts mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDimensions(t *testing.T) {
	s := Build(depthBoxes(t), []string{"clay", "sand"}, testColors, Options{Dimensions: true})

	// Boreholes A and B each label their boundaries; the shared boundary at
	// depth 2 in borehole A appears exactly once.
	want := []Text{
		{X: -0.5, Y: 0, Value: "0", Height: 0.5, Layer: LayerDimensionText, Align: AlignMiddleRight},
		{X: -0.5, Y: -2, Value: "2", Height: 0.5, Layer: LayerDimensionText, Align: AlignMiddleRight},
		{X: -0.5, Y: -5, Value: "5", Height: 0.5, Layer: LayerDimensionText, Align: AlignMiddleRight},
		{X: 5.5, Y: 0, Value: "0", Height: 0.5, Layer: LayerDimensionText, Align: AlignMiddleRight},
		{X: 5.5, Y: -3, Value: "3", Height: 0.5, Layer: LayerDimensionText, Align: AlignMiddleRight},
	}
	if diff := cmp.Diff(want, s.Texts); diff != "" {
		t.Errorf("dimension texts mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDimensionFormatting(t *testing.T) {
	layers := []borehole.Layer{
		{Borehole: "A", Start: 0, End: 2.5, Material: "clay"},
		{Borehole: "A", Start: 2.5, End: 3.14159, Material: "sand"},
	}
	boxes := layout.Compute(layers, layout.Params{Thickness: 1, Spacing: 5})

	s := Build(boxes, []string{"clay", "sand"}, testColors, Options{Dimensions: true})

	var values []string
	for _, txt := range s.Texts {
		values = append(values, txt.Value)
	}
	want := []string{"0", "2.5", "3.14"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("label values mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildNames(t *testing.T) {
	s := Build(depthBoxes(t), []string{"clay", "sand"}, testColors, Options{Names: true})

	want := []Text{
		{X: 0.5, Y: 2, Value: "A", Height: 0.5, Layer: LayerBoreholeText, Align: AlignCenter},
		{X: 6.5, Y: 2, Value: "B", Height: 0.5, Layer: LayerBoreholeText, Align: AlignCenter},
	}
	if diff := cmp.Diff(want, s.Texts); diff != "" {
		t.Errorf("name texts mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildNamesAboveTopmostEdge(t *testing.T) {
	// Elevation mode without draw-on-zero keeps raw y values; the label sits
	// above the higher edge of the borehole's first box.
	layers := []borehole.Layer{
		{Borehole: "A", Start: 100, End: 95, Material: "clay"},
	}
	boxes := layout.Compute(layers, layout.Params{Thickness: 1, Spacing: 5, Elevation: true})

	s := Build(boxes, []string{"clay"}, testColors, Options{Names: true})

	if len(s.Texts) != 1 {
		t.Fatalf("texts = %d, want 1", len(s.Texts))
	}
	if s.Texts[0].Y != 102 {
		t.Errorf("name y = %v, want 102", s.Texts[0].Y)
	}
}

func TestBuildEmptyWorkingSet(t *testing.T) {
	s := Build(nil, nil, palette.Map{}, Options{Legend: true, Dimensions: true, Names: true})

	if len(s.Layers) != 5 {
		t.Errorf("layers = %d, want the 5 fixed layers", len(s.Layers))
	}
	if len(s.Boxes) != 0 || len(s.Texts) != 0 {
		t.Errorf("boxes/texts = %d/%d, want 0/0", len(s.Boxes), len(s.Texts))
	}
}

func TestFormatDimension(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5"},
		{2.5, "2.5"},
		{3.14159, "3.14"},
		{-0.125, "-0.13"},
		{0.125, "0.13"},
		{100, "100"},
	}
	for _, tt := range tests {
		if got := formatDimension(tt.in); got != tt.want {
			t.Errorf("formatDimension(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
