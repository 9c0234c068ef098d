package palette

import (
	"github.com/borelog/borelog/pkg/errors"
)

// DefaultScale is the palette used when no colors are configured.
const DefaultScale = "Pastel1"

// Palette is a named qualitative color sequence. Qualitative palettes are
// finite and discrete: sampling maps a position in [0,1] onto one of the
// listed colors, it never interpolates.
type Palette struct {
	Name   string `json:"name" bson:"name"`
	Colors []RGB  `json:"colors" bson:"colors"`
}

// The embedded qualitative set. Values are the ColorBrewer and Tableau
// tables these names conventionally refer to, fixed here so output is
// reproducible across platforms.
var palettes = []Palette{
	{Name: "Pastel1", Colors: []RGB{
		{251, 180, 174}, {179, 205, 227}, {204, 235, 197}, {222, 203, 228},
		{254, 217, 166}, {255, 255, 204}, {229, 216, 189}, {253, 218, 236},
		{242, 242, 242},
	}},
	{Name: "Pastel2", Colors: []RGB{
		{179, 226, 205}, {253, 205, 172}, {203, 213, 232}, {244, 202, 228},
		{230, 245, 201}, {255, 242, 174}, {241, 226, 204}, {204, 204, 204},
	}},
	{Name: "Paired", Colors: []RGB{
		{166, 206, 227}, {31, 120, 180}, {178, 223, 138}, {51, 160, 44},
		{251, 154, 153}, {227, 26, 28}, {253, 191, 111}, {255, 127, 0},
		{202, 178, 214}, {106, 61, 154}, {255, 255, 153}, {177, 89, 40},
	}},
	{Name: "Accent", Colors: []RGB{
		{127, 201, 127}, {190, 174, 212}, {253, 192, 134}, {255, 255, 153},
		{56, 108, 176}, {240, 2, 127}, {191, 91, 23}, {102, 102, 102},
	}},
	{Name: "Dark2", Colors: []RGB{
		{27, 158, 119}, {217, 95, 2}, {117, 112, 179}, {231, 41, 138},
		{102, 166, 30}, {230, 171, 2}, {166, 118, 29}, {102, 102, 102},
	}},
	{Name: "Set1", Colors: []RGB{
		{228, 26, 28}, {55, 126, 184}, {77, 175, 74}, {152, 78, 163},
		{255, 127, 0}, {255, 255, 51}, {166, 86, 40}, {247, 129, 191},
		{153, 153, 153},
	}},
	{Name: "Set2", Colors: []RGB{
		{102, 194, 165}, {252, 141, 98}, {141, 160, 203}, {231, 138, 195},
		{166, 216, 84}, {255, 217, 47}, {229, 196, 148}, {179, 179, 179},
	}},
	{Name: "Set3", Colors: []RGB{
		{141, 211, 199}, {255, 255, 179}, {190, 186, 218}, {251, 128, 114},
		{128, 177, 211}, {253, 180, 98}, {179, 222, 105}, {252, 205, 229},
		{217, 217, 217}, {188, 128, 189}, {204, 235, 197}, {255, 237, 111},
	}},
	{Name: "tab10", Colors: []RGB{
		{31, 119, 180}, {255, 127, 14}, {44, 160, 44}, {214, 39, 40},
		{148, 103, 189}, {140, 86, 75}, {227, 119, 194}, {127, 127, 127},
		{188, 189, 34}, {23, 190, 207},
	}},
	{Name: "tab20", Colors: []RGB{
		{31, 119, 180}, {174, 199, 232}, {255, 127, 14}, {255, 187, 120},
		{44, 160, 44}, {152, 223, 138}, {214, 39, 40}, {255, 152, 150},
		{148, 103, 189}, {197, 176, 213}, {140, 86, 75}, {196, 156, 148},
		{227, 119, 194}, {247, 182, 210}, {127, 127, 127}, {199, 199, 199},
		{188, 189, 34}, {219, 219, 141}, {23, 190, 207}, {158, 218, 229},
	}},
	{Name: "tab20b", Colors: []RGB{
		{57, 59, 121}, {82, 84, 163}, {107, 110, 207}, {156, 158, 222},
		{99, 121, 57}, {140, 162, 82}, {181, 207, 107}, {206, 219, 156},
		{140, 109, 49}, {189, 158, 57}, {231, 186, 82}, {231, 203, 148},
		{132, 60, 57}, {173, 73, 74}, {214, 97, 107}, {231, 150, 156},
		{123, 65, 115}, {165, 81, 148}, {206, 109, 189}, {222, 158, 214},
	}},
	{Name: "tab20c", Colors: []RGB{
		{49, 130, 189}, {107, 174, 214}, {158, 202, 225}, {198, 219, 239},
		{230, 85, 13}, {253, 141, 60}, {253, 174, 107}, {253, 208, 162},
		{49, 163, 84}, {116, 196, 118}, {161, 217, 155}, {199, 233, 192},
		{117, 107, 177}, {158, 154, 200}, {188, 189, 220}, {218, 218, 235},
		{99, 99, 99}, {150, 150, 150}, {189, 189, 189}, {217, 217, 217},
	}},
}

// Names returns the embedded palette names in display order.
func Names() []string {
	out := make([]string, len(palettes))
	for i, p := range palettes {
		out[i] = p.Name
	}
	return out
}

// Lookup returns the named palette. Names are case-sensitive.
func Lookup(name string) (Palette, bool) {
	for _, p := range palettes {
		if p.Name == name {
			return p, true
		}
	}
	return Palette{}, false
}

// All returns every embedded palette in display order.
func All() []Palette {
	out := make([]Palette, len(palettes))
	copy(out, palettes)
	return out
}

// Sample draws n colors from the named palette at evenly spaced positions
// i/(n-1) across [0,1] (a single sample lands on 0). Position x maps to
// color index int(x*N) clamped to the last entry, so small material sets
// spread across the palette instead of clustering at its start.
func Sample(name string, n int) ([]RGB, error) {
	p, ok := Lookup(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownPalette, "unknown palette: %q", name)
	}
	if n <= 0 {
		return []RGB{}, nil
	}

	size := len(p.Colors)
	out := make([]RGB, n)
	for i := range out {
		x := 0.0
		if n > 1 {
			x = float64(i) / float64(n-1)
		}
		idx := int(x * float64(size))
		if idx >= size {
			idx = size - 1
		}
		out[i] = p.Colors[idx]
	}
	return out, nil
}

// FromScale assigns palette samples to materials in the given order.
func FromScale(name string, materials []string) (Map, error) {
	samples, err := Sample(name, len(materials))
	if err != nil {
		return nil, err
	}
	resolved := make(Map, len(materials))
	for i, m := range materials {
		resolved[m] = samples[i]
	}
	return resolved, nil
}
