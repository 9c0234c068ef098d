// Package palette resolves material colors for borehole drawings.
//
// Colors come from one of two places: a user-supplied mapping of material
// name to color (RGB components, hex string, or named color), or a named
// qualitative palette sampled evenly across the material set. User mappings
// are validated all-or-nothing: one missing material or one bad value
// discards the whole mapping and resolution falls back to the palette.
package palette

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/borelog/borelog/pkg/errors"
)

// RGB is a color triple with 8-bit components.
type RGB struct {
	R uint8 `json:"r" bson:"r"`
	G uint8 `json:"g" bson:"g"`
	B uint8 `json:"b" bson:"b"`
}

// Hex returns the color as a lowercase #rrggbb string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Map assigns a color to each material name.
type Map map[string]RGB

// Source reports where a resolved color map came from.
type Source string

const (
	SourceUser    Source = "user"
	SourcePalette Source = "palette"
)

// baseColors are the single-letter color shorthands with their conventional
// plotting-library values. Checked before the SVG name table so "g" keeps
// its muted green rather than matching nothing.
var baseColors = map[string]RGB{
	"b": {0, 0, 255},
	"g": {0, 127, 0},
	"r": {255, 0, 0},
	"c": {0, 191, 191},
	"m": {191, 0, 191},
	"y": {191, 191, 0},
	"k": {0, 0, 0},
	"w": {255, 255, 255},
}

// Parse converts a single color specification into an RGB triple.
// Accepted forms:
//   - a length-3 slice of numbers, each in [0,255] (fractions truncate)
//   - a hex string: #rgb or #rrggbb
//   - a named color: SVG 1.1 names or the single-letter shorthands
func Parse(v any) (RGB, error) {
	switch x := v.(type) {
	case string:
		return parseString(x)
	default:
		comps, ok := components(v)
		if !ok {
			return RGB{}, fmt.Errorf("unsupported color value %#v", v)
		}
		return parseComponents(comps)
	}
}

func parseString(s string) (RGB, error) {
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid hex color %q", s)
		}
		r, g, b := c.RGB255()
		return RGB{r, g, b}, nil
	}
	if c, ok := baseColors[s]; ok {
		return c, nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return RGB{c.R, c.G, c.B}, nil
	}
	return RGB{}, fmt.Errorf("unknown color name %q", s)
}

func parseComponents(comps []float64) (RGB, error) {
	if len(comps) != 3 {
		return RGB{}, fmt.Errorf("color needs exactly 3 components, got %d", len(comps))
	}
	for _, c := range comps {
		if c < 0 || c > 255 {
			return RGB{}, fmt.Errorf("color component %v out of range [0, 255]", c)
		}
	}
	return RGB{uint8(comps[0]), uint8(comps[1]), uint8(comps[2])}, nil
}

// components normalizes the slice shapes loaders and callers produce.
func components(v any) ([]float64, bool) {
	switch x := v.(type) {
	case []float64:
		return x, true
	case []int:
		out := make([]float64, len(x))
		for i, c := range x {
			out[i] = float64(c)
		}
		return out, true
	case []any:
		out := make([]float64, len(x))
		for i, c := range x {
			f, ok := numeric(c)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	default:
		return nil, false
	}
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

// EvaluateUser validates a user-supplied color mapping against the material
// set. Validation is all-or-nothing: every material needs a key and every
// value must parse, otherwise the result is (nil, false) and each failure is
// logged against its material. Partial acceptance would silently mix user
// and synthesized colors, which is worse than either alone.
func EvaluateUser(colors map[string]any, materials []string, logger *log.Logger) (Map, bool) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	resolved := make(Map, len(materials))
	ok := true
	for _, m := range materials {
		v, found := colors[m]
		if !found {
			logger.Info("no color specified for material", "material", m)
			ok = false
			continue
		}
		c, err := Parse(v)
		if err != nil {
			logger.Info("invalid color for material", "material", m, "reason", err)
			ok = false
			continue
		}
		resolved[m] = c
	}

	if !ok {
		return nil, false
	}
	return resolved, true
}

// Resolve produces the final material color map.
//
// A nil cfg synthesizes colors from the named scale. A mapping cfg is
// evaluated via EvaluateUser and falls back to the scale when rejected.
// Any other cfg type is a configuration error.
func Resolve(cfg any, materials []string, scale string, logger *log.Logger) (Map, Source, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	userColors, ok := normalizeMapping(cfg)
	switch {
	case cfg == nil:
		// No user colors: synthesize below.
	case !ok:
		return nil, "", errors.New(errors.ErrCodeInvalidColorConfig,
			"colors must map material names to color values, got %T", cfg)
	default:
		if resolved, accepted := EvaluateUser(userColors, materials, logger); accepted {
			return resolved, SourceUser, nil
		}
		logger.Info("user color map rejected, falling back to palette", "palette", scale)
	}

	resolved, err := FromScale(scale, materials)
	if err != nil {
		return nil, "", err
	}
	return resolved, SourcePalette, nil
}

func normalizeMapping(cfg any) (map[string]any, bool) {
	switch c := cfg.(type) {
	case map[string]any:
		return c, true
	case map[string]string:
		out := make(map[string]any, len(c))
		for k, v := range c {
			out[k] = v
		}
		return out, true
	default:
		return nil, false
	}
}
