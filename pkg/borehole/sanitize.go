package borehole

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/borelog/borelog/pkg/errors"
)

// Sanitize validates the table schema and reduces it to the drawable working
// set. It returns the surviving layers sorted into drawing order, the number
// of rows dropped for non-numeric interval bounds, and an error when the
// schema itself is unusable.
//
// Coercion rules:
//   - borehole_name and material accept any scalar and never fail; floats
//     format with minimal digits (101.0 becomes "101").
//   - a missing or empty material becomes UnspecifiedMaterial.
//   - start and end are valid only when already numeric. String-encoded
//     numbers do not count: a "5" in a spreadsheet column that should be
//     numeric is malformed input, and dropping the row surfaces that.
//
// Sort order is (borehole ascending, start ascending) in depth mode and
// (borehole ascending, start descending) in elevation mode, stable on ties.
func Sanitize(t Table, elevation bool) ([]Layer, int, error) {
	if missing := t.MissingColumns(); len(missing) > 0 {
		return nil, 0, errors.New(errors.ErrCodeInvalidSchema,
			"missing required columns: %s", strings.Join(missing, ", "))
	}

	layers := make([]Layer, 0, len(t.Rows))
	dropped := 0
	for _, row := range t.Rows {
		start, okStart := numericValue(row[ColumnStart])
		end, okEnd := numericValue(row[ColumnEnd])
		if !okStart || !okEnd {
			dropped++
			continue
		}
		layers = append(layers, Layer{
			Borehole: coerceString(row[ColumnBorehole]),
			Start:    start,
			End:      end,
			Material: coerceMaterial(row[ColumnMaterial]),
		})
	}

	sortLayers(layers, elevation)
	return layers, dropped, nil
}

// SanitizeStrict is Sanitize with row drops promoted to errors: the first
// non-numeric interval bound aborts the pass and names the offending cell.
// Useful when malformed input should fail a run instead of shrinking it.
func SanitizeStrict(t Table, elevation bool) ([]Layer, error) {
	if missing := t.MissingColumns(); len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidSchema,
			"missing required columns: %s", strings.Join(missing, ", "))
	}

	layers := make([]Layer, 0, len(t.Rows))
	for i, row := range t.Rows {
		start, ok := numericValue(row[ColumnStart])
		if !ok {
			return nil, invalidCell(ColumnStart, i, row[ColumnStart])
		}
		end, ok := numericValue(row[ColumnEnd])
		if !ok {
			return nil, invalidCell(ColumnEnd, i, row[ColumnEnd])
		}
		layers = append(layers, Layer{
			Borehole: coerceString(row[ColumnBorehole]),
			Start:    start,
			End:      end,
			Material: coerceMaterial(row[ColumnMaterial]),
		})
	}

	sortLayers(layers, elevation)
	return layers, nil
}

func invalidCell(column string, row int, value any) error {
	cell := &errors.CellError{
		Column: column,
		Row:    row,
		Reason: fmt.Sprintf("non-numeric value %#v", value),
	}
	return errors.Wrap(errors.ErrCodeInvalidSchema, cell, "table failed validation")
}

func sortLayers(layers []Layer, elevation bool) {
	slices.SortStableFunc(layers, func(a, b Layer) int {
		if c := strings.Compare(a.Borehole, b.Borehole); c != 0 {
			return c
		}
		if elevation {
			return cmp.Compare(b.Start, a.Start)
		}
		return cmp.Compare(a.Start, b.Start)
	})
}

// numericValue accepts only native numeric types. Strings, bools and nil
// make the value invalid regardless of content.
func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

// coerceString renders any scalar as a string. Floats use the minimal
// representation so spreadsheet-typed names like 101.0 read back as "101".
func coerceString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func coerceMaterial(v any) string {
	s := coerceString(v)
	if s == "" {
		return UnspecifiedMaterial
	}
	return s
}
