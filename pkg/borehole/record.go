// Package borehole defines the tabular input model for borehole logs and the
// sanitization pass that turns raw records into drawable layers.
//
// Input arrives as a Table: an ordered column list plus rows keyed by column
// name. Sanitize validates the schema, coerces the name and material fields,
// drops rows whose interval bounds are not natively numeric, and sorts the
// survivors into drawing order. Discontinuities reports gaps and overlaps
// between consecutive layers of the same borehole as a diagnostic.
package borehole

// Required input columns.
const (
	ColumnBorehole = "borehole_name"
	ColumnStart    = "start"
	ColumnEnd      = "end"
	ColumnMaterial = "material"
)

// UnspecifiedMaterial is the material assigned to rows with a missing or
// empty material field.
const UnspecifiedMaterial = "unspecified soil"

// RequiredColumns returns the columns every input table must declare.
func RequiredColumns() []string {
	return []string{ColumnBorehole, ColumnStart, ColumnEnd, ColumnMaterial}
}

// Row is one tabular record keyed by column name. Values keep the native
// type the loader produced: float64 for numeric cells, string for text,
// bool for booleans, nil for blanks.
type Row map[string]any

// Table is a column-aware record set. Schema presence is judged on Columns:
// a column can be declared while a given row's value is nil.
type Table struct {
	Columns []string `json:"columns" bson:"columns"`
	Rows    []Row    `json:"rows" bson:"rows"`
}

// HasColumn reports whether the table declares the named column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the required columns absent from the table schema,
// in canonical column order.
func (t Table) MissingColumns() []string {
	var missing []string
	for _, c := range RequiredColumns() {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Layer is one sanitized material interval of a borehole.
type Layer struct {
	Borehole string  `json:"borehole_name" bson:"borehole_name"`
	Start    float64 `json:"start" bson:"start"`
	End      float64 `json:"end" bson:"end"`
	Material string  `json:"material" bson:"material"`
}

// Materials returns the distinct material names in first-appearance order.
// The order is load-bearing: palette synthesis and legend stacking follow it.
func Materials(layers []Layer) []string {
	var names []string
	seen := make(map[string]bool, len(layers))
	for _, l := range layers {
		if !seen[l.Material] {
			seen[l.Material] = true
			names = append(names, l.Material)
		}
	}
	return names
}

// Boreholes returns the distinct borehole names in first-appearance order.
// Ordinal position in this slice determines horizontal placement.
func Boreholes(layers []Layer) []string {
	var names []string
	seen := make(map[string]bool, len(layers))
	for _, l := range layers {
		if !seen[l.Borehole] {
			seen[l.Borehole] = true
			names = append(names, l.Borehole)
		}
	}
	return names
}
