// Package loader reads borehole record tables from the formats they arrive
// in: XLSX workbooks (the dominant source in practice), CSV exports, and
// JSON record arrays.
//
// Loaders preserve cell types instead of stringifying everything: numeric
// spreadsheet cells become float64, text stays text, blanks become nil.
// Downstream validation depends on that distinction, so a number stored as
// text is deliberately NOT parsed.
package loader

import (
	"path/filepath"
	"strings"

	"github.com/borelog/borelog/pkg/borehole"
	"github.com/borelog/borelog/pkg/errors"
)

// Load reads the table at path, dispatching on the file extension. The
// sheet argument only applies to workbook formats and selects the sheet by
// name; empty means the first sheet.
func Load(path, sheet string) (borehole.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FromXLSX(path, sheet)
	case ".csv":
		return FromCSV(path)
	case ".json":
		return FromJSON(path)
	default:
		return borehole.Table{}, errors.New(errors.ErrCodeInvalidInput,
			"unsupported input file %q (expected .xlsx, .xlsm, .csv or .json)", path)
	}
}
