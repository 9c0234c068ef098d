package loader

import (
	stderrors "errors"
	"io/fs"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/borelog/borelog/pkg/borehole"
	"github.com/borelog/borelog/pkg/errors"
)

// SheetNames returns the sheet names of the workbook at path in workbook
// order.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "workbook %q not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "opening workbook %q", path)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// FromXLSX reads one sheet of a workbook. An empty sheet name selects the
// first sheet. The header row provides column names; cells keep their
// spreadsheet types (number, text, bool), blank cells become nil.
func FromXLSX(path, sheet string) (borehole.Table, error) {
	if sheet != "" {
		if err := errors.ValidateSheetName(sheet); err != nil {
			return borehole.Table{}, err
		}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return borehole.Table{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "workbook %q not found", path)
		}
		return borehole.Table{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "opening workbook %q", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return borehole.Table{}, errors.New(errors.ErrCodeInvalidInput, "workbook %q has no sheets", path)
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return borehole.Table{}, errors.New(errors.ErrCodeInvalidSheet,
			"sheet %q not found in %q (available: %s)", sheet, path, strings.Join(sheets, ", "))
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return borehole.Table{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading sheet %q", sheet)
	}
	if len(raw) == 0 {
		return borehole.Table{}, nil
	}

	columns := make([]string, len(raw[0]))
	for i, name := range raw[0] {
		columns[i] = strings.TrimSpace(name)
	}

	rows := make([]borehole.Row, 0, len(raw)-1)
	for r, record := range raw[1:] {
		row := make(borehole.Row, len(columns))
		for c, name := range columns {
			var value string
			if c < len(record) {
				value = record[c]
			}
			row[name] = cellValue(f, sheet, c, r+1, value)
		}
		rows = append(rows, row)
	}

	return borehole.Table{Columns: columns, Rows: rows}, nil
}

// cellValue converts a raw cell string to its typed value. col and row are
// zero-based table coordinates.
func cellValue(f *excelize.File, sheet string, col, row int, raw string) any {
	if raw == "" {
		return nil
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row+2) // +2 skips the header row
	if err != nil {
		return raw
	}
	ct, err := f.GetCellType(sheet, axis)
	if err != nil {
		return raw
	}

	switch ct {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeNumber, excelize.CellTypeUnset, excelize.CellTypeFormula:
		// Numeric cells carry no explicit type attribute, so they surface
		// as unset. Formula cells contribute their cached result.
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
		return raw
	default:
		// Shared strings, inline strings, dates, errors: keep the text.
		return raw
	}
}
