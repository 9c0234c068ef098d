package loader

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/borelog/borelog/pkg/borehole"
	"github.com/borelog/borelog/pkg/errors"
)

// FromCSV reads a comma-separated table. CSV carries no cell types, so
// values are inferred: parseable numbers become float64, empty fields
// become nil, everything else stays a string.
func FromCSV(path string) (borehole.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return borehole.Table{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %q not found", path)
		}
		return borehole.Table{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "opening %q", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return borehole.Table{}, nil
	}
	if err != nil {
		return borehole.Table{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading %q", path)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	var rows []borehole.Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return borehole.Table{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading %q", path)
		}

		row := make(borehole.Row, len(columns))
		for c, name := range columns {
			var value string
			if c < len(record) {
				value = record[c]
			}
			row[name] = inferValue(value)
		}
		rows = append(rows, row)
	}

	return borehole.Table{Columns: columns, Rows: rows}, nil
}

func inferValue(s string) any {
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}
