package loader

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/borelog/borelog/pkg/borehole"
	"github.com/borelog/borelog/pkg/errors"
)

// FromJSON reads a table from a JSON file. See FromJSONBytes for the
// accepted shapes.
func FromJSON(path string) (borehole.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return borehole.Table{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %q not found", path)
		}
		return borehole.Table{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "opening %q", path)
	}
	return FromJSONBytes(data)
}

// FromJSONBytes decodes a table from either a bare array of record objects
// or an object with a "records" array. Columns are the union of record keys
// in first-appearance order; JSON numbers become float64.
func FromJSONBytes(data []byte) (borehole.Table, error) {
	records, err := jsonRecords(data)
	if err != nil {
		return borehole.Table{}, err
	}

	var columns []string
	seen := make(map[string]bool)
	rows := make([]borehole.Row, 0, len(records))

	for i, raw := range records {
		row, err := decodeRecord(raw, &columns, seen)
		if err != nil {
			return borehole.Table{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d", i)
		}
		rows = append(rows, row)
	}

	return borehole.Table{Columns: columns, Rows: rows}, nil
}

func jsonRecords(data []byte) ([]json.RawMessage, error) {
	trim := bytes.TrimSpace(data)
	if len(trim) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty JSON input")
	}

	if trim[0] == '[' {
		var records []json.RawMessage
		if err := json.Unmarshal(trim, &records); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding record array")
		}
		return records, nil
	}

	var wrapper struct {
		Records []json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(trim, &wrapper); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding input")
	}
	if wrapper.Records == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"expected an array of records or an object with a records field")
	}
	return wrapper.Records, nil
}

// decodeRecord walks one object with a token decoder so key order is
// preserved; plain unmarshaling into a map would lose it.
func decodeRecord(raw json.RawMessage, columns *[]string, seen map[string]bool) (borehole.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, stderrors.New("records must be JSON objects")
	}

	row := borehole.Row{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := keyTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		row[key] = value

		if !seen[key] {
			seen[key] = true
			*columns = append(*columns, key)
		}
	}
	return row, nil
}
