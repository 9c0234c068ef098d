package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/borelog/borelog/pkg/errors"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	header := []string{"borehole_name", "start", "end", "material"}
	for i, name := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			t.Fatalf("SetCellValue error: %v", err)
		}
	}

	// Row 2: typed cells.
	f.SetCellValue(sheet, "A2", "S1")
	f.SetCellValue(sheet, "B2", 0.0)
	f.SetCellValue(sheet, "C2", 2.5)
	f.SetCellValue(sheet, "D2", "sand")

	// Row 3: numeric text stays text, blank material.
	f.SetCellValue(sheet, "A3", "S1")
	f.SetCellStr(sheet, "B3", "5")
	f.SetCellValue(sheet, "C3", 7.0)

	// Row 4: bool cell, numeric borehole name.
	f.SetCellValue(sheet, "A4", 101.0)
	f.SetCellValue(sheet, "B4", 0.0)
	f.SetCellValue(sheet, "C4", 3.0)
	f.SetCellBool(sheet, "D4", true)

	// Second sheet with its own table.
	if _, err := f.NewSheet("Other"); err != nil {
		t.Fatalf("NewSheet error: %v", err)
	}
	f.SetCellValue("Other", "A1", "borehole_name")
	f.SetCellValue("Other", "A2", "S9")

	path := filepath.Join(t.TempDir(), "logs.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}
	return path
}

func TestFromXLSX(t *testing.T) {
	path := writeWorkbook(t)

	table, err := FromXLSX(path, "")
	if err != nil {
		t.Fatalf("FromXLSX() error: %v", err)
	}

	wantColumns := []string{"borehole_name", "start", "end", "material"}
	if diff := cmp.Diff(wantColumns, table.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(table.Rows))
	}

	r0 := table.Rows[0]
	if got, ok := r0["start"].(float64); !ok || got != 0 {
		t.Errorf("row 0 start = %#v, want float64 0", r0["start"])
	}
	if got, ok := r0["end"].(float64); !ok || got != 2.5 {
		t.Errorf("row 0 end = %#v, want float64 2.5", r0["end"])
	}
	if got, ok := r0["material"].(string); !ok || got != "sand" {
		t.Errorf("row 0 material = %#v, want string sand", r0["material"])
	}

	// Numeric text must stay a string; the sanitizer decides what to do
	// with it.
	r1 := table.Rows[1]
	if got, ok := r1["start"].(string); !ok || got != "5" {
		t.Errorf("row 1 start = %#v, want string \"5\"", r1["start"])
	}
	if r1["material"] != nil {
		t.Errorf("row 1 material = %#v, want nil", r1["material"])
	}

	r2 := table.Rows[2]
	if got, ok := r2["borehole_name"].(float64); !ok || got != 101 {
		t.Errorf("row 2 borehole_name = %#v, want float64 101", r2["borehole_name"])
	}
	if got, ok := r2["material"].(bool); !ok || got != true {
		t.Errorf("row 2 material = %#v, want bool true", r2["material"])
	}
}

func TestFromXLSXSheetSelection(t *testing.T) {
	path := writeWorkbook(t)

	table, err := FromXLSX(path, "Other")
	if err != nil {
		t.Fatalf("FromXLSX() error: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0]["borehole_name"] != "S9" {
		t.Errorf("unexpected table from named sheet: %+v", table.Rows)
	}

	_, err = FromXLSX(path, "Missing")
	if err == nil {
		t.Fatal("FromXLSX should fail for an unknown sheet")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidSheet {
		t.Errorf("code = %v, want %v", code, errors.ErrCodeInvalidSheet)
	}

	// Malformed names are rejected before the workbook is opened.
	_, err = FromXLSX(path, "bad\x00sheet")
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidSheet {
		t.Errorf("code = %v, want %v", code, errors.ErrCodeInvalidSheet)
	}
}

func TestFromXLSXMissingFile(t *testing.T) {
	_, err := FromXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), "")
	if err == nil {
		t.Fatal("FromXLSX should fail for a missing file")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeFileNotFound {
		t.Errorf("code = %v, want %v", code, errors.ErrCodeFileNotFound)
	}
}

func TestFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.csv")
	content := "borehole_name,start,end,material\n" +
		"S1,0,2,sand\n" +
		"S1,2,5.5,clay\n" +
		"7,0,3,\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	table, err := FromCSV(path)
	if err != nil {
		t.Fatalf("FromCSV() error: %v", err)
	}

	wantColumns := []string{"borehole_name", "start", "end", "material"}
	if diff := cmp.Diff(wantColumns, table.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(table.Rows))
	}

	if got, ok := table.Rows[0]["start"].(float64); !ok || got != 0 {
		t.Errorf("row 0 start = %#v, want float64 0", table.Rows[0]["start"])
	}
	if got, ok := table.Rows[1]["end"].(float64); !ok || got != 5.5 {
		t.Errorf("row 1 end = %#v, want float64 5.5", table.Rows[1]["end"])
	}
	// CSV has no cell types: numeric-looking names become numbers and the
	// sanitizer formats them back.
	if got, ok := table.Rows[2]["borehole_name"].(float64); !ok || got != 7 {
		t.Errorf("row 2 borehole_name = %#v, want float64 7", table.Rows[2]["borehole_name"])
	}
	if table.Rows[2]["material"] != nil {
		t.Errorf("row 2 material = %#v, want nil", table.Rows[2]["material"])
	}
}

func TestFromCSVEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	table, err := FromCSV(path)
	if err != nil {
		t.Fatalf("FromCSV() error: %v", err)
	}
	if len(table.Columns) != 0 || len(table.Rows) != 0 {
		t.Errorf("empty file should load as an empty table, got %+v", table)
	}
}

func TestFromJSONBytes(t *testing.T) {
	data := []byte(`[
		{"borehole_name": "S1", "start": 0, "end": 2, "material": "sand"},
		{"borehole_name": "S1", "start": 2, "end": 5, "material": null, "note": "fill"}
	]`)

	table, err := FromJSONBytes(data)
	if err != nil {
		t.Fatalf("FromJSONBytes() error: %v", err)
	}

	wantColumns := []string{"borehole_name", "start", "end", "material", "note"}
	if diff := cmp.Diff(wantColumns, table.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	if got, ok := table.Rows[0]["start"].(float64); !ok || got != 0 {
		t.Errorf("row 0 start = %#v, want float64 0", table.Rows[0]["start"])
	}
	if table.Rows[1]["material"] != nil {
		t.Errorf("row 1 material = %#v, want nil", table.Rows[1]["material"])
	}
}

func TestFromJSONBytesWrapper(t *testing.T) {
	data := []byte(`{"records": [{"borehole_name": "S1", "start": 0, "end": 1, "material": "clay"}]}`)

	table, err := FromJSONBytes(data)
	if err != nil {
		t.Fatalf("FromJSONBytes() error: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(table.Rows))
	}
	if table.Rows[0]["material"] != "clay" {
		t.Errorf("material = %#v, want clay", table.Rows[0]["material"])
	}
}

func TestFromJSONBytesRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "scalar", data: "42"},
		{name: "object without records", data: "{}"},
		{name: "record not an object", data: `[42]`},
		{name: "malformed", data: `[{"a":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSONBytes([]byte(tt.data))
			if err == nil {
				t.Fatal("FromJSONBytes should fail")
			}
			if code := errors.GetCode(err); code != errors.ErrCodeInvalidInput {
				t.Errorf("code = %v, want %v", code, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestLoadDispatch(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "logs.json")
	if err := os.WriteFile(jsonPath, []byte(`[{"borehole_name":"S1","start":0,"end":1,"material":"sand"}]`), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	table, err := Load(jsonPath, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Errorf("rows = %d, want 1", len(table.Rows))
	}

	_, err = Load(filepath.Join(dir, "logs.txt"), "")
	if err == nil {
		t.Fatal("Load should reject unknown extensions")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidInput {
		t.Errorf("code = %v, want %v", code, errors.ErrCodeInvalidInput)
	}
}
