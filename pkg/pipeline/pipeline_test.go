package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/borelog/borelog/pkg/borehole"
	"github.com/borelog/borelog/pkg/cache"
	"github.com/borelog/borelog/pkg/errors"
	"github.com/borelog/borelog/pkg/palette"
)

func testTable() borehole.Table {
	return borehole.Table{
		Columns: []string{"borehole_name", "start", "end", "material"},
		Rows: []borehole.Row{
			{"borehole_name": "S1", "start": 0.0, "end": 2.0, "material": "sand"},
			{"borehole_name": "S1", "start": 2.0, "end": 5.0, "material": "clay"},
			{"borehole_name": "S2", "start": 0.0, "end": 3.0, "material": "sand"},
			{"borehole_name": "S2", "start": 4.0, "end": 6.0, "material": "silt"},
			{"borehole_name": "S2", "start": "bad", "end": 7.0, "material": "sand"},
		},
	}
}

func mutedRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"dxf", "svg", "png", "json"}); err != nil {
		t.Errorf("valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"dxf", "pdf"}); err == nil {
		t.Error("unknown format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestValidateColorscale(t *testing.T) {
	if err := ValidateColorscale("Pastel1"); err != nil {
		t.Errorf("embedded palette should pass: %v", err)
	}

	err := ValidateColorscale("viridis")
	if err == nil {
		t.Fatal("unknown palette should fail")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeUnknownPalette {
		t.Errorf("code = %v, want %v", code, errors.ErrCodeUnknownPalette)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	if opts.Thickness != DefaultThickness {
		t.Errorf("Thickness = %v, want %v", opts.Thickness, DefaultThickness)
	}
	if opts.Spacing != DefaultSpacing {
		t.Errorf("Spacing = %v, want %v", opts.Spacing, DefaultSpacing)
	}
	if opts.Colorscale != DefaultColorscale {
		t.Errorf("Colorscale = %q, want %q", opts.Colorscale, DefaultColorscale)
	}
	if opts.Path != DefaultPath {
		t.Errorf("Path = %q, want %q", opts.Path, DefaultPath)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.PNGScale != 32 {
		t.Errorf("PNGScale = %v, want 32", opts.PNGScale)
	}
}

func TestOptionsValidateBadPath(t *testing.T) {
	opts := Options{Path: "drawings/"}
	err := opts.Validate()
	if err == nil {
		t.Fatal("directory path should fail validation")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidPath {
		t.Errorf("code = %v, want %v", code, errors.ErrCodeInvalidPath)
	}
}

func TestOptionsValidateIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"svg"}, Thickness: 2}

	if err := opts.Validate(); err != nil {
		t.Fatalf("first validation failed: %v", err)
	}
	if err := opts.Validate(); err != nil {
		t.Fatalf("second validation failed: %v", err)
	}

	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("Formats changed: %v", opts.Formats)
	}
	if opts.Thickness != 2 {
		t.Errorf("Thickness changed: %v", opts.Thickness)
	}
}

func TestOptionsToggleAccessors(t *testing.T) {
	opts := Options{}
	if !opts.ShouldLegend() || !opts.ShouldNames() || !opts.ShouldDimensions() || !opts.ShouldDrawOnZero() {
		t.Error("unset toggles should default to on")
	}

	off := false
	on := true
	opts = Options{Legend: &off, Names: &on, Dimensions: &off, DrawOnZero: &off}
	if opts.ShouldLegend() {
		t.Error("Legend=false should be off")
	}
	if !opts.ShouldNames() {
		t.Error("Names=true should be on")
	}
	if opts.ShouldDimensions() {
		t.Error("Dimensions=false should be off")
	}
	if opts.ShouldDrawOnZero() {
		t.Error("DrawOnZero=false should be off")
	}
}

func TestOptionsTOML(t *testing.T) {
	src := `
borehole_thickness = 2.5
legend = false
colorscale = "Set2"
formats = ["dxf", "svg"]
`
	var opts Options
	if _, err := toml.Decode(src, &opts); err != nil {
		t.Fatalf("toml.Decode error: %v", err)
	}

	if opts.Thickness != 2.5 {
		t.Errorf("Thickness = %v, want 2.5", opts.Thickness)
	}
	if opts.ShouldLegend() {
		t.Error("legend = false should turn the legend off")
	}
	// Omitted keys stay on defaults.
	if !opts.ShouldNames() {
		t.Error("omitted borehole_name should keep names on")
	}
	if opts.Colorscale != "Set2" {
		t.Errorf("Colorscale = %q, want Set2", opts.Colorscale)
	}
	if len(opts.Formats) != 2 {
		t.Errorf("Formats = %v, want two entries", opts.Formats)
	}
}

func TestRunnerExecute(t *testing.T) {
	runner := mutedRunner(nil)
	result, err := runner.Execute(context.Background(), testTable(), Options{
		Formats: []string{"dxf", "json"},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", result.Dropped)
	}
	if len(result.Flagged) != 1 || result.Flagged[0] != 3 {
		t.Errorf("Flagged = %v, want [3]", result.Flagged)
	}
	if result.Stats.LayerCount != 4 {
		t.Errorf("LayerCount = %d, want 4", result.Stats.LayerCount)
	}
	if result.Stats.BoreholeCount != 2 {
		t.Errorf("BoreholeCount = %d, want 2", result.Stats.BoreholeCount)
	}
	if got := result.Materials; len(got) != 3 || got[0] != "sand" || got[1] != "clay" || got[2] != "silt" {
		t.Errorf("Materials = %v, want [sand clay silt]", got)
	}
	if result.ColorSource != palette.SourcePalette {
		t.Errorf("ColorSource = %q, want %q", result.ColorSource, palette.SourcePalette)
	}
	if len(result.LayersHash) != 64 {
		t.Errorf("LayersHash = %q, want a sha256 hex digest", result.LayersHash)
	}

	if !bytes.HasPrefix(result.Artifacts["dxf"], []byte("0\nSECTION")) {
		t.Error("dxf artifact should start with a SECTION tag")
	}
	if !bytes.HasPrefix(result.Artifacts["json"], []byte("{")) {
		t.Error("json artifact should be an object")
	}
	if result.CacheInfo.RenderHit {
		t.Error("first run should not hit the render cache")
	}
}

func TestRunnerExecuteUserColors(t *testing.T) {
	runner := mutedRunner(nil)
	result, err := runner.Execute(context.Background(), testTable(), Options{
		Formats: []string{"json"},
		Colors: map[string]any{
			"sand": "#ff0000",
			"clay": "peru",
			"silt": []any{10.0, 20.0, 30.0},
		},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.ColorSource != palette.SourceUser {
		t.Errorf("ColorSource = %q, want %q", result.ColorSource, palette.SourceUser)
	}
	if got := result.Colors["sand"]; got.Hex() != "#ff0000" {
		t.Errorf("sand = %s, want #ff0000", got.Hex())
	}
}

func TestRunnerExecuteBadColorConfig(t *testing.T) {
	runner := mutedRunner(nil)
	_, err := runner.Execute(context.Background(), testTable(), Options{Colors: 42})
	if err == nil {
		t.Fatal("scalar color config should fail")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidColorConfig {
		t.Errorf("code = %v, want %v", code, errors.ErrCodeInvalidColorConfig)
	}
}

func TestRunnerExecuteMissingColumn(t *testing.T) {
	table := borehole.Table{
		Columns: []string{"borehole_name", "start", "end"},
		Rows:    []borehole.Row{{"borehole_name": "S1", "start": 0.0, "end": 1.0}},
	}

	_, err := mutedRunner(nil).Execute(context.Background(), table, Options{})
	if err == nil {
		t.Fatal("missing column should fail")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidSchema {
		t.Errorf("code = %v, want %v", code, errors.ErrCodeInvalidSchema)
	}
}

func TestRunnerExecuteStrict(t *testing.T) {
	_, err := mutedRunner(nil).Execute(context.Background(), testTable(), Options{Strict: true})
	if err == nil {
		t.Fatal("strict mode should fail on the malformed row")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidSchema {
		t.Errorf("code = %v, want %v", code, errors.ErrCodeInvalidSchema)
	}
}

func TestRunnerExecuteUnknownFormat(t *testing.T) {
	_, err := mutedRunner(nil).Execute(context.Background(), testTable(), Options{Formats: []string{"pdf"}})
	if err == nil {
		t.Fatal("unknown format should fail")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidFormat {
		t.Errorf("code = %v, want %v", code, errors.ErrCodeInvalidFormat)
	}
}

func TestRunnerRenderCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	runner := mutedRunner(fc)
	opts := Options{Formats: []string{"dxf"}}

	first, err := runner.Execute(context.Background(), testTable(), opts)
	if err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	second, err := runner.Execute(context.Background(), testTable(), opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}

	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the render cache")
	}
	// Each fresh render stamps new GUIDs, so byte equality proves the
	// second artifact came from the cache.
	if !bytes.Equal(first.Artifacts["dxf"], second.Artifacts["dxf"]) {
		t.Error("cached artifact should be byte-identical to the first render")
	}
}

func TestDrawSingleFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.dxf")

	result, err := mutedRunner(nil).Draw(context.Background(), testTable(), Options{Path: path})
	if err != nil {
		t.Fatalf("Draw() error: %v", err)
	}

	if len(result.Written) != 1 || result.Written[0] != path {
		t.Errorf("Written = %v, want [%s]", result.Written, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("0\nSECTION")) {
		t.Error("written file should be a DXF document")
	}
}

func TestDrawMultiFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.dxf")

	result, err := mutedRunner(nil).Draw(context.Background(), testTable(), Options{
		Path:    path,
		Formats: []string{"dxf", "svg"},
	})
	if err != nil {
		t.Fatalf("Draw() error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "site.dxf"),
		filepath.Join(dir, "site.svg"),
	}
	if len(result.Written) != 2 || result.Written[0] != want[0] || result.Written[1] != want[1] {
		t.Errorf("Written = %v, want %v", result.Written, want)
	}

	svg, err := os.ReadFile(want[1])
	if err != nil {
		t.Fatalf("reading svg output: %v", err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Error("svg output should start with an svg element")
	}
}

func TestDrawWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.dxf")

	_, err := mutedRunner(nil).Draw(context.Background(), testTable(), Options{Path: path})
	if err == nil {
		t.Fatal("writing into a missing directory should fail")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeWriteFailed {
		t.Errorf("code = %v, want %v", code, errors.ErrCodeWriteFailed)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		path   string
		format string
		multi  bool
		want   string
	}{
		{"borehole2D.dxf", "dxf", false, "borehole2D.dxf"},
		{"out.dxf", "svg", false, "out.dxf"},
		{"site.dxf", "svg", true, "site.svg"},
		{"noext", "png", true, "noext.png"},
		{"dir.v2/plan.dxf", "json", true, "dir.v2/plan.json"},
	}

	for _, tt := range tests {
		if got := OutputPath(tt.path, tt.format, tt.multi); got != tt.want {
			t.Errorf("OutputPath(%q, %q, %v) = %q, want %q", tt.path, tt.format, tt.multi, got, tt.want)
		}
	}
}
