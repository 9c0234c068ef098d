package palette

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/borelog/borelog/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    RGB
		wantErr bool
	}{
		{"int components", []int{10, 20, 30}, RGB{10, 20, 30}, false},
		{"float components truncate", []float64{10.9, 20.2, 30.0}, RGB{10, 20, 30}, false},
		{"mixed any components", []any{10, 20.5, 30}, RGB{10, 20, 30}, false},
		{"component bounds", []int{0, 255, 0}, RGB{0, 255, 0}, false},
		{"hex long", "#ff0080", RGB{255, 0, 128}, false},
		{"hex uppercase", "#FF0080", RGB{255, 0, 128}, false},
		{"hex short", "#fff", RGB{255, 255, 255}, false},
		{"svg name", "forestgreen", RGB{34, 139, 34}, false},
		{"svg name mixed case", "ForestGreen", RGB{34, 139, 34}, false},
		{"single letter", "k", RGB{0, 0, 0}, false},
		{"single letter green", "g", RGB{0, 127, 0}, false},

		{"unknown name", "foo", RGB{}, true},
		{"component above range", []int{300, 255, 255}, RGB{}, true},
		{"component below range", []int{-1, 0, 0}, RGB{}, true},
		{"four components", []int{1, 2, 3, 4}, RGB{}, true},
		{"two components", []int{1, 2}, RGB{}, true},
		{"non-numeric component", []any{"10", 20, 30}, RGB{}, true},
		{"bad hex", "#zzz", RGB{}, true},
		{"unsupported type", 42, RGB{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%#v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%#v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRGBHex(t *testing.T) {
	if got := (RGB{255, 0, 128}).Hex(); got != "#ff0080" {
		t.Errorf("Hex() = %q, want %q", got, "#ff0080")
	}
	if got := (RGB{0, 0, 0}).Hex(); got != "#000000" {
		t.Errorf("Hex() = %q, want %q", got, "#000000")
	}
}

func TestEvaluateUser(t *testing.T) {
	materials := []string{"clay", "sand", "peat"}

	t.Run("complete valid map", func(t *testing.T) {
		colors := map[string]any{
			"clay": []int{100, 50, 0},
			"sand": "#ffcc00",
			"peat": "saddlebrown",
		}

		resolved, ok := EvaluateUser(colors, materials, nil)
		if !ok {
			t.Fatal("EvaluateUser() ok = false, want true")
		}

		want := Map{
			"clay": {100, 50, 0},
			"sand": {255, 204, 0},
			"peat": {139, 69, 19},
		}
		if diff := cmp.Diff(want, resolved); diff != "" {
			t.Errorf("resolved mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("extra keys are fine", func(t *testing.T) {
		colors := map[string]any{
			"clay":   "k",
			"sand":   "w",
			"peat":   "g",
			"gravel": "not even valid",
		}
		if _, ok := EvaluateUser(colors, materials, nil); !ok {
			t.Error("EvaluateUser() ok = false, want true (unused keys are never validated)")
		}
	})

	rejections := []struct {
		name   string
		colors map[string]any
	}{
		{"missing material", map[string]any{"clay": "k", "sand": "w"}},
		{"invalid string value", map[string]any{"clay": "foo", "sand": "w", "peat": "g"}},
		{"four components", map[string]any{"clay": []int{1, 2, 3, 400}, "sand": "w", "peat": "g"}},
		{"out of range", map[string]any{"clay": []int{300, 255, 255}, "sand": "w", "peat": "g"}},
	}

	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			resolved, ok := EvaluateUser(tt.colors, materials, nil)
			if ok {
				t.Error("EvaluateUser() ok = true, want false")
			}
			if len(resolved) != 0 {
				t.Errorf("resolved = %v, want empty (no partial acceptance)", resolved)
			}
		})
	}

	t.Run("failures are logged per material", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		EvaluateUser(map[string]any{"clay": "foo"}, []string{"clay", "sand"}, logger)

		out := buf.String()
		if !strings.Contains(out, "clay") || !strings.Contains(out, "sand") {
			t.Errorf("log output missing material diagnostics:\n%s", out)
		}
	})
}

func TestResolve(t *testing.T) {
	materials := []string{"clay", "sand"}

	t.Run("nil config synthesizes from scale", func(t *testing.T) {
		resolved, source, err := Resolve(nil, materials, "Pastel1", nil)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if source != SourcePalette {
			t.Errorf("source = %v, want %v", source, SourcePalette)
		}
		want := Map{
			"clay": {251, 180, 174},
			"sand": {242, 242, 242},
		}
		if diff := cmp.Diff(want, resolved); diff != "" {
			t.Errorf("resolved mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("valid user map wins", func(t *testing.T) {
		cfg := map[string]any{"clay": "#000000", "sand": "#ffffff"}
		resolved, source, err := Resolve(cfg, materials, "Pastel1", nil)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if source != SourceUser {
			t.Errorf("source = %v, want %v", source, SourceUser)
		}
		if resolved["clay"] != (RGB{0, 0, 0}) || resolved["sand"] != (RGB{255, 255, 255}) {
			t.Errorf("resolved = %v", resolved)
		}
	})

	t.Run("string map form accepted", func(t *testing.T) {
		cfg := map[string]string{"clay": "k", "sand": "w"}
		_, source, err := Resolve(cfg, materials, "Pastel1", nil)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if source != SourceUser {
			t.Errorf("source = %v, want %v", source, SourceUser)
		}
	})

	t.Run("rejected user map falls back to scale", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		cfg := map[string]any{"clay": "#000000"} // sand missing
		resolved, source, err := Resolve(cfg, materials, "Pastel1", logger)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if source != SourcePalette {
			t.Errorf("source = %v, want %v", source, SourcePalette)
		}
		if len(resolved) != 2 {
			t.Errorf("resolved = %v, want palette colors for both materials", resolved)
		}
		if !strings.Contains(buf.String(), "falling back") {
			t.Errorf("expected fallback diagnostic, got:\n%s", buf.String())
		}
	})

	t.Run("non-mapping config fails", func(t *testing.T) {
		_, _, err := Resolve("Pastel1", materials, "Pastel1", nil)
		if !errors.Is(err, errors.ErrCodeInvalidColorConfig) {
			t.Errorf("error = %v, want INVALID_COLOR_CONFIG", err)
		}
	})

	t.Run("unknown scale propagates", func(t *testing.T) {
		_, _, err := Resolve(nil, materials, "NotAPalette", nil)
		if !errors.Is(err, errors.ErrCodeUnknownPalette) {
			t.Errorf("error = %v, want UNKNOWN_PALETTE", err)
		}
	})
}
