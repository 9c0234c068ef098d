package palette

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/borelog/borelog/pkg/errors"
)

func TestSample(t *testing.T) {
	tests := []struct {
		name    string
		palette string
		n       int
		want    []RGB
	}{
		{
			// Pastel1 has 9 colors; 3 samples land on indices 0, 4, 8.
			name:    "three across Pastel1",
			palette: "Pastel1",
			n:       3,
			want:    []RGB{{251, 180, 174}, {254, 217, 166}, {242, 242, 242}},
		},
		{
			name:    "single sample takes first color",
			palette: "Pastel1",
			n:       1,
			want:    []RGB{{251, 180, 174}},
		},
		{
			// Position 1.0 clamps onto the last color.
			name:    "two across Pastel2",
			palette: "Pastel2",
			n:       2,
			want:    []RGB{{179, 226, 205}, {204, 204, 204}},
		},
		{
			name:    "three across Accent",
			palette: "Accent",
			n:       3,
			want:    []RGB{{127, 201, 127}, {56, 108, 176}, {102, 102, 102}},
		},
		{
			name:    "zero samples",
			palette: "Pastel1",
			n:       0,
			want:    []RGB{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sample(tt.palette, tt.n)
			if err != nil {
				t.Fatalf("Sample() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Sample() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSampleMoreThanPaletteSize(t *testing.T) {
	// 20 materials over a 9-color palette must still yield 20 assignments.
	got, err := Sample("Set1", 20)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("len = %d, want 20", len(got))
	}
	if got[0] != (RGB{228, 26, 28}) {
		t.Errorf("first sample = %v, want Set1[0]", got[0])
	}
	if got[19] != (RGB{153, 153, 153}) {
		t.Errorf("last sample = %v, want Set1[8]", got[19])
	}
}

func TestSampleUnknownPalette(t *testing.T) {
	for _, name := range []string{"NotAPalette", "pastel1", ""} {
		if _, err := Sample(name, 3); !errors.Is(err, errors.ErrCodeUnknownPalette) {
			t.Errorf("Sample(%q) error = %v, want UNKNOWN_PALETTE", name, err)
		}
	}
}

func TestFromScale(t *testing.T) {
	materials := []string{"clay", "sand", "peat"}

	resolved, err := FromScale("Pastel1", materials)
	if err != nil {
		t.Fatalf("FromScale() error = %v", err)
	}

	want := Map{
		"clay": {251, 180, 174},
		"sand": {254, 217, 166},
		"peat": {242, 242, 242},
	}
	if diff := cmp.Diff(want, resolved); diff != "" {
		t.Errorf("FromScale() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromScaleEmptyMaterials(t *testing.T) {
	resolved, err := FromScale("Pastel1", nil)
	if err != nil {
		t.Fatalf("FromScale() error = %v", err)
	}
	if len(resolved) != 0 {
		t.Errorf("resolved = %v, want empty map", resolved)
	}
}

func TestNamesAndLookup(t *testing.T) {
	names := Names()
	if len(names) != 12 {
		t.Fatalf("len(Names()) = %d, want 12", len(names))
	}
	if names[0] != "Pastel1" {
		t.Errorf("Names()[0] = %q, want Pastel1", names[0])
	}

	for _, name := range names {
		p, ok := Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q) not found", name)
			continue
		}
		if len(p.Colors) == 0 {
			t.Errorf("palette %q has no colors", name)
		}
	}

	if _, ok := Lookup("pastel1"); ok {
		t.Error("Lookup is case-sensitive, lowercase name must not match")
	}
}
