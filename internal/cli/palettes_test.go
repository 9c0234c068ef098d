package cli

import (
	"strings"
	"testing"

	"github.com/borelog/borelog/pkg/errors"
	"github.com/borelog/borelog/pkg/palette"
)

func TestPrintPaletteUnknown(t *testing.T) {
	err := printPalette("NotAPalette")
	if errors.GetCode(err) != errors.ErrCodeUnknownPalette {
		t.Errorf("error code = %q, want UNKNOWN_PALETTE", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "Pastel1") {
		t.Errorf("error should list available palettes, got: %v", err)
	}
}

func TestPrintPaletteKnown(t *testing.T) {
	if err := printPalette("Set2"); err != nil {
		t.Errorf("printPalette(Set2) error: %v", err)
	}
}

func TestSwatchCoversPalette(t *testing.T) {
	p, ok := palette.Lookup(palette.DefaultScale)
	if !ok {
		t.Fatalf("default scale %q not embedded", palette.DefaultScale)
	}

	s := swatch(p.Colors)
	if s == "" {
		t.Error("swatch() returned empty string")
	}
}
