package sink

import (
	"github.com/borelog/borelog/pkg/dxf"
	"github.com/borelog/borelog/pkg/scene"
)

// DXFOption configures DXF encoding.
type DXFOption func(*dxfRenderer)

type dxfRenderer struct {
	fingerprint string
	versionGUID string
}

// WithDXFGUIDs pins the document identity GUIDs. Without it every encode
// gets fresh ones; tests use this to make output byte-stable.
func WithDXFGUIDs(fingerprint, version string) DXFOption {
	return func(r *dxfRenderer) {
		r.fingerprint = fingerprint
		r.versionGUID = version
	}
}

// RenderDXF encodes the scene as a DXF R2000 document. Every filled box
// becomes a solid hatch on its fill layer plus a closed polyline on its
// outline layer, with the hatch bound to the polyline so CAD editors treat
// them as one shape.
func RenderDXF(s scene.Scene, opts ...DXFOption) ([]byte, error) {
	var r dxfRenderer
	for _, opt := range opts {
		opt(&r)
	}

	d := dxf.New()
	if r.fingerprint != "" || r.versionGUID != "" {
		d.SetGUIDs(r.fingerprint, r.versionGUID)
	}

	for _, l := range s.Layers {
		d.AddLayer(l.Name, l.Color.R, l.Color.G, l.Color.B)
	}

	// Hatch before outline, matching how a CAD author layers fill under
	// linework.
	for _, b := range s.Boxes {
		ring := boxRing(b)
		h := d.AddHatch(b.Fill, ring, true)
		p := d.AddPolyline(b.Outline, ring, true)
		h.Associate(p)
	}

	for _, t := range s.Texts {
		halign, valign := dxfJustification(t.Align)
		d.AddText(t.Layer, t.Value, t.Height, dxf.Point{X: t.X, Y: t.Y}, halign, valign)
	}

	return d.Bytes()
}

func boxRing(b scene.FilledBox) []dxf.Point {
	return []dxf.Point{
		{X: b.X1, Y: b.Y1},
		{X: b.X1, Y: b.Y2},
		{X: b.X2, Y: b.Y2},
		{X: b.X2, Y: b.Y1},
	}
}

// dxfJustification maps a scene alignment onto the DXF TEXT horizontal and
// vertical justification codes.
func dxfJustification(a scene.Alignment) (halign, valign int) {
	switch a {
	case scene.AlignCenter:
		return 1, 0
	case scene.AlignMiddleRight:
		return 2, 2
	default:
		return 0, 0
	}
}
