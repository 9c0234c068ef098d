// Package dxf writes DXF R2000 (AC1015) documents in the ASCII tagged
// format. It covers the entity set a borehole log needs: layers with true
// colors, lightweight polylines, solid hatches with associative boundary
// paths, and text with placement alignment.
//
// The writer is deliberately small. It emits a fixed skeleton (header,
// symbol tables, model/paper space blocks, root object dictionary) around
// the caller's layers and entities, with sequential handles and correct
// owner references, which is what CAD readers actually check. Round-trip
// fidelity of every header variable is a non-goal.
package dxf

import (
	"bytes"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Handles below firstHandle are reserved for the document skeleton.
const firstHandle = 0x30

// Reserved skeleton handles.
const (
	handleVportTable    = 0x8
	handleVportActive   = 0x29
	handleLtypeTable    = 0x5
	handleLtypeByBlock  = 0x14
	handleLtypeByLayer  = 0x15
	handleLtypeSolid    = 0x16
	handleLayerTable    = 0x2
	handleLayerZero     = 0x10
	handleStyleTable    = 0x3
	handleStyleStandard = 0x11
	handleViewTable     = 0x6
	handleUCSTable      = 0x7
	handleAppidTable    = 0x9
	handleAppidACAD     = 0x12
	handleDimTable      = 0xA
	handleDimStandard   = 0x27
	handleBlockTable    = 0x1
	handleModelSpace    = 0x1F
	handlePaperSpace    = 0x1E
	handleModelBlock    = 0x20
	handleModelEndblk   = 0x21
	handlePaperBlock    = 0x22
	handlePaperEndblk   = 0x23
	handleRootDict      = 0xC
	handleGroupDict     = 0xD
)

// Layer is a named drawing layer with an RGB true color.
type Layer struct {
	handle  uint64
	Name    string
	R, G, B uint8
}

// Document is an in-memory DXF drawing. Zero value is not usable; call New.
type Document struct {
	layers   []*Layer
	entities []entity
	next     uint64

	fingerprint string
	versionGUID string
}

// New creates an empty document with fresh identity GUIDs.
func New() *Document {
	return &Document{
		next:        firstHandle,
		fingerprint: formatGUID(uuid.New()),
		versionGUID: formatGUID(uuid.New()),
	}
}

// SetGUIDs overrides the fingerprint and version GUIDs written to the
// header. Tests use this to make output byte-stable.
func (d *Document) SetGUIDs(fingerprint, version string) {
	d.fingerprint = fingerprint
	d.versionGUID = version
}

func formatGUID(u uuid.UUID) string {
	return "{" + strings.ToUpper(u.String()) + "}"
}

func (d *Document) handle() uint64 {
	h := d.next
	d.next++
	return h
}

// AddLayer registers a drawing layer. Registering a name twice keeps the
// first definition.
func (d *Document) AddLayer(name string, r, g, b uint8) *Layer {
	for _, l := range d.layers {
		if l.Name == name {
			return l
		}
	}
	l := &Layer{handle: d.handle(), Name: name, R: r, G: g, B: b}
	d.layers = append(d.layers, l)
	return l
}

// AddPolyline appends a lightweight polyline on the given layer.
func (d *Document) AddPolyline(layer string, points []Point, closed bool) *Polyline {
	p := &Polyline{
		handle: d.handle(),
		layer:  layer,
		points: points,
		closed: closed,
	}
	d.entities = append(d.entities, p)
	return p
}

// AddHatch appends a solid-filled hatch bounded by the given path. The fill
// color is ByLayer. Call Associate to bind the hatch to its outline.
func (d *Document) AddHatch(layer string, points []Point, closed bool) *Hatch {
	h := &Hatch{
		handle: d.handle(),
		layer:  layer,
		points: points,
		closed: closed,
	}
	d.entities = append(d.entities, h)
	return h
}

// AddText appends a text entity anchored at the given point. halign and
// valign take the DXF justification codes (0 left/baseline, 1 center,
// 2 right / 2 middle, 3 top). With both zero the anchor is the first
// alignment point, otherwise the second.
func (d *Document) AddText(layer, value string, height float64, at Point, halign, valign int) *Text {
	t := &Text{
		handle: d.handle(),
		layer:  layer,
		value:  value,
		height: height,
		at:     at,
		halign: halign,
		valign: valign,
	}
	d.entities = append(d.entities, t)
	return t
}

// WriteTo emits the document. It always writes the full section skeleton in
// a fixed order, so equal documents produce identical bytes.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	tw := newTagWriter(w)

	d.writeHeader(tw)
	d.writeTables(tw)
	d.writeBlocks(tw)
	d.writeEntities(tw)
	d.writeObjects(tw)

	tw.tag(0, "EOF")
	return tw.flush()
}

// Bytes renders the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
