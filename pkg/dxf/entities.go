package dxf

// Point is a 2D drawing coordinate.
type Point struct {
	X, Y float64
}

type entity interface {
	write(tw *tagWriter)
}

// Polyline is a closed or open LWPOLYLINE.
type Polyline struct {
	handle   uint64
	layer    string
	points   []Point
	closed   bool
	reactors []uint64 // hatches bound to this outline
}

// Points returns the polyline vertices.
func (p *Polyline) Points() []Point { return p.points }

// Closed reports whether the polyline is closed.
func (p *Polyline) Closed() bool { return p.closed }

func (p *Polyline) write(tw *tagWriter) {
	tw.tag(0, "LWPOLYLINE")
	tw.handle(5, p.handle)
	// Associated hatches register as persistent reactors so editors keep
	// outline and fill synchronized.
	if len(p.reactors) > 0 {
		tw.tag(102, "{ACAD_REACTORS")
		for _, r := range p.reactors {
			tw.handle(330, r)
		}
		tw.tag(102, "}")
	}
	tw.handle(330, handleModelSpace)
	tw.tag(100, "AcDbEntity")
	tw.tag(8, p.layer)
	tw.tag(100, "AcDbPolyline")
	tw.intTag(90, len(p.points))
	if p.closed {
		tw.intTag(70, 1)
	} else {
		tw.intTag(70, 0)
	}
	for _, pt := range p.points {
		tw.floatTag(10, pt.X)
		tw.floatTag(20, pt.Y)
	}
}

// Hatch is a solid fill bounded by one polyline path.
type Hatch struct {
	handle uint64
	layer  string
	points []Point
	closed bool
	source *Polyline
}

// Associate binds the hatch to the polyline that outlines it. The hatch
// records the polyline as its boundary source object and the polyline gains
// a reactor back-reference to the hatch.
func (h *Hatch) Associate(p *Polyline) {
	h.source = p
	p.reactors = append(p.reactors, h.handle)
}

func (h *Hatch) write(tw *tagWriter) {
	tw.tag(0, "HATCH")
	tw.handle(5, h.handle)
	tw.handle(330, handleModelSpace)
	tw.tag(100, "AcDbEntity")
	tw.tag(8, h.layer)
	tw.tag(100, "AcDbHatch")
	tw.floatTag(10, 0)
	tw.floatTag(20, 0)
	tw.floatTag(30, 0)
	tw.floatTag(210, 0)
	tw.floatTag(220, 0)
	tw.floatTag(230, 1)
	tw.tag(2, "SOLID")
	tw.intTag(70, 1) // solid fill
	if h.source != nil {
		tw.intTag(71, 1) // associative
	} else {
		tw.intTag(71, 0)
	}
	tw.intTag(91, 1) // one boundary path

	// Boundary path: external + polyline + derived.
	tw.intTag(92, 7)
	tw.intTag(72, 0) // no bulges
	if h.closed {
		tw.intTag(73, 1)
	} else {
		tw.intTag(73, 0)
	}
	tw.intTag(93, len(h.points))
	for _, pt := range h.points {
		tw.floatTag(10, pt.X)
		tw.floatTag(20, pt.Y)
	}
	if h.source != nil {
		tw.intTag(97, 1)
		tw.handle(330, h.source.handle)
	} else {
		tw.intTag(97, 0)
	}

	tw.intTag(75, 1) // hatch style: outermost
	tw.intTag(76, 1) // pattern type: predefined
	tw.intTag(98, 1) // seed points
	tw.floatTag(10, 0)
	tw.floatTag(20, 0)
}

// Text is a single-line TEXT entity.
type Text struct {
	handle uint64
	layer  string
	value  string
	height float64
	at     Point
	halign int
	valign int
}

func (t *Text) write(tw *tagWriter) {
	aligned := t.halign != 0 || t.valign != 0

	tw.tag(0, "TEXT")
	tw.handle(5, t.handle)
	tw.handle(330, handleModelSpace)
	tw.tag(100, "AcDbEntity")
	tw.tag(8, t.layer)
	tw.tag(100, "AcDbText")
	tw.floatTag(10, t.at.X)
	tw.floatTag(20, t.at.Y)
	tw.floatTag(30, 0)
	tw.floatTag(40, t.height)
	tw.tag(1, t.value)
	if t.halign != 0 {
		tw.intTag(72, t.halign)
	}
	// With any non-default justification the second alignment point is the
	// effective anchor.
	if aligned {
		tw.floatTag(11, t.at.X)
		tw.floatTag(21, t.at.Y)
		tw.floatTag(31, 0)
	}
	tw.tag(100, "AcDbText")
	if t.valign != 0 {
		tw.intTag(73, t.valign)
	}
}
