package dxf

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// tagWriter emits DXF group code / value pairs, one per line. The first
// write error sticks; later writes become no-ops.
type tagWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func newTagWriter(w io.Writer) *tagWriter {
	return &tagWriter{w: bufio.NewWriter(w)}
}

func (tw *tagWriter) tag(code int, value string) {
	if tw.err != nil {
		return
	}
	n, err := tw.w.WriteString(strconv.Itoa(code) + "\n" + value + "\n")
	tw.n += int64(n)
	tw.err = err
}

func (tw *tagWriter) intTag(code, v int) {
	tw.tag(code, strconv.Itoa(v))
}

func (tw *tagWriter) floatTag(code int, v float64) {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	tw.tag(code, s)
}

func (tw *tagWriter) handle(code int, h uint64) {
	tw.tag(code, strings.ToUpper(strconv.FormatUint(h, 16)))
}

func (tw *tagWriter) flush() (int64, error) {
	if tw.err != nil {
		return tw.n, tw.err
	}
	return tw.n, tw.w.Flush()
}

// bounds returns the extent of all entity geometry.
func (d *Document) bounds() (minX, minY, maxX, maxY float64, ok bool) {
	grow := func(x, y float64) {
		if !ok {
			minX, minY, maxX, maxY = x, y, x, y
			ok = true
			return
		}
		minX = min(minX, x)
		minY = min(minY, y)
		maxX = max(maxX, x)
		maxY = max(maxY, y)
	}
	for _, e := range d.entities {
		switch x := e.(type) {
		case *Polyline:
			for _, p := range x.points {
				grow(p.X, p.Y)
			}
		case *Hatch:
			for _, p := range x.points {
				grow(p.X, p.Y)
			}
		case *Text:
			grow(x.at.X, x.at.Y)
		}
	}
	return minX, minY, maxX, maxY, ok
}

func (d *Document) writeHeader(tw *tagWriter) {
	tw.tag(0, "SECTION")
	tw.tag(2, "HEADER")

	tw.tag(9, "$ACADVER")
	tw.tag(1, "AC1015")
	tw.tag(9, "$DWGCODEPAGE")
	tw.tag(3, "ANSI_1252")
	tw.tag(9, "$INSUNITS")
	tw.intTag(70, 6) // meters
	tw.tag(9, "$MEASUREMENT")
	tw.intTag(70, 1) // metric
	tw.tag(9, "$HANDSEED")
	tw.handle(5, d.next)
	tw.tag(9, "$FINGERPRINTGUID")
	tw.tag(2, d.fingerprint)
	tw.tag(9, "$VERSIONGUID")
	tw.tag(2, d.versionGUID)

	if minX, minY, maxX, maxY, ok := d.bounds(); ok {
		tw.tag(9, "$EXTMIN")
		tw.floatTag(10, minX)
		tw.floatTag(20, minY)
		tw.floatTag(30, 0)
		tw.tag(9, "$EXTMAX")
		tw.floatTag(10, maxX)
		tw.floatTag(20, maxY)
		tw.floatTag(30, 0)
	}

	tw.tag(0, "ENDSEC")
}

func (d *Document) writeTables(tw *tagWriter) {
	tw.tag(0, "SECTION")
	tw.tag(2, "TABLES")

	d.writeVportTable(tw)
	d.writeLtypeTable(tw)
	d.writeLayerTable(tw)
	d.writeStyleTable(tw)
	writeEmptyTable(tw, "VIEW", handleViewTable)
	writeEmptyTable(tw, "UCS", handleUCSTable)
	d.writeAppidTable(tw)
	d.writeDimStyleTable(tw)
	d.writeBlockRecordTable(tw)

	tw.tag(0, "ENDSEC")
}

func beginTable(tw *tagWriter, name string, handle uint64, count int) {
	tw.tag(0, "TABLE")
	tw.tag(2, name)
	tw.handle(5, handle)
	tw.handle(330, 0)
	tw.tag(100, "AcDbSymbolTable")
	tw.intTag(70, count)
}

func writeEmptyTable(tw *tagWriter, name string, handle uint64) {
	beginTable(tw, name, handle, 0)
	tw.tag(0, "ENDTAB")
}

func (d *Document) writeVportTable(tw *tagWriter) {
	centerX, centerY, height := 0.0, 0.0, 10.0
	if minX, minY, maxX, maxY, ok := d.bounds(); ok {
		centerX = (minX + maxX) / 2
		centerY = (minY + maxY) / 2
		height = maxY - minY
		if height <= 0 {
			height = 10
		}
	}

	beginTable(tw, "VPORT", handleVportTable, 1)
	tw.tag(0, "VPORT")
	tw.handle(5, handleVportActive)
	tw.handle(330, handleVportTable)
	tw.tag(100, "AcDbSymbolTableRecord")
	tw.tag(100, "AcDbViewportTableRecord")
	tw.tag(2, "*Active")
	tw.intTag(70, 0)
	tw.floatTag(10, 0)
	tw.floatTag(20, 0)
	tw.floatTag(11, 1)
	tw.floatTag(21, 1)
	tw.floatTag(12, centerX)
	tw.floatTag(22, centerY)
	tw.floatTag(13, 0)
	tw.floatTag(23, 0)
	tw.floatTag(14, 10)
	tw.floatTag(24, 10)
	tw.floatTag(15, 10)
	tw.floatTag(25, 10)
	tw.floatTag(16, 0)
	tw.floatTag(26, 0)
	tw.floatTag(36, 1)
	tw.floatTag(17, 0)
	tw.floatTag(27, 0)
	tw.floatTag(37, 0)
	tw.floatTag(40, height*1.1)
	tw.floatTag(41, 1.5)
	tw.floatTag(42, 50)
	tw.floatTag(43, 0)
	tw.floatTag(44, 0)
	tw.floatTag(50, 0)
	tw.floatTag(51, 0)
	tw.intTag(71, 0)
	tw.intTag(72, 100)
	tw.intTag(73, 1)
	tw.intTag(74, 3)
	tw.intTag(75, 0)
	tw.intTag(76, 0)
	tw.intTag(77, 0)
	tw.intTag(78, 0)
	tw.tag(0, "ENDTAB")
}

func (d *Document) writeLtypeTable(tw *tagWriter) {
	beginTable(tw, "LTYPE", handleLtypeTable, 3)
	writeLtype(tw, handleLtypeByBlock, "ByBlock", "")
	writeLtype(tw, handleLtypeByLayer, "ByLayer", "")
	writeLtype(tw, handleLtypeSolid, "Continuous", "Solid line")
	tw.tag(0, "ENDTAB")
}

func writeLtype(tw *tagWriter, handle uint64, name, description string) {
	tw.tag(0, "LTYPE")
	tw.handle(5, handle)
	tw.handle(330, handleLtypeTable)
	tw.tag(100, "AcDbSymbolTableRecord")
	tw.tag(100, "AcDbLinetypeTableRecord")
	tw.tag(2, name)
	tw.intTag(70, 0)
	tw.tag(3, description)
	tw.intTag(72, 65)
	tw.intTag(73, 0)
	tw.floatTag(40, 0)
}

func (d *Document) writeLayerTable(tw *tagWriter) {
	beginTable(tw, "LAYER", handleLayerTable, len(d.layers)+1)

	// Layer 0 always exists.
	tw.tag(0, "LAYER")
	tw.handle(5, handleLayerZero)
	tw.handle(330, handleLayerTable)
	tw.tag(100, "AcDbSymbolTableRecord")
	tw.tag(100, "AcDbLayerTableRecord")
	tw.tag(2, "0")
	tw.intTag(70, 0)
	tw.intTag(62, 7)
	tw.tag(6, "Continuous")

	for _, l := range d.layers {
		tw.tag(0, "LAYER")
		tw.handle(5, l.handle)
		tw.handle(330, handleLayerTable)
		tw.tag(100, "AcDbSymbolTableRecord")
		tw.tag(100, "AcDbLayerTableRecord")
		tw.tag(2, l.Name)
		tw.intTag(70, 0)
		tw.intTag(62, 7)
		tw.intTag(420, int(l.R)<<16|int(l.G)<<8|int(l.B))
		tw.tag(6, "Continuous")
	}
	tw.tag(0, "ENDTAB")
}

func (d *Document) writeStyleTable(tw *tagWriter) {
	beginTable(tw, "STYLE", handleStyleTable, 1)
	tw.tag(0, "STYLE")
	tw.handle(5, handleStyleStandard)
	tw.handle(330, handleStyleTable)
	tw.tag(100, "AcDbSymbolTableRecord")
	tw.tag(100, "AcDbTextStyleTableRecord")
	tw.tag(2, "Standard")
	tw.intTag(70, 0)
	tw.floatTag(40, 0)
	tw.floatTag(41, 1)
	tw.floatTag(50, 0)
	tw.intTag(71, 0)
	tw.floatTag(42, 2.5)
	tw.tag(3, "txt")
	tw.tag(4, "")
	tw.tag(0, "ENDTAB")
}

func (d *Document) writeAppidTable(tw *tagWriter) {
	beginTable(tw, "APPID", handleAppidTable, 1)
	tw.tag(0, "APPID")
	tw.handle(5, handleAppidACAD)
	tw.handle(330, handleAppidTable)
	tw.tag(100, "AcDbSymbolTableRecord")
	tw.tag(100, "AcDbRegAppTableRecord")
	tw.tag(2, "ACAD")
	tw.intTag(70, 0)
	tw.tag(0, "ENDTAB")
}

func (d *Document) writeDimStyleTable(tw *tagWriter) {
	tw.tag(0, "TABLE")
	tw.tag(2, "DIMSTYLE")
	tw.handle(5, handleDimTable)
	tw.handle(330, 0)
	tw.tag(100, "AcDbSymbolTable")
	tw.intTag(70, 1)
	tw.tag(100, "AcDbDimStyleTable")
	tw.intTag(71, 1)

	tw.tag(0, "DIMSTYLE")
	tw.handle(105, handleDimStandard) // DIMSTYLE records carry their handle in group 105
	tw.handle(330, handleDimTable)
	tw.tag(100, "AcDbSymbolTableRecord")
	tw.tag(100, "AcDbDimStyleTableRecord")
	tw.tag(2, "Standard")
	tw.intTag(70, 0)
	tw.tag(0, "ENDTAB")
}

func (d *Document) writeBlockRecordTable(tw *tagWriter) {
	beginTable(tw, "BLOCK_RECORD", handleBlockTable, 2)
	writeBlockRecord(tw, handleModelSpace, "*Model_Space")
	writeBlockRecord(tw, handlePaperSpace, "*Paper_Space")
	tw.tag(0, "ENDTAB")
}

func writeBlockRecord(tw *tagWriter, handle uint64, name string) {
	tw.tag(0, "BLOCK_RECORD")
	tw.handle(5, handle)
	tw.handle(330, handleBlockTable)
	tw.tag(100, "AcDbSymbolTableRecord")
	tw.tag(100, "AcDbBlockTableRecord")
	tw.tag(2, name)
	tw.handle(340, 0)
}

func (d *Document) writeBlocks(tw *tagWriter) {
	tw.tag(0, "SECTION")
	tw.tag(2, "BLOCKS")
	writeBlock(tw, handleModelBlock, handleModelEndblk, handleModelSpace, "*Model_Space", false)
	writeBlock(tw, handlePaperBlock, handlePaperEndblk, handlePaperSpace, "*Paper_Space", true)
	tw.tag(0, "ENDSEC")
}

func writeBlock(tw *tagWriter, begin, end, owner uint64, name string, paper bool) {
	tw.tag(0, "BLOCK")
	tw.handle(5, begin)
	tw.handle(330, owner)
	tw.tag(100, "AcDbEntity")
	if paper {
		tw.intTag(67, 1)
	}
	tw.tag(8, "0")
	tw.tag(100, "AcDbBlockBegin")
	tw.tag(2, name)
	tw.intTag(70, 0)
	tw.floatTag(10, 0)
	tw.floatTag(20, 0)
	tw.floatTag(30, 0)
	tw.tag(3, name)
	tw.tag(1, "")

	tw.tag(0, "ENDBLK")
	tw.handle(5, end)
	tw.handle(330, owner)
	tw.tag(100, "AcDbEntity")
	if paper {
		tw.intTag(67, 1)
	}
	tw.tag(8, "0")
	tw.tag(100, "AcDbBlockEnd")
}

func (d *Document) writeEntities(tw *tagWriter) {
	tw.tag(0, "SECTION")
	tw.tag(2, "ENTITIES")
	for _, e := range d.entities {
		e.write(tw)
	}
	tw.tag(0, "ENDSEC")
}

func (d *Document) writeObjects(tw *tagWriter) {
	tw.tag(0, "SECTION")
	tw.tag(2, "OBJECTS")

	tw.tag(0, "DICTIONARY")
	tw.handle(5, handleRootDict)
	tw.handle(330, 0)
	tw.tag(100, "AcDbDictionary")
	tw.intTag(281, 1)
	tw.tag(3, "ACAD_GROUP")
	tw.handle(350, handleGroupDict)

	tw.tag(0, "DICTIONARY")
	tw.handle(5, handleGroupDict)
	tw.tag(102, "{ACAD_REACTORS")
	tw.handle(330, handleRootDict)
	tw.tag(102, "}")
	tw.handle(330, handleRootDict)
	tw.tag(100, "AcDbDictionary")
	tw.intTag(281, 1)

	tw.tag(0, "ENDSEC")
}
