// Package dwarfgen synthesizes .debug_abbrev and .debug_info sections
// with arbitrary contents, including entries and attribute orderings no
// compiler would emit. Sections use the 32-bit DWARF v4 format, little
// endian, and parse with debug/dwarf.
package dwarfgen

import (
	"bytes"
	"debug/dwarf"
	"encoding/binary"
	"fmt"
)

// Builder accumulates entries for one or more compilation units. Open
// an entry with TagOpen, add attributes with Attr, nest children by
// opening further entries, and close with TagClose. All of an entry's
// attributes must be added before its first child is opened.
type Builder struct {
	info     bytes.Buffer
	abbrevs  []tagDescr
	tagStack []*tagState
	unitPos  int // offset of the open unit's length field, -1 if none
}

type tagDescr struct {
	tag      dwarf.Tag
	attr     []dwarf.Attr
	form     []uint8
	children bool
}

type tagState struct {
	pos int // offset of the abbrev-code placeholder byte
	tagDescr
}

// New returns an empty Builder. Call CompileUnit before adding entries.
func New() *Builder {
	return &Builder{unitPos: -1}
}

// CompileUnit closes any open unit and starts a new one. The returned
// offset is that of the unit's root entry.
func (b *Builder) CompileUnit(name string) dwarf.Offset {
	b.closeUnit()
	b.unitPos = b.info.Len()
	b.info.Write([]byte{
		0x0, 0x0, 0x0, 0x0, // unit length, patched on close
		0x4, 0x0, // version
		0x0, 0x0, 0x0, 0x0, // debug_abbrev_offset
		0x8, // address_size
	})
	off := b.TagOpen(dwarf.TagCompileUnit, name)
	b.Attr(dwarf.AttrLanguage, uint8(0x0c)) // DW_LANG_C99
	return off
}

func (b *Builder) closeUnit() {
	if b.unitPos < 0 {
		return
	}
	for len(b.tagStack) > 0 {
		b.TagClose()
	}
	buf := b.info.Bytes()
	binary.LittleEndian.PutUint32(buf[b.unitPos:], uint32(b.info.Len()-b.unitPos-4))
	b.unitPos = -1
}

// TagOpen starts a new entry at the current position and returns its
// offset. A non-empty name becomes a leading DW_AT_name attribute.
func (b *Builder) TagOpen(tag dwarf.Tag, name string) dwarf.Offset {
	if n := len(b.tagStack); n > 0 {
		b.tagStack[n-1].children = true
	}
	ts := &tagState{pos: b.info.Len()}
	ts.tag = tag
	b.info.WriteByte(0) // abbrev code, patched in TagClose
	b.tagStack = append(b.tagStack, ts)
	if name != "" {
		b.Attr(dwarf.AttrName, name)
	}
	return dwarf.Offset(ts.pos)
}

// Attr appends one attribute to the entry opened last. The DWARF form
// follows from the value's Go type: string → DW_FORM_string,
// uint8/16/32/64 → DW_FORM_dataN, int64 → DW_FORM_sdata, bool →
// DW_FORM_flag, dwarf.Offset → DW_FORM_ref_addr.
func (b *Builder) Attr(attr dwarf.Attr, val interface{}) {
	ts := b.tagStack[len(b.tagStack)-1]
	ts.attr = append(ts.attr, attr)
	switch x := val.(type) {
	case string:
		ts.form = append(ts.form, formString)
		b.info.WriteString(x)
		b.info.WriteByte(0)
	case uint8:
		ts.form = append(ts.form, formData1)
		b.info.WriteByte(x)
	case uint16:
		ts.form = append(ts.form, formData2)
		binary.Write(&b.info, binary.LittleEndian, x)
	case uint32:
		ts.form = append(ts.form, formData4)
		binary.Write(&b.info, binary.LittleEndian, x)
	case uint64:
		ts.form = append(ts.form, formData8)
		binary.Write(&b.info, binary.LittleEndian, x)
	case int64:
		ts.form = append(ts.form, formSdata)
		writeSLEB128(&b.info, x)
	case bool:
		ts.form = append(ts.form, formFlag)
		if x {
			b.info.WriteByte(1)
		} else {
			b.info.WriteByte(0)
		}
	case dwarf.Offset:
		ts.form = append(ts.form, formRefAddr)
		binary.Write(&b.info, binary.LittleEndian, uint32(x))
	default:
		panic(fmt.Sprintf("dwarfgen: unsupported attribute value %T", val))
	}
}

// TagClose finishes the entry opened last, assigning its abbreviation
// code and terminating its child list if it had one.
func (b *Builder) TagClose() {
	n := len(b.tagStack)
	ts := b.tagStack[n-1]
	b.tagStack = b.tagStack[:n-1]

	b.info.Bytes()[ts.pos] = b.abbrevFor(ts.tagDescr)

	if ts.children {
		b.info.WriteByte(0) // end of children
	}
}

// abbrevFor returns the abbreviation code for the given entry shape,
// adding a table entry for shapes not seen before. Codes stay below
// 256 so the single placeholder byte can hold them.
func (b *Builder) abbrevFor(d tagDescr) byte {
	for i := range b.abbrevs {
		if b.abbrevs[i].equal(d) {
			return byte(i + 1)
		}
	}
	b.abbrevs = append(b.abbrevs, d)
	if len(b.abbrevs) > 255 {
		panic("dwarfgen: abbreviation table overflow")
	}
	return byte(len(b.abbrevs))
}

func (d tagDescr) equal(other tagDescr) bool {
	if d.tag != other.tag || d.children != other.children || len(d.attr) != len(other.attr) {
		return false
	}
	for i := range d.attr {
		if d.attr[i] != other.attr[i] || d.form[i] != other.form[i] {
			return false
		}
	}
	return true
}

// Build closes the open unit and returns the finished sections.
func (b *Builder) Build() (abbrev, info []byte, err error) {
	b.closeUnit()
	if len(b.tagStack) > 0 {
		return nil, nil, fmt.Errorf("dwarfgen: %d entries left open", len(b.tagStack))
	}
	return b.makeAbbrevTable(), b.info.Bytes(), nil
}

func (b *Builder) makeAbbrevTable() []byte {
	var buf bytes.Buffer
	for i, d := range b.abbrevs {
		writeULEB128(&buf, uint64(i+1))
		writeULEB128(&buf, uint64(d.tag))
		if d.children {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
		for j := range d.attr {
			writeULEB128(&buf, uint64(d.attr[j]))
			writeULEB128(&buf, uint64(d.form[j]))
		}
		buf.WriteByte(0)
		buf.WriteByte(0)
	}
	buf.WriteByte(0)
	return buf.Bytes()
}
