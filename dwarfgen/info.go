package dwarfgen

import "debug/dwarf"

// The helpers below cover the entry shapes the tests lean on. Anything
// more exotic (odd attribute orderings, unexpected tags) goes through
// TagOpen/Attr/TagClose directly.

// AddBaseType adds a named base type of the given byte size.
func (b *Builder) AddBaseType(name string, byteSize int64) dwarf.Offset {
	off := b.TagOpen(dwarf.TagBaseType, name)
	b.Attr(dwarf.AttrByteSize, byteSize)
	b.TagClose()
	return off
}

// AddTypedef adds a typedef aliasing typ.
func (b *Builder) AddTypedef(name string, typ dwarf.Offset) dwarf.Offset {
	off := b.TagOpen(dwarf.TagTypedef, name)
	b.Attr(dwarf.AttrType, typ)
	b.TagClose()
	return off
}

// AddPointerType adds a pointer to typ; typ 0 leaves the pointee
// unreferenced (a void pointer).
func (b *Builder) AddPointerType(typ dwarf.Offset) dwarf.Offset {
	off := b.TagOpen(dwarf.TagPointerType, "")
	if typ != 0 {
		b.Attr(dwarf.AttrType, typ)
	}
	b.TagClose()
	return off
}

// AddConstType adds a const qualifier over typ.
func (b *Builder) AddConstType(typ dwarf.Offset) dwarf.Offset {
	off := b.TagOpen(dwarf.TagConstType, "")
	b.Attr(dwarf.AttrType, typ)
	b.TagClose()
	return off
}

// AddArrayType adds an array of typ with a single subrange child. A
// negative upper bound omits the upper-bound attribute.
func (b *Builder) AddArrayType(typ dwarf.Offset, upper int64) dwarf.Offset {
	off := b.TagOpen(dwarf.TagArrayType, "")
	b.Attr(dwarf.AttrType, typ)
	b.TagOpen(dwarf.TagSubrangeType, "")
	if upper >= 0 {
		b.Attr(dwarf.AttrUpperBound, upper)
	}
	b.TagClose()
	b.TagClose()
	return off
}

// AddSubroutineType adds a subroutine type; typ 0 means no return type.
func (b *Builder) AddSubroutineType(typ dwarf.Offset) dwarf.Offset {
	off := b.TagOpen(dwarf.TagSubroutineType, "")
	if typ != 0 {
		b.Attr(dwarf.AttrType, typ)
	}
	b.TagClose()
	return off
}

// StructOpen starts a structure entry; add members with AddMember and
// finish with TagClose.
func (b *Builder) StructOpen(name string, byteSize int64) dwarf.Offset {
	off := b.TagOpen(dwarf.TagStructType, name)
	b.Attr(dwarf.AttrByteSize, byteSize)
	return off
}

// AddMember adds one member entry to the struct opened last; typ 0
// omits the type reference.
func (b *Builder) AddMember(name string, typ dwarf.Offset) dwarf.Offset {
	off := b.TagOpen(dwarf.TagMember, name)
	if typ != 0 {
		b.Attr(dwarf.AttrType, typ)
	}
	b.TagClose()
	return off
}
