package dwarfhelper

import (
	"debug/dwarf"

	"github.com/pkg/errors"
)

// PointerWidth is the byte width of pointers. 64-bit targets only.
const PointerWidth = 8

// ResolveType reads the single entry at loc and classifies it. Wrapper
// kinds come back unflattened: resolving a pointer does not resolve the
// pointee, callers peel one layer at a time. Resolving the same
// location twice yields structurally equal results.
func (d *DwarfInfo) ResolveType(loc Location) (*Type, error) {
	entry, err := d.entryAt(loc.Off)
	if err != nil {
		return nil, err
	}
	switch entry.Tag {
	case dwarf.TagStructType:
		return d.resolveStruct(loc, entry), nil
	case dwarf.TagTypedef:
		name, _ := entry.Val(dwarf.AttrName).(string)
		size, _ := entry.Val(dwarf.AttrByteSize).(int64)
		return &Type{Kind: KindTypedef, Name: name, Size: size, Loc: loc}, nil
	case dwarf.TagPointerType:
		return &Type{Kind: KindPointer, Size: PointerWidth, Loc: loc}, nil
	case dwarf.TagConstType:
		return &Type{Kind: KindConst, Size: PointerWidth, Loc: loc}, nil
	case dwarf.TagBaseType:
		name, _ := entry.Val(dwarf.AttrName).(string)
		size, _ := entry.Val(dwarf.AttrByteSize).(int64)
		return &Type{Kind: KindBase, Name: name, Size: size, Loc: loc}, nil
	case dwarf.TagUnionType:
		// union members are not enumerated in this version
		return &Type{Kind: KindUnion, Loc: loc}, nil
	case dwarf.TagArrayType:
		count, err := d.arrayBounds(loc)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: KindArray, Count: count, Loc: loc}, nil
	case dwarf.TagEnumerationType:
		name, _ := entry.Val(dwarf.AttrName).(string)
		return &Type{Kind: KindEnum, Name: name, Loc: loc}, nil
	case dwarf.TagSubroutineType, dwarf.TagFormalParameter:
		return &Type{Kind: KindSubroutine, Loc: loc}, nil
	}
	return nil, errors.Wrapf(ErrUnrecognizedTag, "%s at %#x", entry.Tag, loc.Off)
}

// resolveStruct cross-references the registry so a struct's size always
// matches its registry entry. Nameless or unregistered structures come
// back as the anonymous "void" struct, sized from the local entry and
// marked with AnonRefcnt.
func (d *DwarfInfo) resolveStruct(loc Location, entry *dwarf.Entry) *Type {
	if name, ok := entry.Val(dwarf.AttrName).(string); ok {
		if s, ok := d.structMap[name]; ok {
			return &Type{Kind: KindStruct, Name: s.Name, Size: s.Size, Refcnt: s.Refcnt, Loc: loc}
		}
	}
	size, _ := entry.Val(dwarf.AttrByteSize).(int64)
	return &Type{Kind: KindStruct, Name: "void", Size: size, Refcnt: AnonRefcnt, Loc: loc}
}

// Peel resolves one layer of a wrapper type: it follows t's type
// attribute a single hop and classifies the target. (nil, nil) means t
// references no inner type; a pointer peeled to nothing reads as
// void*. Chains are reconstructed by calling Peel repeatedly.
func (d *DwarfInfo) Peel(t *Type) (*Type, error) {
	entry, err := d.entryAt(t.Loc.Off)
	if err != nil {
		return nil, err
	}
	v := entry.Val(dwarf.AttrType)
	if v == nil {
		return nil, nil
	}
	off, ok := v.(dwarf.Offset)
	if !ok {
		return nil, errors.Wrapf(ErrMalformedEntry, "type attribute at %#x is %T, not a reference", t.Loc.Off, v)
	}
	return d.ResolveType(Location{Unit: d.unitOf(off), Off: off})
}

// arrayBounds recovers the element count from the subrange entry that
// immediately follows the array entry. Only that one entry is
// inspected: further dimensions of a multi-dimensional array are
// ignored. A subrange without an upper bound counts as 0, which is
// indistinguishable from an empty array.
func (d *DwarfInfo) arrayBounds(loc Location) (int64, error) {
	r := d.cursorAt(loc.Off)
	if _, err := next(r); err != nil { // the array entry itself
		return 0, err
	}
	entry, err := next(r)
	if err != nil {
		return 0, err
	}
	if entry == nil || entry.Tag != dwarf.TagSubrangeType {
		return 0, errors.Wrapf(ErrTypeMismatch, "array at %#x has no subrange child", loc.Off)
	}
	upper, ok := entry.Val(dwarf.AttrUpperBound).(int64)
	if !ok {
		return 0, nil
	}
	return upper + 1, nil
}
