package dwarfhelper

import "debug/dwarf"

// Location addresses a single debug info entry: the index of the
// compilation unit it belongs to and its offset inside .debug_info.
// A Location is only meaningful for the DwarfInfo that produced it.
type Location struct {
	Unit int
	Off  dwarf.Offset
}

// AnonRefcnt marks a synthetic Type built for a structure entry that
// carries no name or is missing from the registry.
const AnonRefcnt = ^uint64(0)

// DwStruct is one registry entry. Loc points at the first full
// definition seen during the scan; later definitions of the same name
// only bump Refcnt.
type DwStruct struct {
	Name   string
	Size   int64
	Loc    Location
	Refcnt uint64
}

// TypeKind classifies a resolved entry.
type TypeKind int

const (
	KindUnknown TypeKind = iota
	KindStruct
	KindTypedef
	KindPointer
	KindConst
	KindBase
	KindUnion
	KindArray
	KindEnum
	KindSubroutine
)

var kindNames = [...]string{
	KindUnknown:    "unknown",
	KindStruct:     "struct",
	KindTypedef:    "typedef",
	KindPointer:    "pointer",
	KindConst:      "const",
	KindBase:       "base",
	KindUnion:      "union",
	KindArray:      "array",
	KindEnum:       "enum",
	KindSubroutine: "subroutine",
}

func (k TypeKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Type is the result of resolving one entry. It always carries its own
// Loc so the caller can ask Peel for the next layer; wrapper kinds
// (pointer, const, typedef, array, enum) reference an inner type that
// is not resolved here.
type Type struct {
	Kind   TypeKind
	Name   string
	Size   int64
	Count  int64  // KindArray: number of elements, not a byte size
	Refcnt uint64 // KindStruct: registry refcount, or AnonRefcnt
	Loc    Location
}

// DwStructMember is one field of a struct. Type is nil only when the
// member's type reference could not be resolved.
type DwStructMember struct {
	Name string
	Size int64
	Type *Type
	Loc  Location
}
