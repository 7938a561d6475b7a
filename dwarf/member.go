package dwarfhelper

import "debug/dwarf"

// MemberIter walks the members of one struct in declaration order.
// Every step restarts a cursor at the struct's location and skips
// forward to the next ordinal, so the iterator holds no position in
// the entry stream; a fresh iterator over the same struct reproduces
// the same sequence.
type MemberIter struct {
	info *DwarfInfo
	s    *DwStruct
	idx  int
}

// NewMemberIter returns an iterator over s's members, positioned
// before the first one.
func NewMemberIter(info *DwarfInfo, s *DwStruct) *MemberIter {
	return &MemberIter{info: info, s: s}
}

// Next returns the next member, or (nil, nil) once the first
// non-member child is reached. Members are a contiguous prefix of a
// struct's children: a nested type declaration ends the walk for good,
// even if members follow it.
func (it *MemberIter) Next() (*DwStructMember, error) {
	idx := it.idx
	it.idx++

	r := it.info.cursorAt(it.s.Loc.Off)
	if _, err := next(r); err != nil { // the struct entry itself
		return nil, err
	}
	for i := 0; i < idx; i++ {
		entry, err := next(r)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, nil
		}
	}
	entry, err := next(r)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.Tag != dwarf.TagMember {
		return nil, nil
	}
	return it.parseMember(entry), nil
}

// parseMember never fails the whole struct: a member whose type
// reference cannot be resolved is yielded with a nil Type so the
// remaining fields still come through.
func (it *MemberIter) parseMember(entry *dwarf.Entry) *DwStructMember {
	m := &DwStructMember{Loc: Location{Unit: it.s.Loc.Unit, Off: entry.Offset}}
	for _, f := range entry.Field {
		switch f.Attr {
		case dwarf.AttrName:
			if v, ok := f.Val.(string); ok {
				m.Name = v
			}
		case dwarf.AttrByteSize:
			if v, ok := f.Val.(int64); ok {
				m.Size = v
			}
		case dwarf.AttrType:
			off, ok := f.Val.(dwarf.Offset)
			if !ok {
				continue
			}
			t, err := it.info.ResolveType(Location{Unit: it.info.unitOf(off), Off: off})
			if err != nil {
				continue
			}
			m.Type = t
		}
	}
	return m
}
