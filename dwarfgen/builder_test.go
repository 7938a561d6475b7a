package dwarfgen

import (
	"debug/dwarf"
	"testing"

	"github.com/stretchr/testify/require"
)

// Round-trips generated sections through debug/dwarf to pin the
// encoding: unit boundaries, entry offsets, attribute forms.
func TestBuilderRoundTrip(t *testing.T) {
	b := New()
	b.CompileUnit("a.c")
	base := b.AddBaseType("int", 4)
	pkt := b.StructOpen("pkt", 8)
	b.AddMember("len", base)
	b.TagClose()
	b.CompileUnit("b.c")
	b.AddBaseType("char", 1)

	abbrev, info, err := b.Build()
	require.NoError(t, err)

	data, err := dwarf.New(abbrev, nil, nil, info, nil, nil, nil, nil)
	require.NoError(t, err)

	var units int
	var tags []dwarf.Tag
	r := data.Reader()
	for {
		entry, err := r.Next()
		require.NoError(t, err)
		if entry == nil {
			break
		}
		if entry.Tag == 0 {
			continue
		}
		if entry.Tag == dwarf.TagCompileUnit {
			units++
		}
		tags = append(tags, entry.Tag)
	}
	require.Equal(t, 2, units)
	require.Equal(t, []dwarf.Tag{
		dwarf.TagCompileUnit,
		dwarf.TagBaseType,
		dwarf.TagStructType,
		dwarf.TagMember,
		dwarf.TagCompileUnit,
		dwarf.TagBaseType,
	}, tags)

	// seeking to a recorded offset lands on that entry
	r.Seek(pkt)
	entry, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, dwarf.TagStructType, entry.Tag)
	require.Equal(t, "pkt", entry.Val(dwarf.AttrName))
	require.Equal(t, int64(8), entry.Val(dwarf.AttrByteSize))

	// the member's type reference round-trips to the base type offset
	member, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, dwarf.TagMember, member.Tag)
	require.Equal(t, base, member.Val(dwarf.AttrType))
}

func TestBuilderAttributeOrderPreserved(t *testing.T) {
	b := New()
	b.CompileUnit("a.c")
	off := b.TagOpen(dwarf.TagStructType, "s")
	b.Attr(dwarf.AttrByteSize, int64(8))
	b.Attr(dwarf.AttrDeclaration, true)
	b.TagClose()

	abbrev, info, err := b.Build()
	require.NoError(t, err)
	data, err := dwarf.New(abbrev, nil, nil, info, nil, nil, nil, nil)
	require.NoError(t, err)

	r := data.Reader()
	r.Seek(off)
	entry, err := r.Next()
	require.NoError(t, err)

	attrs := make([]dwarf.Attr, len(entry.Field))
	for i, f := range entry.Field {
		attrs[i] = f.Attr
	}
	require.Equal(t, []dwarf.Attr{dwarf.AttrName, dwarf.AttrByteSize, dwarf.AttrDeclaration}, attrs)
}
