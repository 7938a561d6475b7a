package dwarfhelper

import (
	"debug/dwarf"
	"testing"

	"github.com/stretchr/testify/require"

	"gohole/dwarfgen"
)

func collectMembers(t *testing.T, d *DwarfInfo, s *DwStruct) []*DwStructMember {
	t.Helper()
	var members []*DwStructMember
	it := NewMemberIter(d, s)
	for {
		m, err := it.Next()
		require.NoError(t, err)
		if m == nil {
			return members
		}
		members = append(members, m)
	}
}

func TestMemberIter(t *testing.T) {
	d := buildInfo(t, func(b *dwarfgen.Builder) {
		b.CompileUnit("a.c")
		base := b.AddBaseType("int", 4)
		ptr := b.AddPointerType(base)
		b.StructOpen("pair", 12)
		b.AddMember("first", base)
		b.AddMember("second", ptr)
		b.TagClose()
	})

	members := collectMembers(t, d, d.Structs()["pair"])
	require.Len(t, members, 2)

	require.Equal(t, "first", members[0].Name)
	require.NotNil(t, members[0].Type)
	require.Equal(t, KindBase, members[0].Type.Kind)
	require.Equal(t, "int", members[0].Type.Name)

	require.Equal(t, "second", members[1].Name)
	require.NotNil(t, members[1].Type)
	require.Equal(t, KindPointer, members[1].Type.Kind)
}

func TestMemberListIsContiguousPrefix(t *testing.T) {
	// children are [member, member, nested type declaration, member]:
	// the walk ends at the declaration and the trailing member is
	// never yielded
	d := buildInfo(t, func(b *dwarfgen.Builder) {
		b.CompileUnit("a.c")
		base := b.AddBaseType("int", 4)
		b.StructOpen("outer", 16)
		b.AddMember("a", base)
		b.AddMember("b", base)
		b.TagOpen(dwarf.TagStructType, "inner")
		b.Attr(dwarf.AttrByteSize, int64(4))
		b.TagClose()
		b.AddMember("c", base)
		b.TagClose()
	})

	members := collectMembers(t, d, d.Structs()["outer"])
	require.Len(t, members, 2)
	require.Equal(t, "a", members[0].Name)
	require.Equal(t, "b", members[1].Name)
}

func TestMemberWithUnresolvableType(t *testing.T) {
	// one bad member must not block the struct's other fields
	d := buildInfo(t, func(b *dwarfgen.Builder) {
		b.CompileUnit("a.c")
		base := b.AddBaseType("int", 4)
		variable := b.TagOpen(dwarf.TagVariable, "v")
		b.TagClose()
		b.StructOpen("broken", 16)
		b.AddMember("good", base)
		b.AddMember("bad", variable)
		b.AddMember("tail", base)
		b.TagClose()
	})

	members := collectMembers(t, d, d.Structs()["broken"])
	require.Len(t, members, 3)
	require.NotNil(t, members[0].Type)
	require.Nil(t, members[1].Type)
	require.NotNil(t, members[2].Type)
	require.Equal(t, "tail", members[2].Name)
}

func TestMemberAnonymousStructType(t *testing.T) {
	d := buildInfo(t, func(b *dwarfgen.Builder) {
		b.CompileUnit("a.c")
		anon := b.TagOpen(dwarf.TagStructType, "")
		b.Attr(dwarf.AttrByteSize, int64(8))
		b.TagClose()
		b.StructOpen("holder", 8)
		b.AddMember("inner", anon)
		b.TagClose()
	})

	members := collectMembers(t, d, d.Structs()["holder"])
	require.Len(t, members, 1)
	require.NotNil(t, members[0].Type)
	require.Equal(t, KindStruct, members[0].Type.Kind)
	require.Equal(t, "void", members[0].Type.Name)
	require.Equal(t, uint64(AnonRefcnt), members[0].Type.Refcnt)
}

func TestFreshIteratorReproducesSequence(t *testing.T) {
	d := buildInfo(t, func(b *dwarfgen.Builder) {
		b.CompileUnit("a.c")
		base := b.AddBaseType("int", 4)
		b.StructOpen("twice", 8)
		b.AddMember("x", base)
		b.AddMember("y", base)
		b.TagClose()
	})

	s := d.Structs()["twice"]
	first := collectMembers(t, d, s)
	second := collectMembers(t, d, s)
	require.Equal(t, first, second)
}

func TestMemberWithoutName(t *testing.T) {
	d := buildInfo(t, func(b *dwarfgen.Builder) {
		b.CompileUnit("a.c")
		base := b.AddBaseType("int", 4)
		b.StructOpen("padded", 8)
		b.AddMember("", base)
		b.TagClose()
	})

	members := collectMembers(t, d, d.Structs()["padded"])
	require.Len(t, members, 1)
	require.Empty(t, members[0].Name)
	require.NotNil(t, members[0].Type)
}
