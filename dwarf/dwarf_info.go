package dwarfhelper

import (
	"debug/dwarf"
	"debug/elf"
	"sort"

	"github.com/go-delve/delve/pkg/dwarf/godwarf"
	"github.com/pkg/errors"
)

// DwarfInfo wraps one binary's debug info sections and the struct
// registry built from them. Build it once per binary, call LoadStructs
// once, then resolve and enumerate as often as needed; after the scan
// the registry is read-only and every lookup opens its own cursor.
type DwarfInfo struct {
	elfFile   *elf.File
	data      *dwarf.Data
	unitOffs  []dwarf.Offset
	structMap map[string]*DwStruct
	loaded    bool
}

// NewDwarfInfo opens the ELF binary at input and materializes its
// debug sections.
func NewDwarfInfo(input string) (*DwarfInfo, error) {
	elfFile, err := elf.Open(input)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", input)
	}
	data, err := loadSections(elfFile)
	if err != nil {
		elfFile.Close()
		return nil, err
	}
	info := NewDwarfInfoFromData(data)
	info.elfFile = elfFile
	return info, nil
}

// NewDwarfInfoFromData wraps already-materialized debug sections.
func NewDwarfInfoFromData(data *dwarf.Data) *DwarfInfo {
	return &DwarfInfo{
		data:      data,
		structMap: make(map[string]*DwStruct),
	}
}

// loadSections pulls each well-known debug section out of the ELF
// image and hands the raw bytes to debug/dwarf. godwarf transparently
// decompresses .zdebug_* sections; absent sections load as empty.
func loadSections(f *elf.File) (*dwarf.Data, error) {
	section := func(name string) []byte {
		b, err := godwarf.GetDebugSectionElf(f, name)
		if err != nil {
			return nil
		}
		return b
	}
	abbrev, info := section("abbrev"), section("info")
	if len(abbrev) == 0 || len(info) == 0 {
		return nil, errors.Wrap(ErrSectionMissing, ".debug_info/.debug_abbrev")
	}
	data, err := dwarf.New(abbrev, nil, nil, info, section("line"), nil, section("ranges"), section("str"))
	if err != nil {
		return nil, errors.Wrap(err, "parse debug sections")
	}
	return data, nil
}

// Close releases the underlying ELF handle.
func (d *DwarfInfo) Close() error {
	if d.elfFile == nil {
		return nil
	}
	return d.elfFile.Close()
}

// LoadStructs walks every compilation unit once and fills the struct
// registry. It must be called before any type resolution. Calling it
// again is a no-op, so the registry is never double-counted.
func (d *DwarfInfo) LoadStructs() error {
	if d.loaded {
		return nil
	}
	reader := d.data.Reader()
	unitIdx := -1
	for {
		entry, err := reader.Next()
		if err != nil {
			return errors.Wrap(err, "scan debug info")
		}
		if entry == nil {
			break
		}
		switch entry.Tag {
		case dwarf.TagCompileUnit:
			d.unitOffs = append(d.unitOffs, entry.Offset)
			unitIdx++
		case dwarf.TagStructType:
			d.loadStruct(unitIdx, entry)
		}
	}
	d.loaded = true
	return nil
}

// loadStruct scans one structure entry's attributes in storage order.
// A declaration flag abandons the entry: forward declarations have no
// body and are never lookup targets. The scan stops as soon as both
// name and size are captured, so a declaration flag stored after them
// goes unseen and the entry registers as a full definition.
func (d *DwarfInfo) loadStruct(unitIdx int, entry *dwarf.Entry) {
	var (
		name    string
		size    int64
		hasName bool
		hasSize bool
	)
	for _, f := range entry.Field {
		switch f.Attr {
		case dwarf.AttrName:
			if v, ok := f.Val.(string); ok {
				name, hasName = v, true
			}
		case dwarf.AttrByteSize:
			if v, ok := f.Val.(int64); ok {
				size, hasSize = v, true
			}
		case dwarf.AttrDeclaration:
			return
		}
		if hasName && hasSize {
			break
		}
	}
	if !hasName || name == "" {
		return
	}
	if s, ok := d.structMap[name]; ok {
		s.Refcnt++
		return
	}
	d.structMap[name] = &DwStruct{
		Name: name,
		Size: size,
		Loc:  Location{Unit: unitIdx, Off: entry.Offset},
	}
}

// Structs returns the registry, keyed by struct name. Treat it as
// read-only.
func (d *DwarfInfo) Structs() map[string]*DwStruct {
	return d.structMap
}

// cursorAt restarts a forward-only depth-first cursor at off. The
// underlying format has no random access: every lookup walks forward
// from here.
func (d *DwarfInfo) cursorAt(off dwarf.Offset) *dwarf.Reader {
	r := d.data.Reader()
	r.Seek(off)
	return r
}

// next advances the cursor one depth-first step. Cursor failures mean
// the seek offset did not land on a valid entry.
func next(r *dwarf.Reader) (*dwarf.Entry, error) {
	entry, err := r.Next()
	if err != nil {
		return nil, errors.Wrapf(ErrOutOfRange, "%v", err)
	}
	return entry, nil
}

// entryAt restarts a cursor at off and reads exactly one entry.
func (d *DwarfInfo) entryAt(off dwarf.Offset) (*dwarf.Entry, error) {
	entry, err := next(d.cursorAt(off))
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.Tag == 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "no entry at %#x", off)
	}
	return entry, nil
}

// unitOf maps a global entry offset back to the index of the unit
// containing it.
func (d *DwarfInfo) unitOf(off dwarf.Offset) int {
	i := sort.Search(len(d.unitOffs), func(i int) bool { return d.unitOffs[i] > off })
	if i == 0 {
		return 0
	}
	return i - 1
}
