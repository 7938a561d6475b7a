package dwarfgen

// DWARF v4 form codes emitted by Attr.
const (
	formData2   = 0x05
	formData4   = 0x06
	formData8   = 0x07
	formString  = 0x08
	formData1   = 0x0b
	formFlag    = 0x0c
	formSdata   = 0x0d
	formRefAddr = 0x10
)
