package dwarfgen

import "bytes"

func writeULEB128(buf *bytes.Buffer, v uint64) {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		buf.WriteByte(c)
		if v == 0 {
			break
		}
	}
}

func writeSLEB128(buf *bytes.Buffer, v int64) {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0) {
			buf.WriteByte(c)
			break
		}
		buf.WriteByte(c | 0x80)
	}
}
