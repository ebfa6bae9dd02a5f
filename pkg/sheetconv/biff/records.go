package biff

import (
	"encoding/binary"
	"math"
	"unicode/utf16"
)

// Record identifiers written by this package.
const (
	recEOF        = 0x000A
	recCodepage   = 0x0042
	recWindow1    = 0x003D
	recFont       = 0x0031
	recBoundsheet = 0x0085
	recContinue   = 0x003C
	recSST        = 0x00FC
	recXF         = 0x00E0
	recStyle      = 0x0293
	recDimensions = 0x0200
	recNumber     = 0x0203
	recBoolErr    = 0x0205
	recLabelSST   = 0x00FD
	recWindow2    = 0x023E
	recBOF        = 0x0809
)

const (
	// maxRecordData is the largest payload a single BIFF8 record may carry.
	maxRecordData = 8224

	bofVersion    = 0x0600
	bofGlobals    = 0x0005
	bofWorksheet  = 0x0010
	codepageUTF16 = 1200

	// styleXFCount built-in style XFs precede the single cell XF.
	styleXFCount = 15
	cellXF       = styleXFCount

	// stringFlagUTF16 marks uncompressed (UTF-16LE) character data.
	stringFlagUTF16 = 0x01
)

// stream accumulates BIFF records.
type stream struct {
	buf []byte
}

func (s *stream) len() int { return len(s.buf) }

func (s *stream) record(id uint16, data []byte) {
	s.buf = binary.LittleEndian.AppendUint16(s.buf, id)
	s.buf = binary.LittleEndian.AppendUint16(s.buf, uint16(len(data)))
	s.buf = append(s.buf, data...)
}

// payload is a little-endian builder for record data.
type payload []byte

func (p payload) u8(v uint8) payload   { return append(p, v) }
func (p payload) u16(v uint16) payload { return binary.LittleEndian.AppendUint16(p, v) }
func (p payload) u32(v uint32) payload { return binary.LittleEndian.AppendUint32(p, v) }
func (p payload) f64(v float64) payload {
	return binary.LittleEndian.AppendUint64(p, math.Float64bits(v))
}

func (p payload) utf16(units []uint16) payload {
	for _, u := range units {
		p = p.u16(u)
	}
	return p
}

// shortString appends a ShortXLUnicodeString (8-bit length).
func (p payload) shortString(s string) payload {
	units := utf16.Encode([]rune(s))
	return p.u8(uint8(len(units))).u8(stringFlagUTF16).utf16(units)
}

func bof(dt uint16) payload {
	return payload{}.u16(bofVersion).u16(dt).
		u16(0x0DBB). // build
		u16(0x07CC). // year
		u32(0).      // history flags
		u32(0x06)    // lowest BIFF version
}

func window1() payload {
	return payload{}.
		u16(0).u16(0).u16(0x3A98).u16(0x2328). // position and size
		u16(0x0038).                           // show scroll bars and tabs
		u16(0).u16(0).u16(1).u16(600)          // active tab, first tab, selected tabs, tab ratio
}

func font() payload {
	return payload{}.
		u16(200).    // height in twips
		u16(0).      // attributes
		u16(0x7FFF). // system colour
		u16(400).    // weight
		u16(0).      // escapement
		u8(0).u8(0).u8(0).u8(0).
		shortString("Arial")
}

func xf(style bool) payload {
	attrs, used := uint16(0x0001), uint8(0xF8)
	if style {
		attrs, used = 0xFFF5, 0
	}
	return payload{}.
		u16(0). // font
		u16(0). // number format: General
		u16(attrs).
		u8(0x20). // bottom aligned
		u8(0).u8(0).u8(used).
		u32(0).u32(0).
		u16(0x20C0) // default pattern colours
}

func style() payload {
	return payload{}.u16(0x8000).u8(0).u8(0xFF) // built-in Normal style on XF 0
}

func dimensions(rows, cols int) payload {
	return payload{}.u32(0).u32(uint32(rows)).u16(0).u16(uint16(cols)).u16(0)
}

func window2(selected bool) payload {
	flags := uint16(0x00B6)
	if selected {
		flags |= 0x0600
	}
	return payload{}.u16(flags).u16(0).u16(0).u16(64).u16(0).u16(0).u16(0).u32(0)
}

func cellHeader(row, col int) payload {
	return payload{}.u16(uint16(row)).u16(uint16(col)).u16(cellXF)
}

// sharedStrings writes the SST record and as many CONTINUE records as the
// strings need. Character data may be split between records; each
// continuation then starts with the string flags byte again.
func sharedStrings(s *stream, total int, unique [][]uint16) {
	cur := payload{}.u32(uint32(total)).u32(uint32(len(unique)))
	id := uint16(recSST)
	flush := func() {
		s.record(id, cur)
		id, cur = recContinue, payload{}
	}

	for _, units := range unique {
		// The 3-byte string header and the first character stay together.
		need := 3
		if len(units) > 0 {
			need += 2
		}
		if len(cur)+need > maxRecordData {
			flush()
		}
		cur = cur.u16(uint16(len(units))).u8(stringFlagUTF16)
		for {
			n := min((maxRecordData-len(cur))/2, len(units))
			cur = cur.utf16(units[:n])
			units = units[n:]
			if len(units) == 0 {
				break
			}
			flush()
			cur = cur.u8(stringFlagUTF16)
		}
	}
	s.record(id, cur)
}
