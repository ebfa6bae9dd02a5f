package biff

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf16"
)

// Compound file constants for version 3 (512-byte sectors).
const (
	sectorSize      = 512
	entriesPerFAT   = sectorSize / 4
	headerDIFATSize = 109
	miniCutoff      = 0x1000
	dirEntrySize    = 128

	freeSect   = 0xFFFFFFFF
	endOfChain = 0xFFFFFFFE
	fatSect    = 0xFFFFFFFD
	difSect    = 0xFFFFFFFC
	noStream   = 0xFFFFFFFF
)

var cfbSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// writeCompoundFile wraps a single named stream in a compound file. The
// stream is padded to the mini stream cutoff so that it always lives in
// regular sectors.
func writeCompoundFile(w io.Writer, name string, data []byte) (int64, error) {
	if len(data) < miniCutoff {
		padded := make([]byte, miniCutoff)
		copy(padded, data)
		data = padded
	}
	if uint64(len(data)) > 0xFFFFFFFF {
		return 0, fmt.Errorf("%w: stream of %d bytes", ErrLimitExceeded, len(data))
	}

	streamSectors := (len(data) + sectorSize - 1) / sectorSize
	fatSectors, difatSectors := 1, 0
	for {
		total := fatSectors + difatSectors + 1 + streamSectors
		needFAT := (total + entriesPerFAT - 1) / entriesPerFAT
		needDIFAT := 0
		if needFAT > headerDIFATSize {
			needDIFAT = (needFAT - headerDIFATSize + entriesPerFAT - 2) / (entriesPerFAT - 1)
		}
		if needFAT == fatSectors && needDIFAT == difatSectors {
			break
		}
		fatSectors, difatSectors = needFAT, needDIFAT
	}

	firstDIFAT := fatSectors
	dirSector := fatSectors + difatSectors
	firstStream := dirSector + 1

	fat := make([]uint32, fatSectors*entriesPerFAT)
	for i := range fat {
		fat[i] = freeSect
	}
	for i := 0; i < fatSectors; i++ {
		fat[i] = fatSect
	}
	for i := 0; i < difatSectors; i++ {
		fat[firstDIFAT+i] = difSect
	}
	fat[dirSector] = endOfChain
	for i := 0; i < streamSectors; i++ {
		next := uint32(firstStream + i + 1)
		if i == streamSectors-1 {
			next = endOfChain
		}
		fat[firstStream+i] = next
	}

	out := make([]byte, 0, sectorSize*(1+firstStream+streamSectors))
	out = appendHeader(out, fatSectors, difatSectors, firstDIFAT, dirSector)
	for _, entry := range fat {
		out = binary.LittleEndian.AppendUint32(out, entry)
	}
	out = appendDIFAT(out, fatSectors, difatSectors, firstDIFAT)
	out = appendDirectory(out, name, firstStream, len(data))
	out = append(out, data...)
	if rem := len(data) % sectorSize; rem != 0 {
		out = append(out, make([]byte, sectorSize-rem)...)
	}

	n, err := w.Write(out)
	return int64(n), err
}

func appendHeader(out []byte, fatSectors, difatSectors, firstDIFAT, dirSector int) []byte {
	le := binary.LittleEndian
	out = append(out, cfbSignature...)
	out = append(out, make([]byte, 16)...) // CLSID
	out = le.AppendUint16(out, 0x003E)     // minor version
	out = le.AppendUint16(out, 0x0003)     // major version
	out = le.AppendUint16(out, 0xFFFE)     // byte order
	out = le.AppendUint16(out, 9)          // sector shift
	out = le.AppendUint16(out, 6)          // mini sector shift
	out = append(out, make([]byte, 6)...)
	out = le.AppendUint32(out, 0) // directory sectors (always 0 in v3)
	out = le.AppendUint32(out, uint32(fatSectors))
	out = le.AppendUint32(out, uint32(dirSector))
	out = le.AppendUint32(out, 0) // transaction signature
	out = le.AppendUint32(out, miniCutoff)
	out = le.AppendUint32(out, endOfChain) // first mini FAT sector
	out = le.AppendUint32(out, 0)          // mini FAT sectors
	if difatSectors > 0 {
		out = le.AppendUint32(out, uint32(firstDIFAT))
	} else {
		out = le.AppendUint32(out, endOfChain)
	}
	out = le.AppendUint32(out, uint32(difatSectors))
	for i := 0; i < headerDIFATSize; i++ {
		entry := uint32(freeSect)
		if i < fatSectors {
			entry = uint32(i)
		}
		out = le.AppendUint32(out, entry)
	}
	return out
}

// appendDIFAT lists the FAT sectors that do not fit in the header.
func appendDIFAT(out []byte, fatSectors, difatSectors, firstDIFAT int) []byte {
	next := headerDIFATSize
	for d := 0; d < difatSectors; d++ {
		for i := 0; i < entriesPerFAT-1; i++ {
			entry := uint32(freeSect)
			if next < fatSectors {
				entry = uint32(next)
				next++
			}
			out = binary.LittleEndian.AppendUint32(out, entry)
		}
		link := uint32(endOfChain)
		if d < difatSectors-1 {
			link = uint32(firstDIFAT + d + 1)
		}
		out = binary.LittleEndian.AppendUint32(out, link)
	}
	return out
}

// appendDirectory writes one directory sector: the root entry, the stream
// entry and two unused entries.
func appendDirectory(out []byte, name string, start, size int) []byte {
	out = appendDirEntry(out, "Root Entry", 5, noStream, 1, endOfChain, 0)
	out = appendDirEntry(out, name, 2, noStream, noStream, uint32(start), size)
	for i := 0; i < sectorSize/dirEntrySize-2; i++ {
		out = appendDirEntry(out, "", 0, noStream, noStream, 0, 0)
	}
	return out
}

func appendDirEntry(out []byte, name string, objType uint8, sibling, child, start uint32, size int) []byte {
	le := binary.LittleEndian
	entry := make([]byte, 0, dirEntrySize)

	nameBuf := make([]byte, 64)
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		le.PutUint16(nameBuf[i*2:], u)
	}
	entry = append(entry, nameBuf...)
	if name == "" {
		entry = le.AppendUint16(entry, 0)
	} else {
		entry = le.AppendUint16(entry, uint16((len(units)+1)*2))
	}
	entry = append(entry, objType)
	if objType == 0 {
		entry = append(entry, 0)
	} else {
		entry = append(entry, 1) // black
	}
	entry = le.AppendUint32(entry, sibling) // left
	entry = le.AppendUint32(entry, sibling) // right
	entry = le.AppendUint32(entry, child)
	entry = append(entry, make([]byte, 16)...) // CLSID
	entry = le.AppendUint32(entry, 0)          // state bits
	entry = append(entry, make([]byte, 16)...) // creation and modified time
	entry = le.AppendUint32(entry, start)
	entry = le.AppendUint64(entry, uint64(size))
	return append(out, entry...)
}
