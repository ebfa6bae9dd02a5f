// Package biff encodes legacy BIFF8 workbooks (.xls) inside an OLE2
// compound file.
//
// Only what a plain data export needs is written: sheets, numeric, text
// and boolean cells with the default style.
package biff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
)

// Format limits.
const (
	MaxRows         = 65536
	MaxCols         = 256
	MaxTextLen      = 32767
	MaxSheetNameLen = 31
)

// ErrLimitExceeded indicates data that does not fit the legacy format.
var ErrLimitExceeded = errors.New("legacy workbook limit exceeded")

// ErrDuplicateSheet indicates a sheet name that is already in use. Names
// are compared ignoring case.
var ErrDuplicateSheet = errors.New("duplicate sheet name")

type cellKey struct{ row, col int }

// Sheet holds the cells of one worksheet.
type Sheet struct {
	name  string
	cells map[cellKey]models.Value
}

// Workbook collects sheets in memory until WriteTo is called.
type Workbook struct {
	sheets []*Sheet
}

// NewWorkbook returns an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{}
}

// NewSheet appends a sheet.
func (wb *Workbook) NewSheet(name string) (*Sheet, error) {
	if n := len(utf16.Encode([]rune(name))); n == 0 || n > MaxSheetNameLen {
		return nil, fmt.Errorf("%w: sheet name %q must be 1 to %d characters", ErrLimitExceeded, name, MaxSheetNameLen)
	}
	for _, s := range wb.sheets {
		if strings.EqualFold(s.name, name) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSheet, name)
		}
	}
	s := &Sheet{name: name, cells: make(map[cellKey]models.Value)}
	wb.sheets = append(wb.sheets, s)
	return s, nil
}

// SetCell stores v at the 0-based row and column. Empty values clear the
// cell.
func (s *Sheet) SetCell(row, col int, v models.Value) error {
	if row < 0 || row >= MaxRows || col < 0 || col >= MaxCols {
		return fmt.Errorf("%w: cell (%d, %d) outside %d x %d", ErrLimitExceeded, row, col, MaxRows, MaxCols)
	}
	if text, ok := v.Str(); ok {
		if n := len(utf16.Encode([]rune(text))); n > MaxTextLen {
			return fmt.Errorf("%w: text of %d characters in cell (%d, %d)", ErrLimitExceeded, n, row, col)
		}
	}
	key := cellKey{row, col}
	if v.IsEmpty() {
		delete(s.cells, key)
		return nil
	}
	s.cells[key] = v
	return nil
}

func (s *Sheet) sortedKeys() []cellKey {
	keys := make([]cellKey, 0, len(s.cells))
	for k := range s.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].row != keys[j].row {
			return keys[i].row < keys[j].row
		}
		return keys[i].col < keys[j].col
	})
	return keys
}

// stringTable assigns shared string indexes in first-use order.
type stringTable struct {
	index  map[string]int
	unique [][]uint16
	total  int
}

func (t *stringTable) add(s string) int {
	t.total++
	if i, ok := t.index[s]; ok {
		return i
	}
	i := len(t.unique)
	t.index[s] = i
	t.unique = append(t.unique, utf16.Encode([]rune(s)))
	return i
}

// WriteTo encodes the workbook. A workbook without sheets gets one empty
// sheet, since the format requires at least one.
func (wb *Workbook) WriteTo(w io.Writer) (int64, error) {
	sheets := wb.sheets
	if len(sheets) == 0 {
		sheets = []*Sheet{{name: "Sheet1", cells: map[cellKey]models.Value{}}}
	}

	sst := &stringTable{index: make(map[string]int)}
	bodies := make([]*stream, len(sheets))
	for i, s := range sheets {
		bodies[i] = s.encode(sst, i == 0)
	}

	globals := &stream{}
	globals.record(recBOF, bof(bofGlobals))
	globals.record(recCodepage, payload{}.u16(codepageUTF16))
	globals.record(recWindow1, window1())
	for i := 0; i < 4; i++ {
		globals.record(recFont, font())
	}
	for i := 0; i < styleXFCount; i++ {
		globals.record(recXF, xf(true))
	}
	globals.record(recXF, xf(false))
	globals.record(recStyle, style())

	// Sheet offsets are patched once the globals length is known.
	offsetAt := make([]int, len(sheets))
	for i, s := range sheets {
		offsetAt[i] = globals.len() + 4
		globals.record(recBoundsheet, payload{}.u32(0).u8(0).u8(0).shortString(s.name))
	}
	sharedStrings(globals, sst.total, sst.unique)
	globals.record(recEOF, nil)

	pos := globals.len()
	for i, body := range bodies {
		binary.LittleEndian.PutUint32(globals.buf[offsetAt[i]:], uint32(pos))
		pos += body.len()
	}

	data := make([]byte, 0, pos)
	data = append(data, globals.buf...)
	for _, body := range bodies {
		data = append(data, body.buf...)
	}
	return writeCompoundFile(w, "Workbook", data)
}

// encode writes the worksheet substream.
func (s *Sheet) encode(sst *stringTable, first bool) *stream {
	keys := s.sortedKeys()
	rows, cols := 0, 0
	for _, k := range keys {
		rows = max(rows, k.row+1)
		cols = max(cols, k.col+1)
	}

	body := &stream{}
	body.record(recBOF, bof(bofWorksheet))
	body.record(recDimensions, dimensions(rows, cols))
	for _, k := range keys {
		v := s.cells[k]
		switch v.Kind() {
		case models.KindNumber:
			f, _ := v.Float()
			body.record(recNumber, cellHeader(k.row, k.col).f64(f))
		case models.KindText:
			text, _ := v.Str()
			body.record(recLabelSST, cellHeader(k.row, k.col).u32(uint32(sst.add(text))))
		case models.KindBool:
			b, _ := v.Boolean()
			var flag uint8
			if b {
				flag = 1
			}
			body.record(recBoolErr, cellHeader(k.row, k.col).u8(flag).u8(0))
		case models.KindEmpty:
		}
	}
	body.record(recWindow2, window2(first))
	body.record(recEOF, nil)
	return body
}
