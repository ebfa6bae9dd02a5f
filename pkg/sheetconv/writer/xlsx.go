package writer

import (
	"fmt"
	"io"
	"unicode/utf16"

	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
	"github.com/xuri/excelize/v2"
)

type xlsxWorkbook struct {
	f *excelize.File
	// placeholder is the sheet every new file starts with. It is renamed
	// to the first sheet created.
	placeholder string
	created     int
}

func newXLSX() *xlsxWorkbook {
	f := excelize.NewFile()
	return &xlsxWorkbook{f: f, placeholder: f.GetSheetName(0)}
}

func (w *xlsxWorkbook) NewSheet(name string) (Sheet, error) {
	if w.created > 0 {
		// excelize returns the existing sheet for a taken name.
		if idx, err := w.f.GetSheetIndex(name); err != nil {
			return nil, err
		} else if idx != -1 {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSheet, name)
		}
		if _, err := w.f.NewSheet(name); err != nil {
			return nil, err
		}
	} else if err := w.f.SetSheetName(w.placeholder, name); err != nil {
		return nil, err
	}
	w.created++
	return &xlsxSheet{f: w.f, name: name}, nil
}

func (w *xlsxWorkbook) WriteTo(out io.Writer) (int64, error) {
	return w.f.WriteTo(out)
}

func (w *xlsxWorkbook) Close() error {
	return w.f.Close()
}

type xlsxSheet struct {
	f    *excelize.File
	name string
}

func (s *xlsxSheet) SetCell(row, col int, v models.Value) error {
	if v.IsEmpty() {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}

	switch v.Kind() {
	case models.KindNumber:
		f, _ := v.Float()
		return s.f.SetCellFloat(s.name, cell, f, -1, 64)
	case models.KindText:
		text, _ := v.Str()
		// excelize would silently truncate.
		if n := len(utf16.Encode([]rune(text))); n > MaxTextLen {
			return fmt.Errorf("%w: text of %d characters in cell %s", ErrLimitExceeded, n, cell)
		}
		return s.f.SetCellStr(s.name, cell, text)
	case models.KindBool:
		b, _ := v.Boolean()
		return s.f.SetCellBool(s.name, cell, b)
	}
	return nil
}
