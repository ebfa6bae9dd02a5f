package writer

import (
	"io"

	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/biff"
)

type xlsWorkbook struct {
	wb *biff.Workbook
}

func newXLS() *xlsWorkbook {
	return &xlsWorkbook{wb: biff.NewWorkbook()}
}

func (w *xlsWorkbook) NewSheet(name string) (Sheet, error) {
	s, err := w.wb.NewSheet(name)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (w *xlsWorkbook) WriteTo(out io.Writer) (int64, error) {
	return w.wb.WriteTo(out)
}

func (w *xlsWorkbook) Close() error { return nil }
