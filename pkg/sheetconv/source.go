package sheetconv

import (
	"archive/zip"
	"bytes"
	"io"
	"os"

	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/parser"
	"github.com/xuri/excelize/v2"
	"github.com/yamitzky/xlrd-go/xlrd"
)

// source is an open workbook of either format.
type source interface {
	sheetCount() int
	sheetName(index int) string
	// readSheet returns nil without error for an absent sheet.
	readSheet(index int, includeHeader bool) (*models.Table, error)
	summarize(index int) (parser.SheetSummary, error)
	close() error
}

func openSource(path string, format Format) (source, error) {
	if format == FormatXLS {
		book, err := parser.OpenLegacy(path, nil)
		if err != nil {
			return nil, err
		}
		return &legacySource{book: book}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return openModern(data)
}

func decodeSource(r io.Reader, format Format) (source, error) {
	if format == FormatXLS {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		book, err := parser.OpenLegacy("", data)
		if err != nil {
			return nil, err
		}
		return &legacySource{book: book}, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return openModern(data)
}

// openModern opens a modern workbook and keeps its package readable for
// row scanning.
func openModern(data []byte) (source, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	pkg, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &modernSource{f: f, pkg: pkg, sheets: f.GetSheetList()}, nil
}

type modernSource struct {
	f      *excelize.File
	pkg    *zip.Reader
	sheets []string
}

func (s *modernSource) sheetCount() int { return len(s.sheets) }

func (s *modernSource) sheetName(index int) string { return s.sheets[index] }

func (s *modernSource) readSheet(index int, includeHeader bool) (*models.Table, error) {
	present, err := parser.PresentRows(s.pkg, s.sheets[index])
	if err != nil {
		return nil, err
	}
	return parser.ReadSheet(s.f, s.sheets[index], includeHeader, present)
}

func (s *modernSource) summarize(index int) (parser.SheetSummary, error) {
	return parser.SummarizeSheet(s.f, s.sheets[index])
}

func (s *modernSource) close() error { return s.f.Close() }

type legacySource struct {
	book *xlrd.Book
}

func (s *legacySource) sheetCount() int { return s.book.NSheets }

func (s *legacySource) sheetName(index int) string {
	names := s.book.SheetNames()
	if index < len(names) {
		return names[index]
	}
	return ""
}

func (s *legacySource) sheet(index int) *xlrd.Sheet {
	sh, err := s.book.SheetByIndex(index)
	if err != nil {
		return nil
	}
	return sh
}

func (s *legacySource) readSheet(index int, includeHeader bool) (*models.Table, error) {
	sh := s.sheet(index)
	if sh == nil {
		return nil, nil
	}
	return parser.ReadLegacySheet(sh, includeHeader)
}

func (s *legacySource) summarize(index int) (parser.SheetSummary, error) {
	sh := s.sheet(index)
	if sh == nil {
		return parser.SheetSummary{}, &SheetError{Index: index, Count: s.sheetCount()}
	}
	return parser.SummarizeLegacySheet(sh)
}

func (s *legacySource) close() error {
	s.book.ReleaseResources()
	return nil
}
