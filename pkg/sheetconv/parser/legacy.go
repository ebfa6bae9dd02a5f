package parser

import (
	"io"

	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
	"github.com/yamitzky/xlrd-go/xlrd"
)

// OpenLegacy opens a legacy workbook from a path, or from data when data is
// non-nil. Diagnostics from the codec are discarded and rows are kept
// ragged so that a row's length is its last cell index plus one.
func OpenLegacy(path string, data []byte) (*xlrd.Book, error) {
	return xlrd.OpenWorkbook(path, &xlrd.OpenWorkbookOptions{
		Logfile:      io.Discard,
		FileContents: data,
		RaggedRows:   true,
	})
}

// ReadLegacySheet reads one sheet of a legacy workbook into a table named
// after the sheet.
func ReadLegacySheet(s *xlrd.Sheet, includeHeader bool) (*models.Table, error) {
	b := newTableBuilder(s.Name)
	if includeHeader {
		if s.NRows == 0 || s.RowLen(0) == 0 {
			return nil, ErrNoHeaderRow
		}
		b.header(readLegacyRow(s, 0))
	}

	for rowx := startRow(includeHeader); rowx < s.NRows; rowx++ {
		if s.RowLen(rowx) == 0 {
			continue
		}
		b.row(readLegacyRow(s, rowx))
	}

	return b.build(), nil
}

func readLegacyRow(s *xlrd.Sheet, rowx int) []models.Value {
	n := s.RowLen(rowx)
	cells := make([]models.Value, n)
	for colx := 0; colx < n; colx++ {
		cells[colx] = coerceLegacy(s.RawCellType(rowx, colx), s.RawCellValue(rowx, colx))
	}
	return cells
}

// coerceLegacy maps an xlrd cell type and value to a Value. The codec has
// already replaced formulas with their cached results.
func coerceLegacy(ctype int, value interface{}) models.Value {
	switch ctype {
	case xlrd.XL_CELL_NUMBER, xlrd.XL_CELL_DATE:
		if f, ok := toFloat(value); ok {
			return models.Number(f)
		}
	case xlrd.XL_CELL_TEXT:
		if s, ok := value.(string); ok {
			return models.Text(s)
		}
	case xlrd.XL_CELL_BOOLEAN:
		switch b := value.(type) {
		case bool:
			return models.Bool(b)
		case int:
			return models.Bool(b != 0)
		}
	}
	return models.Empty()
}

func toFloat(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// SummarizeLegacySheet computes the populated row count and used range of a
// legacy sheet.
func SummarizeLegacySheet(s *xlrd.Sheet) (SheetSummary, error) {
	summary := SheetSummary{Name: s.Name}
	rows := make([][]string, s.NRows)
	for rowx := range rows {
		cells := readLegacyRow(s, rowx)
		if len(cells) > 0 {
			summary.Rows++
		}
		rows[rowx] = make([]string, len(cells))
		for colx, c := range cells {
			rows[rowx][colx] = c.String()
		}
	}

	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return summary, nil
	}
	var err error
	summary.UsedRange, err = boundsToRange(minRow, maxRow, minCol, maxCol)
	return summary, err
}
