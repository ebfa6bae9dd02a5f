package parser

import (
	"strconv"
	"strings"

	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
	"github.com/xuri/excelize/v2"
)

// ReadSheet reads one sheet of a modern workbook into a table named after
// the sheet. present lists rows that hold cells without values (see
// PresentRows) and may be nil. Rows with no cells are skipped and trailing
// empty cells are not part of a row.
func ReadSheet(f *excelize.File, sheetName string, includeHeader bool, present map[int]bool) (*models.Table, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	last := len(rows)
	for rowIdx := range present {
		last = max(last, rowIdx+1)
	}
	hasRow := func(rowIdx int) bool {
		return present[rowIdx] || (rowIdx < len(rows) && len(rows[rowIdx]) > 0)
	}

	b := newTableBuilder(sheetName)
	if includeHeader {
		if !hasRow(0) {
			return nil, ErrNoHeaderRow
		}
		cells, err := readRow(f, sheetName, 0, rawRow(rows, 0))
		if err != nil {
			return nil, err
		}
		b.header(cells)
	}

	for rowIdx := startRow(includeHeader); rowIdx < last; rowIdx++ {
		if !hasRow(rowIdx) {
			continue
		}
		cells, err := readRow(f, sheetName, rowIdx, rawRow(rows, rowIdx))
		if err != nil {
			return nil, err
		}
		b.row(cells)
	}

	return b.build(), nil
}

func rawRow(rows [][]string, rowIdx int) []string {
	if rowIdx < len(rows) {
		return rows[rowIdx]
	}
	return nil
}

// readRow converts the raw values of one row (0-based index).
func readRow(f *excelize.File, sheetName string, rowIdx int, raw []string) ([]models.Value, error) {
	cells := make([]models.Value, len(raw))
	for colIdx, rawValue := range raw {
		cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
		if err != nil {
			return nil, err
		}
		v, err := readCell(f, sheetName, cellName, rawValue)
		if err != nil {
			return nil, err
		}
		cells[colIdx] = v
	}
	return cells, nil
}

// readCell dispatches on the declared cell type. Formulas become the text of
// their cached result.
func readCell(f *excelize.File, sheetName, cellName, raw string) (models.Value, error) {
	formula, err := f.GetCellFormula(sheetName, cellName)
	if err != nil {
		return models.Empty(), err
	}
	if formula != "" {
		display, err := f.GetCellValue(sheetName, cellName)
		if err != nil {
			return models.Empty(), err
		}
		return models.Text(display), nil
	}

	cellType, err := f.GetCellType(sheetName, cellName)
	if err != nil {
		return models.Empty(), err
	}
	return coerceModern(cellType, raw), nil
}

// coerceModern maps an excelize cell type and raw value to a Value.
func coerceModern(cellType excelize.CellType, raw string) models.Value {
	switch cellType {
	case excelize.CellTypeBool:
		return models.Bool(parseBool(raw))
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		// Numbers are usually stored without a type attribute.
		if raw == "" {
			return models.Empty()
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return models.Number(f)
		}
		return models.Text(raw)
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeDate:
		return models.Text(raw)
	case excelize.CellTypeError:
		return models.Empty()
	}
	return models.Empty()
}

func parseBool(raw string) bool {
	return raw == "1" || strings.EqualFold(raw, "true")
}
