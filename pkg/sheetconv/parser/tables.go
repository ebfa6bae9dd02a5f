package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetSummary describes the populated area of a sheet.
type SheetSummary struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Rows is the number of rows that contain at least one cell.
	Rows int `json:"rows"`
	// UsedRange is the A1-style bounding box of non-empty cells, empty when
	// the sheet holds no data.
	UsedRange string `json:"used_range,omitempty"`
}

// SummarizeSheet computes the populated row count and used range of a sheet.
func SummarizeSheet(f *excelize.File, sheetName string) (SheetSummary, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return SheetSummary{}, err
	}

	summary := SheetSummary{Name: sheetName}
	for _, row := range rows {
		if len(row) > 0 {
			summary.Rows++
		}
	}

	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return summary, nil
	}
	summary.UsedRange, err = boundsToRange(minRow, maxRow, minCol, maxCol)
	return summary, err
}

// boundsToRange converts 0-based inclusive bounds to range notation.
func boundsToRange(minRow, maxRow, minCol, maxCol int) (string, error) {
	startCell, err := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	if err != nil {
		return "", err
	}
	endCell, err := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", startCell, endCell), nil
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 {
				minRow = rowIdx
			}
			maxRow = rowIdx
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}
