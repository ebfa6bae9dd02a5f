// Package parser reads workbook sheets into tables.
package parser

import (
	"errors"

	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
)

// ErrNoHeaderRow indicates that headers were requested but the first row of
// the sheet is absent.
var ErrNoHeaderRow = errors.New("header row is missing")

// tableBuilder accumulates one sheet into a Table. Columns grow with
// placeholder names whenever a row is wider than the current column set.
type tableBuilder struct {
	table *models.Table
}

func newTableBuilder(name string) *tableBuilder {
	return &tableBuilder{table: models.NewTable(name)}
}

// header declares one column per header cell, in order.
func (b *tableBuilder) header(cells []models.Value) {
	for _, c := range cells {
		b.table.AddColumn(c.String())
	}
}

// row appends a data row, widening the table first when needed.
func (b *tableBuilder) row(cells []models.Value) {
	for len(b.table.Columns) < len(cells) {
		b.table.AddColumn("")
	}
	// Width is guaranteed above, so AppendRow cannot fail.
	_ = b.table.AppendRow(cells...)
}

func (b *tableBuilder) build() *models.Table {
	return b.table
}

// startRow returns the first data row index.
func startRow(includeHeader bool) int {
	if includeHeader {
		return 1
	}
	return 0
}
