// Package output renders tables and sheet summaries as JSON.
package output

import (
	"encoding/json"

	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/parser"
)

// ToJSON serializes all tables. Empty cells render as null.
func ToJSON(tables models.Collection, pretty bool) ([]byte, error) {
	if tables == nil {
		tables = models.Collection{}
	}
	return marshal(tables, pretty)
}

// TableToJSON serializes a single table.
func TableToJSON(table *models.Table, pretty bool) ([]byte, error) {
	return marshal(table, pretty)
}

// SummariesToJSON serializes sheet summaries.
func SummariesToJSON(summaries []parser.SheetSummary, pretty bool) ([]byte, error) {
	if summaries == nil {
		summaries = []parser.SheetSummary{}
	}
	return marshal(summaries, pretty)
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
