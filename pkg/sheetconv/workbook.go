package sheetconv

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/biff"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/writer"
)

// DefaultSheetName names the sheet of a single unnamed table.
const DefaultSheetName = "sheet"

// WriteWorkbook writes one sheet per table with at least one row and
// returns the path actually written. The format follows the extension of
// path; an empty path or any other extension produces a modern workbook
// with .xlsx appended.
//
// A table without a usable name gets sheet<N>, where N is its 1-based
// position among all tables, skipped ones included.
func WriteWorkbook(tables models.Collection, path string, opts Options) (string, error) {
	path, format := resolveWorkbookPath(path, opts)
	wb, err := buildWorkbook(format, tables, collectionSheetName, opts)
	if err != nil {
		return path, err
	}
	defer wb.Close()
	return path, saveWorkbook(wb, path)
}

// EncodeWorkbook writes the workbook WriteWorkbook would produce to w.
func EncodeWorkbook(w io.Writer, format Format, tables models.Collection, opts Options) error {
	return encodeWorkbook(w, format, tables, collectionSheetName, opts)
}

func encodeWorkbook(w io.Writer, format Format, tables models.Collection, fallback sheetNameFunc, opts Options) error {
	wb, err := buildWorkbook(format, tables, fallback, opts)
	if err != nil {
		return err
	}
	defer wb.Close()
	_, err = wb.WriteTo(w)
	return err
}

// WriteWorkbookTable writes a single table. An unnamed table becomes the
// sheet "sheet".
func WriteWorkbookTable(table *models.Table, path string, opts Options) (string, error) {
	path, format := resolveWorkbookPath(path, opts)
	wb, err := buildWorkbook(format, models.Collection{table}, singleSheetName, opts)
	if err != nil {
		return path, err
	}
	defer wb.Close()
	return path, saveWorkbook(wb, path)
}

// EncodeWorkbookTable writes a single table to w.
func EncodeWorkbookTable(w io.Writer, format Format, table *models.Table, opts Options) error {
	return encodeWorkbook(w, format, models.Collection{table}, singleSheetName, opts)
}

// ReadWorkbook reads every sheet of the workbook at path. The format is
// chosen by extension before the file is opened.
func ReadWorkbook(path string, opts Options) (models.Collection, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	src, err := openSource(path, format)
	if err != nil {
		return nil, err
	}
	defer src.close()
	return readAll(src, opts)
}

// DecodeWorkbook reads every sheet of the workbook in r. The content type
// is checked before r is read. r is not closed.
func DecodeWorkbook(r io.Reader, contentType string, opts Options) (models.Collection, error) {
	format, err := FormatFromContentType(contentType)
	if err != nil {
		return nil, err
	}
	src, err := decodeSource(r, format)
	if err != nil {
		return nil, err
	}
	defer src.close()
	return readAll(src, opts)
}

// ReadWorkbookTable reads the sheet at opts.SheetIndex.
func ReadWorkbookTable(path string, opts Options) (*models.Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	src, err := openSource(path, format)
	if err != nil {
		return nil, err
	}
	defer src.close()
	return readOne(src, opts)
}

// DecodeWorkbookTable reads the sheet at opts.SheetIndex from r.
func DecodeWorkbookTable(r io.Reader, contentType string, opts Options) (*models.Table, error) {
	format, err := FormatFromContentType(contentType)
	if err != nil {
		return nil, err
	}
	src, err := decodeSource(r, format)
	if err != nil {
		return nil, err
	}
	defer src.close()
	return readOne(src, opts)
}

func readAll(src source, opts Options) (models.Collection, error) {
	log := opts.logger()
	tables := make(models.Collection, 0, src.sheetCount())
	for i := 0; i < src.sheetCount(); i++ {
		table, err := src.readSheet(i, opts.ShouldIncludeHeader())
		if err != nil {
			return nil, newTableError(src.sheetName(i), "read", err)
		}
		if table == nil {
			log.Debug("skipping absent sheet", "index", i)
			continue
		}
		log.Debug("read sheet", "sheet", table.Name, "columns", len(table.Columns), "rows", table.Len())
		tables = append(tables, table)
	}
	return tables, nil
}

func readOne(src source, opts Options) (*models.Table, error) {
	idx := opts.SheetIndex
	if idx < 0 || idx >= src.sheetCount() {
		return nil, &SheetError{Index: idx, Count: src.sheetCount()}
	}
	table, err := src.readSheet(idx, opts.ShouldIncludeHeader())
	if err != nil {
		return nil, newTableError(src.sheetName(idx), "read", err)
	}
	if table == nil {
		return nil, &SheetError{Index: idx, Count: src.sheetCount()}
	}
	return table, nil
}

// resolveWorkbookPath applies the default name and extension rules.
func resolveWorkbookPath(path string, opts Options) (string, Format) {
	if path == "" {
		path = opts.defaultName()
	}
	format, err := FormatFromPath(path)
	if err != nil {
		opts.logger().Debug("defaulting to xlsx", "path", path)
		return path + FormatXLSX.Extension(), FormatXLSX
	}
	return path, format
}

func saveWorkbook(wb writer.Workbook, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := wb.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// sheetNameFunc returns the fallback name of the table at index i.
type sheetNameFunc func(i int) string

func collectionSheetName(i int) string { return fmt.Sprintf("sheet%d", i+1) }

func singleSheetName(int) string { return DefaultSheetName }

func buildWorkbook(format Format, tables models.Collection, fallback sheetNameFunc, opts Options) (writer.Workbook, error) {
	wb, err := writer.New(format.writerKind())
	if err != nil {
		return nil, err
	}

	log := opts.logger()
	names := make(sheetNames)
	for i, table := range tables {
		if table.Len() == 0 {
			log.Debug("skipping empty table", "index", i)
			continue
		}
		name := names.assign(table.Name, fallback(i))
		if err := writeSheet(wb, name, table, opts.ShouldIncludeHeader()); err != nil {
			wb.Close()
			return nil, newTableError(name, "write", err)
		}
		log.Debug("wrote sheet", "sheet", name, "format", format, "rows", table.Len())
	}
	return wb, nil
}

// writeSheet puts the header at row 0 when enabled and data row i at row
// i+1, or at row i without a header.
func writeSheet(wb writer.Workbook, name string, table *models.Table, includeHeader bool) error {
	s, err := wb.NewSheet(name)
	if err != nil {
		return err
	}

	offset := 0
	if includeHeader {
		for col, column := range table.Columns {
			if err := s.SetCell(0, col, models.Text(column)); err != nil {
				return err
			}
		}
		offset = 1
	}

	for i, row := range table.Rows {
		for col, v := range row {
			if err := s.SetCell(i+offset, col, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// sheetNames hands out unique sheet names. Keys are lower case since
// workbooks compare sheet names ignoring case.
type sheetNames map[string]bool

// assign returns name if it is usable and free, otherwise fallback, with a
// numeric suffix when fallback is taken as well.
func (n sheetNames) assign(name, fallback string) string {
	if !validSheetName(name) || n[strings.ToLower(name)] {
		name = fallback
	}
	candidate := name
	for k := 2; n[strings.ToLower(candidate)]; k++ {
		candidate = fmt.Sprintf("%s_%d", name, k)
	}
	n[strings.ToLower(candidate)] = true
	return candidate
}

// validSheetName reports whether both workbook formats accept name.
func validSheetName(name string) bool {
	if n := len(utf16.Encode([]rune(name))); n == 0 || n > biff.MaxSheetNameLen {
		return false
	}
	if strings.ContainsAny(name, `:\/?*[]`) {
		return false
	}
	return !strings.HasPrefix(name, "'") && !strings.HasSuffix(name, "'")
}
