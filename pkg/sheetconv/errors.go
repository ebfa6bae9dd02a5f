package sheetconv

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/parser"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/writer"
)

// ErrInvalidFormat indicates an unsupported file extension or content type.
var ErrInvalidFormat = errors.New("invalid workbook format")

// ErrSheetNotFound indicates that the requested sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrHeaderRowMissing indicates that headers were requested but a sheet
// has no first row.
var ErrHeaderRowMissing = parser.ErrNoHeaderRow

// ErrRowTooWide indicates a row with more cells than the table has columns.
var ErrRowTooWide = models.ErrRowTooWide

// ErrLimitExceeded indicates data that does not fit the target workbook
// format.
var ErrLimitExceeded = writer.ErrLimitExceeded

// ErrDuplicateSheet indicates a sheet name that is already taken.
var ErrDuplicateSheet = writer.ErrDuplicateSheet

// FormatError reports the path or content type that failed format
// dispatch.
type FormatError struct {
	Path        string
	ContentType string
}

func (e *FormatError) Error() string {
	switch {
	case e.Path != "":
		return fmt.Sprintf("%v: unsupported extension %q in %s", ErrInvalidFormat, filepath.Ext(e.Path), e.Path)
	case e.ContentType != "":
		return fmt.Sprintf("%v: unsupported content type %q", ErrInvalidFormat, e.ContentType)
	}
	return fmt.Sprintf("%v: no path or content type", ErrInvalidFormat)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}

// SheetError reports a sheet index outside the workbook.
type SheetError struct {
	Index int
	Count int
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("%v: index %d, workbook has %d sheets", ErrSheetNotFound, e.Index, e.Count)
}

func (e *SheetError) Unwrap() error {
	return ErrSheetNotFound
}

// TableError attaches the sheet name to a conversion failure that
// originates in this module. Codec and I/O errors are never wrapped.
type TableError struct {
	SheetName string
	Op        string // "read", "write"
	Err       error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("%s sheet %q: %v", e.Op, e.SheetName, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// newTableError wraps err when it is one of this module's sentinels and
// returns it unchanged otherwise.
func newTableError(sheetName, op string, err error) error {
	if errors.Is(err, ErrHeaderRowMissing) || errors.Is(err, ErrRowTooWide) ||
		errors.Is(err, ErrLimitExceeded) || errors.Is(err, ErrDuplicateSheet) {
		return &TableError{SheetName: sheetName, Op: op, Err: err}
	}
	return err
}
