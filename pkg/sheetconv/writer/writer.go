// Package writer puts tables into workbooks. Each workbook format has its
// own back end behind the same Workbook and Sheet interfaces.
package writer

import (
	"fmt"
	"io"

	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/biff"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
)

// Kind selects a back end.
type Kind int

const (
	// KindXLSX writes Office Open XML workbooks.
	KindXLSX Kind = iota
	// KindXLS writes legacy BIFF8 workbooks.
	KindXLS
)

// MaxTextLen is the longest text a cell may hold in either format.
const MaxTextLen = biff.MaxTextLen

var (
	// ErrLimitExceeded indicates data that does not fit the target format.
	ErrLimitExceeded = biff.ErrLimitExceeded
	// ErrDuplicateSheet indicates a sheet name that is already taken.
	ErrDuplicateSheet = biff.ErrDuplicateSheet
)

// Workbook is an in-memory workbook. It is written with WriteTo and must
// be closed afterwards.
type Workbook interface {
	io.WriterTo
	io.Closer
	NewSheet(name string) (Sheet, error)
}

// Sheet receives cells by 0-based row and column. Empty values leave the
// cell unset.
type Sheet interface {
	SetCell(row, col int, v models.Value) error
}

// New returns an empty workbook of the given kind.
func New(kind Kind) (Workbook, error) {
	switch kind {
	case KindXLSX:
		return newXLSX(), nil
	case KindXLS:
		return newXLS(), nil
	}
	return nil, fmt.Errorf("unknown workbook kind %d", kind)
}
