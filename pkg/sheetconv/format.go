package sheetconv

import (
	"path/filepath"
	"strings"

	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/writer"
)

// Format is a workbook file format.
type Format int

const (
	// FormatXLSX is the Office Open XML workbook format.
	FormatXLSX Format = iota + 1
	// FormatXLS is the legacy BIFF8 workbook format.
	FormatXLS
)

// Content types of the supported workbook formats.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeXLS  = "application/vnd.ms-excel"
)

func (f Format) String() string {
	switch f {
	case FormatXLSX:
		return "xlsx"
	case FormatXLS:
		return "xls"
	}
	return "unknown"
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatXLSX:
		return ".xlsx"
	case FormatXLS:
		return ".xls"
	}
	return ""
}

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return ContentTypeXLSX
	case FormatXLS:
		return ContentTypeXLS
	}
	return ""
}

func (f Format) writerKind() writer.Kind {
	if f == FormatXLS {
		return writer.KindXLS
	}
	return writer.KindXLSX
}

// FormatFromPath selects the format by file extension, ignoring case.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	}
	return 0, &FormatError{Path: path}
}

// FormatFromContentType selects the format by MIME type. The type must match
// one of the two content types exactly, without parameters.
func FormatFromContentType(contentType string) (Format, error) {
	switch contentType {
	case ContentTypeXLSX:
		return FormatXLSX, nil
	case ContentTypeXLS:
		return FormatXLS, nil
	}
	return 0, &FormatError{ContentType: contentType}
}
