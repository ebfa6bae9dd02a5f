// Package sheetconv converts tables to and from CSV files and spreadsheet
// workbooks.
package sheetconv

import (
	"log/slog"
	"time"
)

// DefaultNameLayout is the time layout of generated file names.
const DefaultNameLayout = "20060102_150405"

// Options configures conversion behavior. The zero value is usable.
type Options struct {
	// IncludeHeader specifies whether the first line or row holds column
	// names. If nil, defaults to true.
	IncludeHeader *bool
	// Separator splits CSV lines on read. Defaults to ','.
	Separator rune
	// Separators, when non-empty, splits CSV lines on any of its runes
	// and takes precedence over Separator.
	Separators []rune
	// SheetIndex selects the sheet for single-table workbook reads.
	SheetIndex int
	// Clock supplies the time for generated file names. Defaults to
	// time.Now.
	Clock func() time.Time
	// Logger receives debug records. Defaults to discarding them.
	Logger *slog.Logger
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		Separator: ',',
	}
}

// WithHeader returns a copy of o with IncludeHeader set.
func (o Options) WithHeader(include bool) Options {
	o.IncludeHeader = &include
	return o
}

// ShouldIncludeHeader returns whether headers are read and written.
func (o Options) ShouldIncludeHeader() bool {
	if o.IncludeHeader != nil {
		return *o.IncludeHeader
	}
	return true
}

func (o Options) separators() []rune {
	if len(o.Separators) > 0 {
		return o.Separators
	}
	if o.Separator != 0 {
		return []rune{o.Separator}
	}
	return []rune{','}
}

func (o Options) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// defaultName returns the timestamp file name without extension.
func (o Options) defaultName() string {
	return o.now().Format(DefaultNameLayout)
}
