package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
)

type convertFlags struct {
	output string
	sheet  int
	all    bool
	dir    string
	infer  bool
}

func newConvertCmd(a *app) *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a CSV file to a workbook or a workbook to CSV",
		Long: `Convert reads a CSV file or an .xls/.xlsx workbook.

A CSV input is written as a workbook unless the output ends in .csv.
A workbook input is written as CSV unless the output ends in .xls or
.xlsx. Without --output a timestamp name is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			opts.SheetIndex = f.sheet

			written, err := convert(args[0], f, opts)
			if err != nil {
				return fmt.Errorf("conversion failed: %w", err)
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file path (default: timestamp name)")
	cmd.Flags().IntVar(&f.sheet, "sheet", 0, "Index of the sheet to convert")
	cmd.Flags().BoolVar(&f.all, "all", false, "Convert every sheet")
	cmd.Flags().StringVar(&f.dir, "dir", ".", "Directory for per-sheet CSV files with --all")
	cmd.Flags().BoolVar(&f.infer, "infer", false, "Convert CSV fields that look like numbers or booleans")
	return cmd
}

// convert dispatches on the input and output types and returns the paths
// written.
func convert(input string, f convertFlags, opts sheetconv.Options) ([]string, error) {
	if isCSV(input) {
		table, err := sheetconv.ReadCSV(input, opts)
		if err != nil {
			return nil, err
		}
		if f.infer {
			inferValues(table)
		}
		if isCSV(f.output) {
			return single(sheetconv.WriteCSV(table, f.output, opts))
		}
		return single(sheetconv.WriteWorkbookTable(table, f.output, opts))
	}

	if _, err := sheetconv.FormatFromPath(f.output); err == nil {
		if !f.all {
			table, err := sheetconv.ReadWorkbookTable(input, opts)
			if err != nil {
				return nil, err
			}
			return single(sheetconv.WriteWorkbookTable(table, f.output, opts))
		}
		tables, err := sheetconv.ReadWorkbook(input, opts)
		if err != nil {
			return nil, err
		}
		return single(sheetconv.WriteWorkbook(tables, f.output, opts))
	}

	if !f.all {
		table, err := sheetconv.ReadWorkbookTable(input, opts)
		if err != nil {
			return nil, err
		}
		return single(sheetconv.WriteCSV(table, f.output, opts))
	}
	return writeSheetFiles(input, f.dir, opts)
}

// writeSheetFiles writes one CSV file per sheet into dir.
func writeSheetFiles(input, dir string, opts sheetconv.Options) ([]string, error) {
	tables, err := sheetconv.ReadWorkbook(input, opts)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(tables))
	used := make(map[string]bool, len(tables))
	for i, table := range tables {
		path, err := sheetconv.WriteCSV(table, filepath.Join(dir, sheetFileName(table.Name, i, used)), opts)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// sheetFileName derives a CSV file name from a sheet name. The result is
// always a plain file name, so joining it to a directory stays inside that
// directory. Names that cannot be made local fall back to sheet<N>, and
// names already in used (ignoring case) get a _<k> suffix.
func sheetFileName(sheetName string, index int, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, sheetName)
	if base == "" || base == "." || base == ".." || !filepath.IsLocal(base+sheetconv.CSVExtension) {
		base = fmt.Sprintf("%s%d", sheetconv.DefaultSheetName, index+1)
	}

	name := base
	for k := 2; used[strings.ToLower(name)]; k++ {
		name = fmt.Sprintf("%s_%d", base, k)
	}
	used[strings.ToLower(name)] = true
	return name + sheetconv.CSVExtension
}

// inferValues replaces text cells with the number or boolean they spell.
func inferValues(table *models.Table) {
	for _, row := range table.Rows {
		for i, v := range row {
			if s, ok := v.Str(); ok {
				row[i] = models.ParseValue(s)
			}
		}
	}
}

func single(path string, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}
