// Package main provides the CLI entry point for sheetconv.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the flags shared by all subcommands.
type app struct {
	cfg       Config
	noHeader  bool
	separator string
	logger    *slog.Logger
}

func newRootCmd(cfg Config) *cobra.Command {
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "sheetconv",
		Short: "Convert tables between CSV files and Excel workbooks",
		Long: `sheetconv converts tables between CSV files and Excel workbooks
(.xls and .xlsx), and dumps workbook contents as JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(a.cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.noHeader, "no-header", cfg.NoHeader, "Treat the first line or row as data")
	rootCmd.PersistentFlags().StringVar(&a.separator, "separator", cfg.Separator, "CSV separator; several characters mean any of them")

	rootCmd.AddCommand(newConvertCmd(a), newDumpCmd(a), newSheetsCmd(a))
	return rootCmd
}

// options builds conversion options from the shared flags.
func (a *app) options() (sheetconv.Options, error) {
	opts := sheetconv.DefaultOptions().WithHeader(!a.noHeader)
	opts.Logger = a.logger

	seps := []rune(a.separator)
	switch len(seps) {
	case 0:
		return opts, fmt.Errorf("separator must not be empty")
	case 1:
		opts.Separator = seps[0]
	default:
		opts.Separators = seps
	}
	return opts, nil
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), sheetconv.CSVExtension)
}

// readTables reads every table of a CSV file or workbook.
func readTables(path string, opts sheetconv.Options) (models.Collection, error) {
	if isCSV(path) {
		table, err := sheetconv.ReadCSV(path, opts)
		if err != nil {
			return nil, err
		}
		return models.Collection{table}, nil
	}
	return sheetconv.ReadWorkbook(path, opts)
}

// readTable reads a CSV file, or the sheet at opts.SheetIndex of a workbook.
func readTable(path string, opts sheetconv.Options) (*models.Table, error) {
	if isCSV(path) {
		return sheetconv.ReadCSV(path, opts)
	}
	return sheetconv.ReadWorkbookTable(path, opts)
}
