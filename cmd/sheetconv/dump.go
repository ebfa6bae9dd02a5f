package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/output"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		outputPath string
		pretty     bool
		sheet      int
	)

	cmd := &cobra.Command{
		Use:   "dump <input>",
		Short: "Print the tables of a CSV file or workbook as JSON",
		Long: `Dump prints every table as a JSON array. With --sheet only the table
of that sheet is printed, as a single JSON object. A CSV file holds one
table, so --sheet prints it as an object.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			var jsonData []byte
			if cmd.Flags().Changed("sheet") {
				opts.SheetIndex = sheet
				table, err := readTable(args[0], opts)
				if err != nil {
					return fmt.Errorf("read failed: %w", err)
				}
				jsonData, err = output.TableToJSON(table, pretty)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
			} else {
				tables, err := readTables(args[0], opts)
				if err != nil {
					return fmt.Errorf("read failed: %w", err)
				}
				jsonData, err = output.ToJSON(tables, pretty)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().IntVar(&sheet, "sheet", 0, "Print only the table of this sheet index")
	return cmd
}

func newSheetsCmd(a *app) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "sheets <input>",
		Short: "List the sheets of a workbook with row counts and used ranges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			summaries, err := sheetconv.ListSheets(args[0], opts)
			if err != nil {
				return fmt.Errorf("read failed: %w", err)
			}

			jsonData, err := output.SummariesToJSON(summaries, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}
