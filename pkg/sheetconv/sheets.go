package sheetconv

import "github.com/ukaji3/sheetconv-go/pkg/sheetconv/parser"

// SheetSummary describes the populated area of one sheet.
type SheetSummary = parser.SheetSummary

// ListSheets summarizes every sheet of the workbook at path, in order.
func ListSheets(path string, opts Options) ([]SheetSummary, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	src, err := openSource(path, format)
	if err != nil {
		return nil, err
	}
	defer src.close()

	summaries := make([]SheetSummary, 0, src.sheetCount())
	for i := 0; i < src.sheetCount(); i++ {
		summary, err := src.summarize(i)
		if err != nil {
			return nil, err
		}
		opts.logger().Debug("summarized sheet", "sheet", summary.Name, "rows", summary.Rows)
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
