package sheetconv

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVExtension is appended to CSV paths that lack it.
const CSVExtension = ".csv"

// WriteCSV writes table to path and returns the path actually written. An
// empty path becomes a timestamp name, and the .csv extension is appended
// when missing. Existing files are overwritten.
func WriteCSV(table *models.Table, path string, opts Options) (string, error) {
	path = resolveCSVPath(path, opts)
	opts.logger().Debug("writing csv", "path", path, "rows", table.Len())

	f, err := os.Create(path)
	if err != nil {
		return path, err
	}
	if err := EncodeCSV(f, table, opts); err != nil {
		f.Close()
		return path, err
	}
	return path, f.Close()
}

// EncodeCSV writes table as comma separated lines. Every line ends with a
// newline. Fields are not quoted.
func EncodeCSV(w io.Writer, table *models.Table, opts Options) error {
	if table == nil {
		table = &models.Table{}
	}
	bw := bufio.NewWriter(w)
	if opts.ShouldIncludeHeader() {
		writeLine(bw, table.Columns)
	}
	fields := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		fields = fields[:0]
		for _, v := range row {
			fields = append(fields, v.String())
		}
		writeLine(bw, fields)
	}
	return bw.Flush()
}

// writeLine ignores write errors; bufio.Writer keeps the first one and
// Flush reports it.
func writeLine(bw *bufio.Writer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteString(field)
	}
	bw.WriteByte('\n')
}

// ReadCSV reads the file at path into a table named after the file.
func ReadCSV(path string, opts Options) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := DecodeCSV(f, opts)
	if err != nil {
		return nil, err
	}
	table.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return table, nil
}

// DecodeCSV reads delimited lines from r. Header and data lines are split
// on the configured separators without any quote handling, and every
// field becomes a text value. A byte order mark selects UTF-8 or UTF-16;
// without one the input is read as UTF-8.
func DecodeCSV(r io.Reader, opts Options) (*models.Table, error) {
	seps := opts.separators()
	br := bufio.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	table := models.NewTable("")

	first := true
	for {
		line, err := readLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		fields := splitLine(line, seps)
		if first && opts.ShouldIncludeHeader() {
			first = false
			for _, name := range fields {
				table.AddColumn(name)
			}
			continue
		}
		first = false

		cells := make([]models.Value, len(fields))
		for i, field := range fields {
			cells[i] = models.Text(field)
		}
		for len(table.Columns) < len(cells) {
			table.AddColumn("")
		}
		if err := table.AppendRow(cells...); err != nil {
			return nil, err
		}
	}

	opts.logger().Debug("decoded csv", "columns", len(table.Columns), "rows", table.Len())
	return table, nil
}

// readLine returns the next line without its terminator. A final line
// without a newline is still returned; io.EOF is returned only when no
// bytes remain.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if line == "" && err != nil {
		return "", io.EOF
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// splitLine splits on every occurrence of any separator, keeping empty
// fields.
func splitLine(line string, seps []rune) []string {
	if len(seps) == 1 {
		return strings.Split(line, string(seps[0]))
	}
	var fields []string
	start := 0
	for i, r := range line {
		for _, sep := range seps {
			if r == sep {
				fields = append(fields, line[start:i])
				start = i + len(string(r))
				break
			}
		}
	}
	return append(fields, line[start:])
}

func resolveCSVPath(path string, opts Options) string {
	if path == "" {
		path = opts.defaultName()
	}
	if !strings.EqualFold(filepath.Ext(path), CSVExtension) {
		path += CSVExtension
	}
	return path
}
