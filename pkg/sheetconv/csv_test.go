package sheetconv

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
	"golang.org/x/text/encoding/unicode"
)

var fixedClock = func() time.Time {
	return time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local)
}

func peopleTable() *models.Table {
	t := models.NewTable("people", "Name", "Age")
	_ = t.AppendRow(models.Text("Ann"), models.Text("30"))
	_ = t.AppendRow(models.Text("Bo"), models.Text("41"))
	return t
}

func TestWriteCSVExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	written, err := WriteCSV(peopleTable(), path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name,Age\nAnn,30\nBo,41\n", string(data))
}

func TestWriteCSVTypedValues(t *testing.T) {
	table := models.NewTable("", "n", "b", "e", "s")
	require.NoError(t, table.AppendRow(models.Number(1.5), models.Bool(true), models.Empty(), models.Text("x")))
	require.NoError(t, table.AppendRow(models.Number(-20), models.Bool(false)))

	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, table, DefaultOptions().WithHeader(false)))
	assert.Equal(t, "1.5,true,,x\n-20,false,,\n", buf.String())
}

func TestWriteCSVPaths(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name, path, expected string
	}{
		{"appends extension", filepath.Join(dir, "out"), filepath.Join(dir, "out.csv")},
		{"appends after another extension", filepath.Join(dir, "out.txt"), filepath.Join(dir, "out.txt.csv")},
		{"keeps upper case extension", filepath.Join(dir, "OUT.CSV"), filepath.Join(dir, "OUT.CSV")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			written, err := WriteCSV(peopleTable(), tt.path, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, written)
			assert.FileExists(t, tt.expected)
		})
	}
}

func TestWriteCSVDefaultName(t *testing.T) {
	t.Chdir(t.TempDir())
	opts := DefaultOptions()
	opts.Clock = fixedClock

	written, err := WriteCSV(peopleTable(), "", opts)
	require.NoError(t, err)
	assert.Equal(t, "20240305_140709.csv", written)
	assert.FileExists(t, written)
}

func TestWriteCSVOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("old\n", 100)), 0o644))

	_, err := WriteCSV(peopleTable(), path, DefaultOptions().WithHeader(false))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ann,30\nBo,41\n", string(data))
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Age\nAnn,30\nBo,41\n"), 0o644))

	table, err := ReadCSV(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "people", table.Name)
	assert.Equal(t, []string{"Name", "Age"}, table.Columns)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, models.Text("Ann"), table.Cell(0, 0))
	assert.Equal(t, models.Text("41"), table.Cell(1, 1), "fields stay text")
}

func TestDecodeCSVSeparator(t *testing.T) {
	opts := DefaultOptions()
	opts.Separator = ';'

	table, err := DecodeCSV(strings.NewReader("a;b\n1;2,5\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Columns)
	assert.Equal(t, []models.Value{models.Text("1"), models.Text("2,5")}, table.Rows[0])
}

func TestDecodeCSVSeparatorSet(t *testing.T) {
	opts := DefaultOptions()
	opts.Separators = []rune{';', '|'}

	table, err := DecodeCSV(strings.NewReader("a;b|c\n1|2;;\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "Column4"}, table.Columns)
	assert.Equal(t, []models.Value{models.Text("1"), models.Text("2"), models.Text(""), models.Text("")}, table.Rows[0])
}

func TestDecodeCSVWithoutHeader(t *testing.T) {
	table, err := DecodeCSV(strings.NewReader("x\ny,z\n"), DefaultOptions().WithHeader(false))
	require.NoError(t, err)

	assert.Equal(t, []string{"Column1", "Column2"}, table.Columns)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, models.Text("x"), table.Cell(0, 0))
	assert.True(t, table.Cell(0, 1).IsEmpty(), "short rows are padded")
	assert.Equal(t, models.Text("z"), table.Cell(1, 1))
}

func TestDecodeCSVLineEndings(t *testing.T) {
	table, err := DecodeCSV(strings.NewReader("a,b\r\n1,2\r\n3,4"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Columns)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, models.Text("2"), table.Cell(0, 1))
	assert.Equal(t, models.Text("4"), table.Cell(1, 1))
}

func TestDecodeCSVEmptyHeaderName(t *testing.T) {
	table, err := DecodeCSV(strings.NewReader("a,,c\n"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "Column2", "c"}, table.Columns)
	assert.Equal(t, 0, table.Len())
}

func TestDecodeCSVByteOrderMark(t *testing.T) {
	t.Run("utf-8", func(t *testing.T) {
		table, err := DecodeCSV(strings.NewReader("\ufeffName,Age\nAnn,30\n"), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"Name", "Age"}, table.Columns)
	})

	t.Run("utf-16", func(t *testing.T) {
		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		data, err := enc.String("名前,年齢\nアン,30\n")
		require.NoError(t, err)

		table, err := DecodeCSV(strings.NewReader(data), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"名前", "年齢"}, table.Columns)
		assert.Equal(t, models.Text("アン"), table.Cell(0, 0))
	})
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions())
	require.Error(t, err)

	var pathErr *fs.PathError
	assert.True(t, errors.As(err, &pathErr))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestCSVRoundTrip(t *testing.T) {
	table := models.NewTable("mixed", "id", "price", "active", "note")
	require.NoError(t, table.AppendRow(models.Number(1), models.Number(9.99), models.Bool(true), models.Text("first")))
	require.NoError(t, table.AppendRow(models.Number(2), models.Number(0.5), models.Bool(false), models.Empty()))

	for _, header := range []bool{true, false} {
		opts := DefaultOptions().WithHeader(header)
		path, err := WriteCSV(table, filepath.Join(t.TempDir(), "mixed"), opts)
		require.NoError(t, err)

		back, err := ReadCSV(path, opts)
		require.NoError(t, err)
		if header {
			assert.Equal(t, table.Columns, back.Columns)
		}
		require.Equal(t, table.Len(), back.Len())
		for r, row := range table.Rows {
			for c, v := range row {
				assert.Equal(t, v.String(), back.Cell(r, c).String(), "row %d col %d", r, c)
			}
		}
	}
}
