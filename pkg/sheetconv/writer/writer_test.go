package writer

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetconv-go/pkg/sheetconv/models"
	"github.com/xuri/excelize/v2"
	"github.com/yamitzky/xlrd-go/xlrd"
)

func fill(t *testing.T, wb Workbook, name string) {
	t.Helper()
	s, err := wb.NewSheet(name)
	require.NoError(t, err)
	require.NoError(t, s.SetCell(0, 0, models.Text("Name")))
	require.NoError(t, s.SetCell(0, 1, models.Text("Age")))
	require.NoError(t, s.SetCell(1, 0, models.Text("Ann")))
	require.NoError(t, s.SetCell(1, 1, models.Number(30.25)))
	require.NoError(t, s.SetCell(2, 0, models.Bool(true)))
	require.NoError(t, s.SetCell(2, 1, models.Empty()))
}

func encode(t *testing.T, wb Workbook) []byte {
	t.Helper()
	var buf bytes.Buffer
	_, err := wb.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, wb.Close())
	return buf.Bytes()
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New(Kind(42))
	assert.Error(t, err)
}

func TestXLSXWorkbook(t *testing.T) {
	wb, err := New(KindXLSX)
	require.NoError(t, err)
	fill(t, wb, "people")
	fill(t, wb, "more")

	f, err := excelize.OpenReader(bytes.NewReader(encode(t, wb)))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"people", "more"}, f.GetSheetList())

	ct, err := f.GetCellType("people", "B2")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeUnset, ct, "numbers carry no type attribute")
	v, err := f.GetCellValue("people", "B2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "30.25", v)

	ct, err = f.GetCellType("people", "A2")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeSharedString, ct)

	ct, err = f.GetCellType("people", "A3")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeBool, ct)

	rows, err := f.GetRows("people")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[2], 1, "empty values leave no cell")
}

func TestXLSXWorkbookErrors(t *testing.T) {
	wb, err := New(KindXLSX)
	require.NoError(t, err)
	defer wb.Close()

	s, err := wb.NewSheet("data")
	require.NoError(t, err)
	_, err = wb.NewSheet("Data")
	assert.ErrorIs(t, err, ErrDuplicateSheet)

	err = s.SetCell(0, 0, models.Text(strings.Repeat("x", MaxTextLen+1)))
	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.NoError(t, s.SetCell(0, 0, models.Text(strings.Repeat("x", MaxTextLen))))
}

func TestXLSXWorkbookWithoutSheets(t *testing.T) {
	wb, err := New(KindXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(encode(t, wb)))
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 1)
}

func TestXLSWorkbook(t *testing.T) {
	wb, err := New(KindXLS)
	require.NoError(t, err)
	fill(t, wb, "people")

	book, err := xlrd.OpenWorkbook("", &xlrd.OpenWorkbookOptions{
		Logfile:      io.Discard,
		FileContents: encode(t, wb),
		RaggedRows:   true,
	})
	require.NoError(t, err)
	defer book.ReleaseResources()

	require.Equal(t, []string{"people"}, book.SheetNames())
	s, err := book.SheetByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, "Ann", s.RawCellValue(1, 0))
	assert.Equal(t, 30.25, s.RawCellValue(1, 1))
	assert.Equal(t, xlrd.XL_CELL_BOOLEAN, s.RawCellType(2, 0))
	assert.Equal(t, 1, s.RowLen(2))
}

func TestXLSWorkbookDuplicate(t *testing.T) {
	wb, err := New(KindXLS)
	require.NoError(t, err)
	_, err = wb.NewSheet("x")
	require.NoError(t, err)
	_, err = wb.NewSheet("x")
	assert.ErrorIs(t, err, ErrDuplicateSheet)
}
