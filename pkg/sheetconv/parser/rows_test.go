package parser

import (
	"archive/zip"
	"bytes"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildPackage(t *testing.T, parts map[string]string) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range parts {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close package: %v", err)
	}
	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Failed to read package: %v", err)
	}
	return r
}

func TestPresentRows(t *testing.T) {
	pkg := buildPackage(t, map[string]string{
		"_rels/.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="book/main.xml"/>
</Relationships>`,
		"book/main.xml": `<workbook xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets>
<sheet name="first" sheetId="1" r:id="rId1"/>
<sheet name="second" sheetId="2" r:id="rId2"/>
</sheets></workbook>`,
		"book/_rels/main.xml.rels": `<Relationships>
<Relationship Id="rId1" Type="worksheet" Target="sheets/one.xml"/>
<Relationship Id="rId2" Type="worksheet" Target="/book/sheets/two.xml"/>
</Relationships>`,
		"book/sheets/one.xml": `<worksheet><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c></row>
<row r="2"></row>
<row r="3"><c r="B3" s="4"/></row>
<row><c r="A4"><v>1</v></c></row>
<row r="7" ht="30" customHeight="1"/>
</sheetData></worksheet>`,
		"book/sheets/two.xml": `<worksheet><sheetData>
<row r="2"><c r="A2"><v>5</v></c></row>
</sheetData></worksheet>`,
	})

	present, err := PresentRows(pkg, "first")
	if err != nil {
		t.Fatalf("PresentRows failed: %v", err)
	}
	expected := map[int]bool{0: true, 2: true, 3: true}
	if !reflect.DeepEqual(present, expected) {
		t.Errorf("Expected %v, got %v", expected, present)
	}

	present, err = PresentRows(pkg, "second")
	if err != nil {
		t.Fatalf("PresentRows failed: %v", err)
	}
	if !reflect.DeepEqual(present, map[int]bool{1: true}) {
		t.Errorf("Expected row 1 only, got %v", present)
	}

	present, err = PresentRows(pkg, "missing")
	if err != nil || present != nil {
		t.Errorf("Expected nil for unknown sheet, got %v, %v", present, err)
	}
}

func TestPresentRowsMalformedSheet(t *testing.T) {
	pkg := buildPackage(t, map[string]string{
		"xl/workbook.xml":            `<workbook><sheets><sheet name="s" id="rId1"/></sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<Relationships><Relationship Id="rId1" Target="worksheets/sheet1.xml"/></Relationships>`,
		"xl/worksheets/sheet1.xml":   `<worksheet><sheetData><row r="1"><c r="A1">`,
	})

	if _, err := PresentRows(pkg, "s"); err == nil {
		t.Error("Expected an error for a truncated sheet part")
	}
}

func TestPresentRowsExcelizeGapRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "a")
	f.SetCellValue("Sheet1", "C4", "b")

	_, pkg := saveAndOpen(t, f)
	present, err := PresentRows(pkg, "Sheet1")
	if err != nil {
		t.Fatalf("PresentRows failed: %v", err)
	}
	if !reflect.DeepEqual(present, map[int]bool{0: true, 3: true}) {
		t.Errorf("Expected rows 0 and 3, got %v", present)
	}
}
