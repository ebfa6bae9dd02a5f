package parser

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path"
	"strconv"
	"strings"
)

const defaultWorkbookPart = "xl/workbook.xml"

// PresentRows scans the worksheet part of a modern workbook and returns the
// 0-based indexes of rows that hold at least one cell element, including
// blank cells that only carry a style. excelize reports such rows as empty.
// Row elements without cells are not listed. The result is nil when the
// sheet part cannot be located.
func PresentRows(r *zip.Reader, sheetName string) (map[int]bool, error) {
	part, err := sheetPart(r, sheetName)
	if err != nil || part == "" {
		return nil, err
	}
	file := findZipFile(r, part)
	if file == nil {
		return nil, nil
	}
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return scanRows(rc)
}

// scanRows collects the rows that contain a c element. Rows without an r
// attribute follow the previous row.
func scanRows(rd io.Reader) (map[int]bool, error) {
	present := make(map[int]bool)
	decoder := xml.NewDecoder(rd)
	row := 0
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return present, nil
		}
		if err != nil {
			return nil, err
		}
		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "row":
			row++
			if n, err := strconv.Atoi(attrValue(se, "r")); err == nil && n > 0 {
				row = n
			}
		case "c":
			if row > 0 {
				present[row-1] = true
			}
			if err := decoder.Skip(); err != nil {
				return nil, err
			}
		}
	}
}

// sheetPart resolves a sheet name to its worksheet part through the package
// and workbook relationships.
func sheetPart(r *zip.Reader, sheetName string) (string, error) {
	workbook := defaultWorkbookPart
	rootRels, err := readZipFile(r, "_rels/.rels")
	if err != nil {
		return "", err
	}
	if target := findRelationship(rootRels, func(_, relType string) bool {
		return strings.HasSuffix(relType, "/officeDocument")
	}); target != "" {
		workbook = resolvePart("", target)
	}

	workbookXML, err := readZipFile(r, workbook)
	if err != nil || workbookXML == nil {
		return "", err
	}
	rID := findSheetRelID(workbookXML, sheetName)
	if rID == "" {
		return "", nil
	}

	dir, base := path.Split(workbook)
	workbookRels, err := readZipFile(r, dir+"_rels/"+base+".rels")
	if err != nil {
		return "", err
	}
	target := findRelationship(workbookRels, func(id, _ string) bool { return id == rID })
	if target == "" {
		return "", nil
	}
	return resolvePart(dir, target), nil
}

// resolvePart turns a relationship target into a part name. Absolute
// targets start at the package root.
func resolvePart(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(dir, target)
}

func findSheetRelID(data []byte, sheetName string) string {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			return ""
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			if attrValue(se, "name") == sheetName {
				return attrValue(se, "id")
			}
		}
	}
}

func findRelationship(data []byte, match func(id, relType string) bool) string {
	if data == nil {
		return ""
	}
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			return ""
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			if match(attrValue(se, "Id"), attrValue(se, "Type")) {
				return attrValue(se, "Target")
			}
		}
	}
}

// attrValue returns the first attribute with the given local name.
func attrValue(se xml.StartElement, local string) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

func findZipFile(r *zip.Reader, name string) *zip.File {
	for _, f := range r.File {
		if strings.EqualFold(strings.ReplaceAll(f.Name, "\\", "/"), name) {
			return f
		}
	}
	return nil
}

// readZipFile returns nil without error when the part does not exist.
func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	f := findZipFile(r, name)
	if f == nil {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
