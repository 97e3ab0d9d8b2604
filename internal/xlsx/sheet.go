package xlsx

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WorksheetEntry is the first worksheet of the workbook, the only one this
// subset of the format reads.
const WorksheetEntry = "xl/worksheets/sheet1.xml"

// Row maps a column label ("A", "B", ... "AA") to the cell's trimmed value.
type Row map[string]string

// cellTypeSharedString marks a cell whose <v> holds a shared-string index.
const cellTypeSharedString = "s"

// ParseSheetRows scans the worksheet document and produces its rows in
// document order. Cell values resolve, in order of precedence, as a
// shared-string reference, an inline rich-text node, or a plain value node;
// anything else is an empty string. A row with no cells still appears as an
// empty mapping — filtering rows is the caller's concern, not the parser's.
func ParseSheetRows(doc string, shared []string) ([]Row, error) {
	dec := xml.NewDecoder(strings.NewReader(doc))

	var rows []Row

	var (
		row     Row
		cellCol string
		cellTyp string
		value   string
		hasVal  bool
		inline  string
		hasInl  bool
		capture *string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("worksheet parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "row":
				row = Row{}
			case "c":
				cellCol, cellTyp = "", ""
				value, hasVal = "", false
				inline, hasInl = "", false
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "r":
						cellCol = columnOf(attr.Value)
					case "t":
						cellTyp = attr.Value
					}
				}
			case "v":
				if row != nil && cellCol != "" {
					hasVal = true
					value = ""
					capture = &value
				}
			case "t":
				if row != nil && cellCol != "" {
					hasInl = true
					capture = &inline
				}
			}
		case xml.CharData:
			if capture != nil {
				*capture += string(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v", "t":
				capture = nil
			case "c":
				if row != nil && cellCol != "" {
					row[cellCol] = strings.TrimSpace(resolveCell(cellTyp, value, hasVal, inline, hasInl, shared))
				}
				cellCol = ""
			case "row":
				if row != nil {
					rows = append(rows, row)
					row = nil
				}
			}
		}
	}
}

// resolveCell applies the per-cell resolution order: shared-string
// reference, then inline text, then plain value.
func resolveCell(typ, value string, hasVal bool, inline string, hasInl bool, shared []string) string {
	if typ == cellTypeSharedString && hasVal {
		idx, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	}
	if hasInl {
		return inline
	}
	if hasVal {
		return value
	}
	return ""
}

// columnOf strips the row number from a cell reference like "AB12".
func columnOf(ref string) string {
	for i := 0; i < len(ref); i++ {
		if ref[i] < 'A' || ref[i] > 'Z' {
			return ref[:i]
		}
	}
	return ref
}

// CompareColumns orders column labels the way the sheet lays them out:
// "Z" comes before "AA", unlike plain string order.
func CompareColumns(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// SortColumns sorts labels in left-to-right sheet order.
func SortColumns(cols []string) {
	sort.Slice(cols, func(i, j int) bool {
		return CompareColumns(cols[i], cols[j]) < 0
	})
}
