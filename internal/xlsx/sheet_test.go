package xlsx

import "testing"

func TestParseSheetRows_SharedAndInlineAndPlain(t *testing.T) {
	t.Parallel()

	shared := []string{"Criado Por", "Ana"}
	doc := `<worksheet><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1"><v>123</v></c></row>
<row r="2"><c r="A2" t="s"><v>1</v></c><c r="B2" t="inlineStr"><is><t>NF &amp; Cia</t></is></c></row>
</sheetData></worksheet>`

	rows, err := ParseSheetRows(doc, shared)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if rows[0]["A"] != "Criado Por" || rows[0]["B"] != "123" {
		t.Fatalf("unexpected row 0: %v", rows[0])
	}
	if rows[1]["A"] != "Ana" || rows[1]["B"] != "NF & Cia" {
		t.Fatalf("unexpected row 1: %v", rows[1])
	}
}

func TestParseSheetRows_OutOfRangeSharedStringIsEmpty(t *testing.T) {
	t.Parallel()

	doc := `<worksheet><sheetData>
<row r="1"><c r="A1" t="s"><v>7</v></c><c r="B1" t="s"><v>-1</v></c><c r="C1" t="s"><v>abc</v></c></row>
</sheetData></worksheet>`

	rows, err := ParseSheetRows(doc, []string{"only"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0]["A"] != "" || rows[0]["B"] != "" || rows[0]["C"] != "" {
		t.Fatalf("out-of-range references must resolve empty: %v", rows[0])
	}
}

func TestParseSheetRows_EmptyTableSharedStringIsEmpty(t *testing.T) {
	t.Parallel()

	doc := `<worksheet><sheetData><row r="1"><c r="A1" t="s"><v>0</v></c></row></sheetData></worksheet>`

	rows, err := ParseSheetRows(doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0]["A"] != "" {
		t.Fatalf("reference against empty table must be empty, got %q", rows[0]["A"])
	}
}

func TestParseSheetRows_EmptyAndSelfClosedCells(t *testing.T) {
	t.Parallel()

	doc := `<worksheet><sheetData>
<row r="1"><c r="A1"/><c r="B1"><v>  x  </v></c></row>
<row r="2"></row>
</sheetData></worksheet>`

	rows, err := ParseSheetRows(doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("empty rows must be kept, got %d rows", len(rows))
	}
	if rows[0]["A"] != "" {
		t.Fatalf("self-closed cell must be empty, got %q", rows[0]["A"])
	}
	if rows[0]["B"] != "x" {
		t.Fatalf("values must be trimmed, got %q", rows[0]["B"])
	}
	if len(rows[1]) != 0 {
		t.Fatalf("row 2 must be an empty mapping, got %v", rows[1])
	}
}

func TestParseSheetRows_NoRows(t *testing.T) {
	t.Parallel()

	rows, err := ParseSheetRows(`<worksheet><sheetData></sheetData></worksheet>`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("want no rows, got %d", len(rows))
	}
}

func TestParseSheetRows_MalformedDocument(t *testing.T) {
	t.Parallel()

	if _, err := ParseSheetRows(`<worksheet><sheetData><row r="1"><c r="A1"`, nil); err == nil {
		t.Fatalf("want error for malformed document")
	}
}

func TestCompareColumns_SheetOrder(t *testing.T) {
	t.Parallel()

	cols := []string{"AB", "B", "AA", "A", "Z"}
	SortColumns(cols)

	want := []string{"A", "B", "Z", "AA", "AB"}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("want %v, got %v", want, cols)
		}
	}
}
