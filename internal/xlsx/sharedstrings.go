package xlsx

import (
	"encoding/xml"
	"io"
	"strings"
)

// SharedStringsEntry is where the workbook keeps its de-duplicated text
// values inside the container.
const SharedStringsEntry = "xl/sharedStrings.xml"

// ParseSharedStrings decodes the shared-strings entry into an ordered lookup
// table. A rich-text item split across several <r><t> runs is rejoined in
// document order. An empty or unparsable document yields an empty table;
// callers resolve references against it as empty strings, never as errors,
// since many workbooks carry no shared strings at all.
func ParseSharedStrings(doc string) []string {
	dec := xml.NewDecoder(strings.NewReader(doc))

	items := []string{}
	var runs strings.Builder
	inItem := false
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return items
		}
		if err != nil {
			return []string{}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				inItem = true
				runs.Reset()
			case "t":
				inText = inItem
			}
		case xml.CharData:
			if inText {
				runs.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "si":
				if inItem {
					items = append(items, runs.String())
					inItem = false
				}
			}
		}
	}
}
