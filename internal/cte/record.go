package cte

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/nathanbarretosilveira-dev/dash/internal/xlsx"
)

// Sentinels substituted during normalization. Records carrying them are
// still counted in the totals but excluded from time-based buckets.
const (
	NoDate        = "Sem data"
	NoTime        = "00:00:00"
	UnknownAuthor = "Não informado"
)

// Canonical field keys produced from the J1BNFE header row.
const (
	keyDocumentNumber = "n_documento"
	keyInvoiceNumber  = "numero_de_nota_fiscal_eletronica"
	keyAuthor         = "criado_por"
	keyCreationDate   = "data_de_criacao"
	keyProcessingHour = "hora_processamento"
	keyReversed       = "estornado"
)

// IssuanceRecord is one normalized CT-e issuance event.
type IssuanceRecord struct {
	Date     string // DD/MM/YY or NoDate
	Hour     string // HH:MM:SS or NoTime
	Author   string
	Reversed bool
}

var (
	stripMarks  = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	nonKeyRunes = regexp.MustCompile(`[^a-z0-9]+`)
	hourPattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
	edgeUnder   = regexp.MustCompile(`^_+|_+$`)
	dateLayouts = []string{"02/01/2006", "02/01/06", "2006-01-02"}
)

const displayDate = "02/01/06"

// CanonicalKey turns a header title into a canonical field key:
// "Nº Documento" -> "n_documento", "Criado Por" -> "criado_por".
func CanonicalKey(title string) string {
	s, _, err := transform.String(stripMarks, title)
	if err != nil {
		s = title
	}
	s = strings.ToLower(s)
	s = nonKeyRunes.ReplaceAllString(s, "_")
	return edgeUnder.ReplaceAllString(s, "")
}

// NormalizeRecords converts the parsed row sequence into issuance records.
// The first row is the header; its titles define the canonical keys for
// every later row. Rows whose identifying fields (document number, invoice
// number, author) are all empty are dropped as blank filler rows.
func NormalizeRecords(rows []xlsx.Row) []IssuanceRecord {
	if len(rows) == 0 {
		return nil
	}

	header := rows[0]
	cols := make([]string, 0, len(header))
	for col := range header {
		cols = append(cols, col)
	}
	xlsx.SortColumns(cols)

	keys := make([]string, len(cols))
	for i, col := range cols {
		keys[i] = CanonicalKey(header[col])
	}

	records := make([]IssuanceRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		fields := make(map[string]string, len(cols))
		for i, col := range cols {
			fields[keys[i]] = row[col]
		}

		if fields[keyDocumentNumber] == "" &&
			fields[keyInvoiceNumber] == "" &&
			fields[keyAuthor] == "" {
			continue
		}

		author := fields[keyAuthor]
		if author == "" {
			author = UnknownAuthor
		}

		records = append(records, IssuanceRecord{
			Date:     normalizeDate(fields[keyCreationDate]),
			Hour:     normalizeHour(fields[keyProcessingHour]),
			Author:   author,
			Reversed: strings.ToUpper(strings.TrimSpace(fields[keyReversed])) == "X",
		})
	}

	return records
}

// normalizeDate reformats a source date to DD/MM/YY. The export mixes
// DD/MM/YYYY, DD/MM/YY and ISO date-time strings; anything else becomes the
// NoDate sentinel.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NoDate
	}

	// ISO strings may carry a time part; only the date prefix matters.
	if i := strings.IndexAny(raw, " T"); i > 0 && strings.Contains(raw[:i], "-") {
		raw = raw[:i]
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(displayDate)
		}
	}
	return NoDate
}

// normalizeHour keeps only exact HH:MM:SS values; everything else collapses
// to the NoTime sentinel and stays out of shift and timeline buckets.
func normalizeHour(raw string) string {
	raw = strings.TrimSpace(raw)
	if hourPattern.MatchString(raw) {
		return raw
	}
	return NoTime
}
