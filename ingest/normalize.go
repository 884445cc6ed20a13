package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and removes combining marks, so "Pérez"
// becomes "Perez" and "Hülkenberg" becomes "Hulkenberg".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName reduces a driver name to its canonical comparison form:
// diacritics stripped, case folded, whitespace trimmed and collapsed.
// Upstream result feeds disagree with our driver records on accenting and
// casing, so every name comparison at the ingestion boundary goes through
// this function.
func NormalizeName(name string) string {
	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the raw
		// string rather than dropping the driver.
		stripped = name
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
