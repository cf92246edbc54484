package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonKeyChars = regexp.MustCompile(`[^a-z0-9]+`)
var multiUnderscore = regexp.MustCompile(`_+`)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining marks ("Categoría" -> "Categoria").
// Input that fails to transform is returned unchanged.
func StripDiacritics(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// FieldKey turns a sheet header cell into a stable field key:
// lower-cased, accents stripped, runs of non-alphanumerics collapsed to "_".
// "Nombre y Apellido" -> "nombre_y_apellido".
func FieldKey(header string) string {
	s := StripDiacritics(strings.ToLower(strings.TrimSpace(header)))
	s = nonKeyChars.ReplaceAllString(s, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
