package render

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	germanFold = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")
	nonSlugRe  = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify lowercases text, spells out German umlauts, strips remaining
// diacritics and joins alphanumeric runs with hyphens.
func Slugify(text string) string {
	s := germanFold.Replace(strings.ToLower(norm.NFC.String(text)))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = nonSlugRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
