package content

import (
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var latinizer = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

// latinize lower-cases s and spells out umlauts and ß, the way German
// dictionaries alphabetize.
func latinize(s string) string {
	return latinizer.Replace(strings.ToLower(s))
}

// foldDiacritics lower-cases s and strips combining marks, so "Übung" matches
// a search for "ubung".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// newCollator returns a German collator. Collators are not safe for
// concurrent use; callers create one per sort.
func newCollator() *collate.Collator {
	return collate.New(language.German, collate.Loose)
}
