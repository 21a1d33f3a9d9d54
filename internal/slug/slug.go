// Package slug turns file names and titles into URL segments and readable titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make converts s to a URL-safe slug.
//
// Accents are folded to their base letters, letters and digits are kept (lower
// cased), and every other run of characters collapses into a single hyphen.
// Non-Latin letters are kept as-is so CJK titles still produce a usable slug.
//
//	Make("Hello, World!")  // "hello-world"
//	Make("Crème Brûlée")   // "creme-brulee"
func Make(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// Title derives a human readable title from a file base name.
//
//	Title("getting-started_guide") // "Getting Started Guide"
func Title(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	return cases.Title(language.English).String(name)
}
