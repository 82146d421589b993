package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var multiHyphen = regexp.MustCompile(`-{2,}`)

// Slugify converts a title or company name into a URL-safe ASCII slug:
// accents stripped, lowercased, non-alphanumeric runs collapsed to a
// single hyphen. "The Witcher 3: Wild Hunt" becomes "the-witcher-3-wild-hunt".
func Slugify(s string) string {
	// Decompose accented characters and drop the combining marks
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}

	ascii = strings.ToLower(ascii)
	ascii = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return '-'
	}, ascii)

	ascii = multiHyphen.ReplaceAllString(ascii, "-")
	return strings.Trim(ascii, "-")
}
