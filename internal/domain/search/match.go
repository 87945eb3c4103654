package search

import (
	"strings"
	"unicode"

	"alerts/internal/domain/entity"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that carry no combining mark under NFD and need an explicit fold.
var foldReplacer = strings.NewReplacer(
	"ł", "l",
	"ø", "o",
	"đ", "d",
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"ı", "i",
)

// NormalizeForMatch lowercases text, strips diacritics, turns punctuation into
// spaces and collapses whitespace.
func NormalizeForMatch(text string) string {
	if text == "" {
		return ""
	}

	lowered := foldReplacer.Replace(strings.ToLower(text))

	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, lowered)
	if err != nil {
		stripped = lowered
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}

		return ' '
	}, stripped)

	return strings.Join(strings.Fields(cleaned), " ")
}

// MatchKeyword reports whether the normalized keyword occurs in the normalized text.
// An empty keyword never matches.
func MatchKeyword(text, keyword string) bool {
	needle := NormalizeForMatch(keyword)
	if needle == "" {
		return false
	}

	return strings.Contains(NormalizeForMatch(text), needle)
}

// MatchesAnyKeyword reports whether any keyword matches the listing's title and description.
func MatchesAnyKeyword(listing entity.Listing, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}

	haystack := NormalizeForMatch(listing.Text())
	if haystack == "" {
		return false
	}

	for _, keyword := range keywords {
		needle := NormalizeForMatch(keyword)
		if needle != "" && strings.Contains(haystack, needle) {
			return true
		}
	}

	return false
}
