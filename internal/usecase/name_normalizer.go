package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Compiled patterns for product name normalization
var (
	// Trailing pack sizes like "8-pack" or "6 pack"
	packSuffixPattern = regexp.MustCompile(`\s*\d+\s*-?\s*pack\s*$`)

	// Trailing piece counts like "12 stuks" or "1 stuk"
	pieceSuffixPattern = regexp.MustCompile(`\s*\d+\s*stuks?\s*$`)

	nameSpacePattern = regexp.MustCompile(`\s+`)
)

// retailerPrefixes are house-brand prefixes that differ between retailers for
// otherwise identical products. At most one is stripped.
var retailerPrefixes = []string{
	"ah ", "jumbo ", "lidl ", "1 de beste ", "g'woon ",
}

var apostropheReplacer = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// foldDiacritics turns "crème fraîche" into "creme fraiche"
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeProductName prepares a product name for cross-retailer comparison
func NormalizeProductName(name string) string {
	if name == "" {
		return ""
	}

	// Step 1: lowercase, unify apostrophes and strip accents
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = apostropheReplacer.Replace(normalized)
	normalized = foldDiacritics(normalized)
	normalized = nameSpacePattern.ReplaceAllString(normalized, " ")

	// Step 2: drop a retailer prefix
	for _, prefix := range retailerPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			normalized = normalized[len(prefix):]
			break
		}
	}

	// Step 3: drop pack-size suffixes
	normalized = packSuffixPattern.ReplaceAllString(normalized, "")
	normalized = pieceSuffixPattern.ReplaceAllString(normalized, "")

	return strings.TrimSpace(normalized)
}

// NameSimilarity returns the difflib sequence ratio (0..1) between two
// normalized product names.
func NameSimilarity(name1, name2 string) float64 {
	a := splitRunes(NormalizeProductName(name1))
	b := splitRunes(NormalizeProductName(name2))
	return difflib.NewMatcher(a, b).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
