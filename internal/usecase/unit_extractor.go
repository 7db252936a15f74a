package usecase

import (
	"regexp"
	"strings"
)

// unitCountRules are evaluated in order, the first positive count wins
var unitCountRules = []rule[int]{
	{
		name:    "pack",
		pattern: regexp.MustCompile(`(\d+)\s*-?\s*pack`),
		value:   positiveCount,
	},
	{
		name:    "stuks",
		pattern: regexp.MustCompile(`(\d+)\s*stuks?`),
		value:   positiveCount,
	},
	{
		name:    "multiplier",
		pattern: regexp.MustCompile(`(\d+)\s*x\s*\d+`),
		value:   positiveCount,
	},
	{
		name:    "containers",
		pattern: regexp.MustCompile(`(\d+)\s*(?:pakken|blikjes?|flesjes?|zakjes?|potjes?|dozen|rollen)\b`),
		value:   positiveCount,
	},
}

// volumeRules run on text whose decimal commas were already turned into periods
var volumeRules = []rule[float64]{
	{
		name:    "multi_liter",
		pattern: regexp.MustCompile(`(\d+)\s*x\s*(\d+(?:\.\d+)?)\s*l(?:tr|iters?)?\b`),
		value: func(m []string) (float64, bool) {
			return positiveVolume(roundCents(float64(atoi(m[1])) * atof(m[2])))
		},
	},
	{
		name:    "multi_ml",
		pattern: regexp.MustCompile(`(\d+)\s*x\s*(\d+)\s*ml\b`),
		value: func(m []string) (float64, bool) {
			return positiveVolume(roundCents(float64(atoi(m[1])*atoi(m[2])) / 1000))
		},
	},
	{
		name:    "liter",
		pattern: regexp.MustCompile(`(\d+(?:\.\d+)?)\s*l(?:tr|iters?)?\b`),
		value: func(m []string) (float64, bool) {
			return positiveVolume(atof(m[1]))
		},
	},
	{
		name:    "ml",
		pattern: regexp.MustCompile(`(\d+)\s*ml\b`),
		value: func(m []string) (float64, bool) {
			return positiveVolume(roundCents(float64(atoi(m[1])) / 1000))
		},
	},
}

func positiveCount(m []string) (int, bool) {
	n := atoi(m[1])
	return n, n >= 1
}

func positiveVolume(v float64) (float64, bool) {
	return v, v > 0
}

// productText joins name and package description into the lowercase text all
// extractors scan.
func productText(name, pkg string) string {
	return strings.ToLower(strings.TrimSpace(name + " " + pkg))
}

// ExtractUnitCount returns the number of units a product text describes.
// Recognizes "8-pack", "12 stuks", "6x330 ml" and "2 pakken" style counts,
// defaulting to 1.
func ExtractUnitCount(text string) int {
	if n, _, ok := firstMatch(unitCountRules, strings.ToLower(text)); ok {
		return n
	}
	return 1
}

// ExtractVolumeLiters returns the total liquid volume in liters.
// The boolean is false when the text carries no volume, which marks the
// product as a non-drink for comparison purposes.
func ExtractVolumeLiters(text string) (float64, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(text), ",", ".")
	v, _, ok := firstMatch(volumeRules, normalized)
	return v, ok
}
