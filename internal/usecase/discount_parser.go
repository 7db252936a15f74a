package usecase

import (
	"regexp"
	"strings"
)

// priceFunc turns a reference price into the effective price per item
type priceFunc func(reference float64) float64

// mechanismRules are checked in order. Bulk and bundle deals come before the
// percentage rule so "2 voor 5,00 (20% korting)" resolves as a bulk deal.
var mechanismRules = []rule[priceFunc]{
	{
		name:    "bulk",
		pattern: regexp.MustCompile(`(\d+)\s*voor\s*(\d+(?:\.\d+)?)`),
		value: func(m []string) (priceFunc, bool) {
			quantity, total := atoi(m[1]), atof(m[2])
			if quantity < 1 {
				return nil, false
			}
			return func(float64) float64 { return roundCents(total / float64(quantity)) }, true
		},
	},
	{
		name:    "bundle",
		pattern: regexp.MustCompile(`(\d+)\s*\+\s*(\d+)\s*gratis`),
		value: func(m []string) (priceFunc, bool) {
			buy, free := atoi(m[1]), atoi(m[2])
			if buy+free < 1 {
				return nil, false
			}
			return func(ref float64) float64 {
				return roundCents(ref * float64(buy) / float64(buy+free))
			}, true
		},
	},
	{
		name:    "second_half_price",
		pattern: regexp.MustCompile(`2e\s+(?:voor\s+)?halve\s+prijs`),
		value:   constant[priceFunc](func(ref float64) float64 { return roundCents(ref * 0.75) }),
	},
	{
		name:    "second_free",
		pattern: regexp.MustCompile(`2e\s+gratis`),
		value:   constant[priceFunc](func(ref float64) float64 { return roundCents(ref / 2) }),
	},
	{
		name:    "percentage",
		pattern: regexp.MustCompile(`(\d+)\s*%\s*korting`),
		value: func(m []string) (priceFunc, bool) {
			pct := atoi(m[1])
			if pct > 100 {
				return nil, false
			}
			return func(ref float64) float64 {
				return roundCents(ref * (1 - float64(pct)/100))
			}, true
		},
	},
}

// ResolveMechanism converts a promotional tag such as "2 voor 5,00" or
// "1+1 gratis" into the effective price of one item. Unknown tags leave the
// reference price unchanged.
func ResolveMechanism(tag string, reference float64) float64 {
	price, _ := resolveMechanism(tag, reference)
	return price
}

// resolveMechanism also reports the name of the rule that fired
func resolveMechanism(tag string, reference float64) (float64, string) {
	if strings.TrimSpace(tag) == "" {
		return reference, ""
	}
	text := strings.ReplaceAll(strings.ToLower(tag), ",", ".")
	fn, name, ok := firstMatch(mechanismRules, text)
	if !ok {
		return reference, ""
	}
	// Only a bulk price stands on its own; every other deal scales the reference.
	if reference <= 0 && name != "bulk" {
		return reference, ""
	}
	return fn(reference), name
}
