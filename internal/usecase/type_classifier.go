package usecase

import (
	"regexp"

	"github.com/bespaarwijzer/backend/internal/domain"
)

// Product type tags
const (
	TagMoist         = "vochtig"
	TagZero          = "zero"
	TagLight         = "light"
	TagRolls         = "rollen"
	TagPieces        = "stuks"
	TagCans          = "blikjes"
	TagCanned        = "blik"
	TagBottle        = "fles"
	TagMultipackFles = "multipack_fles"
	TagCustard       = "vla"
	TagCream         = "room"
	TagButter        = "boter"
	TagYoghurt       = "yoghurt"
	TagQuark         = "kwark"
	TagMilk          = "melk"
	TagButtermilk    = "karnemelk"
	TagCarton        = "pak"
	TagFrankfurter   = "knakworst"
	TagSmokedSausage = "rookworst"
)

// flavorTags are matched as plain substrings, each becoming its own tag
var flavorTags = []string{
	"original", "regular", "classic", "orange", "lemon", "lime", "cherry",
	"green", "sparkling", "still", "naturel", "bosvruchten", "framboos",
	"aardbei", "mango", "perzik", "citroen", "sinaasappel",
}

var (
	explicitCanPattern = `blik|\bcans?\b`
	multiplierPattern  = regexp.MustCompile(`\d+\s*x`)
	buttermilkPattern  = regexp.MustCompile(`karnemelk`)
	roomButterPattern  = regexp.MustCompile(`roomboter`)
)

// typeRuleGroups is the classifier vocabulary. Groups are independent and may
// each add one tag; inside a group the first matching rule wins, which is how
// explicit container keywords take precedence over size inference.
var typeRuleGroups = buildTypeRuleGroups()

func buildTypeRuleGroups() [][]rule[string] {
	groups := [][]rule[string]{
		{tagRule(TagMoist, `vochtig|\bnat\b|\bwet\b`)},
		{tagRule(TagZero, `zero|sugar free|suikervrij`)},
		{tagRule(TagLight, `light|diet`)},
	}

	for _, flavor := range flavorTags {
		groups = append(groups, []rule[string]{tagRule(flavor, regexp.QuoteMeta(flavor))})
	}

	groups = append(groups,
		[]rule[string]{tagRule(TagRolls, `rollen|\brol\b`)},
		[]rule[string]{tagRule(TagPieces, `stuks|\bstuk\b`)},

		// Drink containers
		[]rule[string]{
			tagRule(TagCans, explicitCanPattern),
			tagRule(TagCans, `\d+\s*x\s*(?:0?[.,]33\s*l|330\s*ml|33\s*cl)`),
			tagRule(TagCans, `\d+\s*x\s*(?:0?[.,]25\s*l|250\s*ml|25\s*cl)`),
		},
		[]rule[string]{tagRule(TagCanned, explicitCanPattern)},
		[]rule[string]{
			tagRule(TagBottle, `fles|bottle`),
			{
				name:    TagBottle,
				pattern: regexp.MustCompile(`(?:^|[^\d.,])(?:1[.,]5|1|2)\s*l(?:tr|iter)?\b`),
				unless:  multiplierPattern,
				value:   constant(TagBottle),
			},
		},
		[]rule[string]{tagRule(TagMultipackFles, `\d+\s*x\s*(?:1[.,]5|1|0[.,]5)\s*l`)},

		// Dairy
		[]rule[string]{tagRule(TagCustard, `vla`)},
		[]rule[string]{{name: TagCream, pattern: regexp.MustCompile(`room`), unless: roomButterPattern, value: constant(TagCream)}},
		[]rule[string]{tagRule(TagButter, `boter`)},
		[]rule[string]{tagRule(TagYoghurt, `yoghurt`)},
		[]rule[string]{tagRule(TagQuark, `kwark`)},
		[]rule[string]{{name: TagMilk, pattern: regexp.MustCompile(`melk`), unless: buttermilkPattern, value: constant(TagMilk)}},
		[]rule[string]{tagRule(TagButtermilk, `karnemelk`)},

		// Packaging and meat
		[]rule[string]{tagRule(TagCarton, `pak|karton`)},
		[]rule[string]{tagRule(TagFrankfurter, `knaks|knakworst`)},
		[]rule[string]{tagRule(TagSmokedSausage, `rookworst`)},
	)
	return groups
}

// ExtractProductType derives the type tags used to tell apart products that
// share a brand but are not interchangeable, e.g. wet wipes and toilet rolls,
// cans and bottles, or vla and yoghurt.
func ExtractProductType(name, pkg string) domain.TagSet {
	text := productText(name, pkg)
	tags := make(domain.TagSet)
	for _, group := range typeRuleGroups {
		if tag, _, ok := firstMatch(group, text); ok {
			tags.Add(tag)
		}
	}
	return tags
}
