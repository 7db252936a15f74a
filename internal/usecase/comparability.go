package usecase

import "github.com/bespaarwijzer/backend/internal/domain"

// drinkContainers must agree exactly between two comparable drinks
var drinkContainers = domain.NewTagSet(TagCans, TagBottle, TagMultipackFles)

// sugarFreeTags must agree exactly when one side has no other tags
var sugarFreeTags = domain.NewTagSet(TagZero, TagLight)

// conflictingTags lists tag pairs that can never be compared, in either direction
var conflictingTags = [][2]string{
	{TagMoist, TagRolls},
	{TagZero, "regular"}, {TagZero, "original"},
	{TagLight, "regular"}, {TagLight, "original"},
	{TagCustard, TagCream}, {TagCustard, TagYoghurt}, {TagCream, TagYoghurt},
	{TagCustard, TagQuark}, {TagCustard, TagButter}, {TagCustard, TagMilk},
	{TagQuark, TagYoghurt}, {TagQuark, TagButter}, {TagQuark, TagMilk}, {TagQuark, TagCream},
	{TagButter, TagYoghurt}, {TagButter, TagMilk}, {TagButter, TagCream},
	{TagMilk, TagButtermilk},
	{TagCanned, TagCarton},
	{TagFrankfurter, TagSmokedSausage},
	{TagCans, TagBottle}, {TagCans, TagMultipackFles},
	{TagBottle, TagMultipackFles},
}

// presenceMustMatch lists tags that, when only one side is tagged at all,
// must be present on both sides or on neither.
var presenceMustMatch = []string{TagMoist, TagCanned, TagCarton}

// AreSameType reports whether two products with the given type tags can be
// fairly compared. The check is symmetric.
func AreSameType(t1, t2 domain.TagSet) bool {
	c1 := t1.Intersect(drinkContainers)
	c2 := t2.Intersect(drinkContainers)
	if len(c1) > 0 || len(c2) > 0 {
		if c1.Has(TagMultipackFles) != c2.Has(TagMultipackFles) {
			return false
		}
		if c1.Has(TagCans) != c2.Has(TagCans) {
			return false
		}
		if !c1.Equal(c2) {
			return false
		}
	}

	if len(t1) > 0 && len(t2) > 0 {
		if len(t1.Intersect(t2)) == 0 {
			return false
		}
		return !hasConflict(t1, t2)
	}

	for _, tag := range presenceMustMatch {
		if t1.Has(tag) != t2.Has(tag) {
			return false
		}
	}
	return t1.Intersect(sugarFreeTags).Equal(t2.Intersect(sugarFreeTags))
}

// RecordsAreSameType applies AreSameType to two annotated records
func RecordsAreSameType(p1, p2 *domain.ProductRecord) bool {
	return AreSameType(tagsOf(p1), tagsOf(p2))
}

func hasConflict(t1, t2 domain.TagSet) bool {
	for _, pair := range conflictingTags {
		a, b := pair[0], pair[1]
		if (t1.Has(a) && t2.Has(b)) || (t1.Has(b) && t2.Has(a)) {
			return true
		}
	}
	return false
}

// tagsOf returns the annotated tags, classifying on the fly for raw records
func tagsOf(p *domain.ProductRecord) domain.TagSet {
	if p.TypeTags != nil {
		return p.TypeTags
	}
	return ExtractProductType(p.Name, p.PackageDescription)
}
