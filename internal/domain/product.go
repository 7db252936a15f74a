package domain

import (
	"encoding/json"
	"sort"
)

// ComparisonUnit is the unit a comparison price is expressed in
type ComparisonUnit string

const (
	UnitItem  ComparisonUnit = "item"
	UnitLiter ComparisonUnit = "liter"
)

// ProductRecord is one promotional offer from one retailer.
// The first block of fields is supplied by the retailer mappers, the second
// block is filled in by annotation before matching.
type ProductRecord struct {
	Retailer           string   `json:"retailer" yaml:"retailer"`
	ID                 string   `json:"id" yaml:"id"`
	Name               string   `json:"name" yaml:"name"`
	Brand              string   `json:"brand,omitempty" yaml:"brand"`
	PackageDescription string   `json:"package_description,omitempty" yaml:"package_description"`
	OfferPrice         *float64 `json:"offer_price,omitempty" yaml:"offer_price"`
	NormalPrice        *float64 `json:"normal_price,omitempty" yaml:"normal_price"`
	DiscountText       string   `json:"discount_text,omitempty" yaml:"discount_text"`
	Category           string   `json:"category,omitempty" yaml:"category"`
	ImageURL           string   `json:"image_url,omitempty" yaml:"image_url"`
	SourceURL          string   `json:"source_url,omitempty" yaml:"source_url"`

	UnitCount       int            `json:"unit_count,omitempty" yaml:"-"`
	VolumeLiters    *float64       `json:"volume_liters,omitempty" yaml:"-"`
	ComparisonPrice float64        `json:"comparison_price,omitempty" yaml:"-"`
	ComparisonUnit  ComparisonUnit `json:"comparison_unit,omitempty" yaml:"-"`
	TypeTags        TagSet         `json:"type_tags,omitempty" yaml:"-"`
}

// HasOfferPrice reports whether the record carries an offer price
func (p *ProductRecord) HasOfferPrice() bool {
	return p.OfferPrice != nil
}

// Volume returns the annotated volume in liters, or 0 when the record is not a liquid
func (p *ProductRecord) Volume() float64 {
	if p.VolumeLiters == nil {
		return 0
	}
	return *p.VolumeLiters
}

// OtherPrice describes a sibling record inside a ComparisonGroup
type OtherPrice struct {
	Retailer        string   `json:"retailer"`
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	ComparisonPrice float64  `json:"comparison_price"`
	VolumeLiters    *float64 `json:"volume_liters,omitempty"`
	UnitCount       int      `json:"unit_count"`
	ImageURL        string   `json:"image_url,omitempty"`
}

// ComparisonGroup is one accepted cross-retailer comparison.
// BestProduct always has the lowest comparison price of the group.
type ComparisonGroup struct {
	BestProduct         ProductRecord  `json:"best_product"`
	BestComparisonPrice float64        `json:"best_comparison_price"`
	ComparisonUnit      ComparisonUnit `json:"comparison_unit"`
	BestVolumeLiters    *float64       `json:"best_volume_liters,omitempty"`
	BestUnitCount       int            `json:"best_unit_count"`
	OtherProducts       []OtherPrice   `json:"other_products"`
	SavingsPerUnit      float64        `json:"savings_per_unit"`
	SavingsPct          int            `json:"savings_pct"`
	RetailerCount       int            `json:"retailer_count"`
}

// ProductIDs returns the ids of every record referenced by the group
func (g *ComparisonGroup) ProductIDs() []string {
	ids := make([]string, 0, len(g.OtherProducts)+1)
	ids = append(ids, g.BestProduct.ID)
	for _, o := range g.OtherProducts {
		ids = append(ids, o.ID)
	}
	return ids
}

// MatchResult is the output of one matching pass
type MatchResult struct {
	Groups []ComparisonGroup `json:"comparisons"`
	// Consumed holds every product id used by an accepted group during the pass
	Consumed map[string]struct{} `json:"-"`
}

// TagSet is a set of product type tags
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from the given tags
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether the tag is present
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Add inserts a tag
func (s TagSet) Add(tag string) {
	s[tag] = struct{}{}
}

// Intersect returns the tags present in both sets
func (s TagSet) Intersect(other TagSet) TagSet {
	out := make(TagSet)
	for t := range s {
		if other.Has(t) {
			out.Add(t)
		}
	}
	return out
}

// Equal reports whether both sets hold the same tags
func (s TagSet) Equal(other TagSet) bool {
	if len(s) != len(other) {
		return false
	}
	for t := range s {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Sorted returns the tags in lexical order
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted array
func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of tags
func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewTagSet(tags...)
	return nil
}
