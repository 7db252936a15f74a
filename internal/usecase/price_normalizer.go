package usecase

import (
	"github.com/bespaarwijzer/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// roundCents rounds to two decimals, half away from zero
func roundCents(v float64) float64 {
	return roundTo(v, 2)
}

// roundTo rounds the shortest decimal form of v, so 2.675 becomes 2.68 even
// though its binary value lies just below the midpoint.
func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// UnitPrice returns the offer price per unit, or the offer itself when the
// count cannot be divided by.
func UnitPrice(offer float64, unitCount int) float64 {
	if unitCount > 0 {
		return roundCents(offer / float64(unitCount))
	}
	return offer
}

// PricePerLiter returns the offer price per liter.
// The boolean is false when there is no positive volume to divide by.
func PricePerLiter(offer, volume float64) (float64, bool) {
	if volume > 0 {
		return roundCents(offer / volume), true
	}
	return 0, false
}

// ComparisonPrice returns the price used to rank a record against other
// retailers: per liter for drinks, per item for everything else.
// Records without an offer price yield zero.
func ComparisonPrice(p *domain.ProductRecord) (float64, domain.ComparisonUnit) {
	if p.OfferPrice == nil {
		return 0, domain.UnitItem
	}
	offer := *p.OfferPrice

	if perLiter, ok := PricePerLiter(offer, p.Volume()); ok {
		return perLiter, domain.UnitLiter
	}

	count := p.UnitCount
	if count < 1 {
		count = ExtractUnitCount(productText(p.Name, p.PackageDescription))
	}
	return UnitPrice(offer, count), domain.UnitItem
}

// Annotate fills the unit count, volume, type tags and comparison price of a
// record in place.
func Annotate(p *domain.ProductRecord) {
	text := productText(p.Name, p.PackageDescription)

	p.UnitCount = ExtractUnitCount(text)
	p.VolumeLiters = nil
	if v, ok := ExtractVolumeLiters(text); ok {
		p.VolumeLiters = &v
	}
	p.TypeTags = ExtractProductType(p.Name, p.PackageDescription)
	p.ComparisonPrice, p.ComparisonUnit = ComparisonPrice(p)
}

// AnnotateAll annotates every record of the slice in place
func AnnotateAll(records []domain.ProductRecord) {
	for i := range records {
		Annotate(&records[i])
	}
}
