package usecase

import (
	"math"
	"sort"

	"github.com/bespaarwijzer/backend/internal/domain"
)

// highlightLimit caps the biggest-discount and comparison highlight lists
const highlightLimit = 10

// DiscountPercentage returns the whole-percent discount of offer against
// normal. The boolean is false when there is no positive discount.
func DiscountPercentage(offer, normal *float64) (int, bool) {
	if offer == nil || normal == nil {
		return 0, false
	}
	o, n := *offer, *normal
	if o <= 0 || n <= o {
		return 0, false
	}
	// Exact .5 percentages round away from zero, not to even.
	pct := int(math.Round((1 - o/n) * 100))
	return pct, pct > 0
}

// BuildInsights summarizes the records of one batch together with the
// comparisons found for it.
func BuildInsights(records []domain.ProductRecord, comparisons []domain.ComparisonGroup) domain.Insights {
	insights := domain.Insights{
		TotalProducts:             len(records),
		ByRetailer:                make(map[string]int),
		AverageDiscountByRetailer: make(map[string]float64),
		BiggestDiscounts:          []domain.DiscountHighlight{},
		PriceComparisons:          []domain.ComparisonHighlight{},
	}

	discounts := make(map[string][]int)
	for _, p := range records {
		insights.ByRetailer[p.Retailer]++
		if p.HasOfferPrice() {
			insights.WithPrices++
		}
		if p.DiscountText != "" {
			insights.WithDiscounts++
		}

		pct, ok := DiscountPercentage(p.OfferPrice, p.NormalPrice)
		if !ok {
			continue
		}
		discounts[p.Retailer] = append(discounts[p.Retailer], pct)
		insights.BiggestDiscounts = append(insights.BiggestDiscounts, domain.DiscountHighlight{
			Name:               p.Name,
			Retailer:           p.Retailer,
			OfferPrice:         *p.OfferPrice,
			NormalPrice:        *p.NormalPrice,
			DiscountPercentage: pct,
			ImageURL:           p.ImageURL,
		})
	}

	for retailer, pcts := range discounts {
		sum := 0
		for _, pct := range pcts {
			sum += pct
		}
		insights.AverageDiscountByRetailer[retailer] = roundTo(float64(sum)/float64(len(pcts)), 1)
	}

	sort.SliceStable(insights.BiggestDiscounts, func(i, j int) bool {
		return insights.BiggestDiscounts[i].DiscountPercentage > insights.BiggestDiscounts[j].DiscountPercentage
	})
	if len(insights.BiggestDiscounts) > highlightLimit {
		insights.BiggestDiscounts = insights.BiggestDiscounts[:highlightLimit]
	}

	for i, c := range comparisons {
		if i == highlightLimit {
			break
		}
		insights.PriceComparisons = append(insights.PriceComparisons, highlightComparison(c))
	}

	return insights
}

// highlightComparison flattens a group, borrowing an image from another
// retailer when the cheapest record has none.
func highlightComparison(c domain.ComparisonGroup) domain.ComparisonHighlight {
	image := c.BestProduct.ImageURL
	if image == "" {
		for _, o := range c.OtherProducts {
			if o.ImageURL != "" {
				image = o.ImageURL
				break
			}
		}
	}

	var bestPrice float64
	if c.BestProduct.OfferPrice != nil {
		bestPrice = *c.BestProduct.OfferPrice
	}

	return domain.ComparisonHighlight{
		Name:                c.BestProduct.Name,
		BestRetailer:        c.BestProduct.Retailer,
		BestPrice:           bestPrice,
		BestComparisonPrice: c.BestComparisonPrice,
		ComparisonUnit:      c.ComparisonUnit,
		BestUnitCount:       c.BestUnitCount,
		OtherPrices:         c.OtherProducts,
		SavingsPerUnit:      c.SavingsPerUnit,
		SavingsPct:          c.SavingsPct,
		ImageURL:            image,
	}
}
