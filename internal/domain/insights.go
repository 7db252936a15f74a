package domain

import "time"

// DiscountHighlight is one of the deepest single-retailer discounts
type DiscountHighlight struct {
	Name               string  `json:"name"`
	Retailer           string  `json:"retailer"`
	OfferPrice         float64 `json:"offer_price"`
	NormalPrice        float64 `json:"normal_price"`
	DiscountPercentage int     `json:"discount_percentage"`
	ImageURL           string  `json:"image_url,omitempty"`
}

// ComparisonHighlight is the flattened, display-oriented view of a ComparisonGroup
type ComparisonHighlight struct {
	Name                string         `json:"name"`
	BestRetailer        string         `json:"best_retailer"`
	BestPrice           float64        `json:"best_price"`
	BestComparisonPrice float64        `json:"best_comparison_price"`
	ComparisonUnit      ComparisonUnit `json:"comparison_unit"`
	BestUnitCount       int            `json:"best_unit_count"`
	OtherPrices         []OtherPrice   `json:"other_prices"`
	SavingsPerUnit      float64        `json:"savings_per_unit"`
	SavingsPct          int            `json:"savings_pct"`
	ImageURL            string         `json:"image_url,omitempty"`
}

// Insights summarizes one batch of promotional records
type Insights struct {
	TotalProducts             int                   `json:"total_products"`
	ByRetailer                map[string]int        `json:"by_retailer"`
	WithPrices                int                   `json:"with_prices"`
	WithDiscounts             int                   `json:"with_discounts"`
	AverageDiscountByRetailer map[string]float64    `json:"average_discount_by_retailer"`
	BiggestDiscounts          []DiscountHighlight   `json:"biggest_discounts"`
	PriceComparisons          []ComparisonHighlight `json:"price_comparisons"`
}

// ComparisonResponse is returned by the comparison service
type ComparisonResponse struct {
	Comparisons []ComparisonGroup `json:"comparisons"`
	Insights    Insights          `json:"insights"`
	Source      string            `json:"source"` // "computed" or "cache"
	GeneratedAt time.Time         `json:"generated_at"`
}
