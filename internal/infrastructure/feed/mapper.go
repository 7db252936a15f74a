package feed

import (
	"strings"

	"github.com/bespaarwijzer/backend/internal/domain"
)

// Product is one item as published by the promotion feed
type Product struct {
	Supermarket        string   `json:"supermarket"`
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Brand              string   `json:"brand"`
	PackageDescription string   `json:"package_description"`
	OfferPrice         *float64 `json:"offer_price"`
	NormalPrice        *float64 `json:"normal_price"`
	DiscountText       string   `json:"discount_text"`
	Category           string   `json:"category"`
	ImageURL           string   `json:"image_url"`
	SourceURL          string   `json:"source_url"`
}

// Response is the top-level feed document
type Response struct {
	Products []Product `json:"products"`
}

// MapToRecord converts a feed item to our domain ProductRecord
func MapToRecord(p Product) domain.ProductRecord {
	return domain.ProductRecord{
		Retailer:           strings.TrimSpace(p.Supermarket),
		ID:                 strings.TrimSpace(p.ID),
		Name:               strings.TrimSpace(p.Name),
		Brand:              strings.TrimSpace(p.Brand),
		PackageDescription: strings.TrimSpace(p.PackageDescription),
		OfferPrice:         positivePrice(p.OfferPrice),
		NormalPrice:        positivePrice(p.NormalPrice),
		DiscountText:       strings.TrimSpace(p.DiscountText),
		Category:           strings.TrimSpace(p.Category),
		ImageURL:           strings.TrimSpace(p.ImageURL),
		SourceURL:          strings.TrimSpace(p.SourceURL),
	}
}

// MapToRecords converts every feed item, skipping items without id or name
func MapToRecords(products []Product) []domain.ProductRecord {
	records := make([]domain.ProductRecord, 0, len(products))
	for _, p := range products {
		rec := MapToRecord(p)
		if rec.ID == "" || rec.Name == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// positivePrice drops missing, zero and negative prices
func positivePrice(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	price := *v
	return &price
}
