package usecase

import (
	"testing"
)

func TestNormalizeProductName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lowercases and trims", "  Coca-Cola Zero  ", "coca-cola zero"},
		{"collapses whitespace", "Coca-Cola    Zero", "coca-cola zero"},
		{"strips AH prefix", "AH Halfvolle melk", "halfvolle melk"},
		{"strips Jumbo prefix", "Jumbo Cola", "cola"},
		{"strips house brand with apostrophe", "G’woon Chips naturel", "chips naturel"},
		{"strips only one prefix", "AH Jumbo test", "jumbo test"},
		{"strips pack suffix", "Pepsi Max 8-pack", "pepsi max"},
		{"strips spaced pack suffix", "Heineken 6 pack", "heineken"},
		{"strips piece suffix", "Scharreleieren 10 stuks", "scharreleieren"},
		{"folds diacritics", "Crème fraîche", "creme fraiche"},
		{"keeps inner numbers", "7up 1,5 liter", "7up 1,5 liter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeProductName(tt.input); got != tt.want {
				t.Errorf("NormalizeProductName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		min  float64
		max  float64
	}{
		{"identical", "Coca-Cola Zero", "Coca-Cola Zero", 1, 1},
		{"identical after normalization", "AH Cola 6-pack", "Jumbo cola", 1, 1},
		{"close variants", "Coca-Cola Zero Sugar", "Coca-Cola Zero", 0.8, 0.99},
		{"unrelated", "abc", "xyz", 0, 0},
		{"empty", "", "Cola", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NameSimilarity(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Errorf("NameSimilarity(%q, %q) = %v, want in [%v, %v]", tt.a, tt.b, got, tt.min, tt.max)
			}
		})
	}
}

func TestNameSimilarity_Ratio(t *testing.T) {
	// 2*M/T with M=3 matching runes ("abc") and T=4+3
	got := NameSimilarity("abcd", "abc")
	want := 6.0 / 7.0
	if got != want {
		t.Errorf("NameSimilarity(abcd, abc) = %v, want %v", got, want)
	}
}
