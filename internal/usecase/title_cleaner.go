package usecase

import (
	"regexp"
	"strings"
)

var (
	// Matches size/quantity patterns like "16 oz", "1.5 liter", "500 ml", "2 lb"
	sizeQuantityPattern = regexp.MustCompile(`\b\d+\.?\d*\s*(fl\s*)?(oz|ounces?|lbs?|pounds?|ml|liters?|litres?|gallons?|kg|grams?|g|cm|mm|inch(es)?|in)\b`)

	// Matches pack/count patterns like "4 pack", "pack of 6", "6-pack", "24 count", "10 pcs"
	packCountPattern = regexp.MustCompile(`\b\d+[-\s]*(pack|pk|count|ct|pcs|pieces?)\b|\bpack\s*of\s*\d+\b|\bset\s*of\s*\d+\b`)

	orphanedPunctuationPattern = regexp.MustCompile(`\s+[,\-;:|]+\s+|[,\-;:|]+\s*$|^\s*[,\-;:|]+`)
)

// titleNoiseWords are retail marketing terms that do not change what the product is
var titleNoiseWords = map[string]bool{
	"new":         true,
	"improved":    true,
	"premium":     true,
	"best":        true,
	"seller":      true,
	"bestseller":  true,
	"sale":        true,
	"deal":        true,
	"limited":     true,
	"edition":     true,
	"upgraded":    true,
	"latest":      true,
	"version":     true,
	"value":       true,
	"bundle":      true,
	"official":    true,
	"genuine":     true,
	"authentic":   true,
	"assorted":    true,
	"multipack":   true,
	"exclusive":   true,
	"bestselling": true,
}

// CleanTitle strips sizes, pack counts and marketing words from a product title
// so listings of the same product in different quantities share a cache entry
func CleanTitle(title string) string {
	if title == "" {
		return ""
	}

	cleaned := strings.ToLower(title)
	cleaned = sizeQuantityPattern.ReplaceAllString(cleaned, " ")
	cleaned = packCountPattern.ReplaceAllString(cleaned, " ")
	cleaned = removeNoiseWords(cleaned)
	cleaned = orphanedPunctuationPattern.ReplaceAllString(cleaned, " ")
	cleaned = multipleSpacesRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	// Everything was noise; fall back to the raw title
	if cleaned == "" {
		return strings.ToLower(strings.TrimSpace(title))
	}
	return cleaned
}

func removeNoiseWords(s string) string {
	words := strings.Fields(s)
	kept := make([]string, 0, len(words))

	for _, word := range words {
		if !titleNoiseWords[strings.Trim(word, ",.!?;:-'\"()[]")] {
			kept = append(kept, word)
		}
	}

	return strings.Join(kept, " ")
}
