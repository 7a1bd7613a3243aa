package usecase

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// textVocabulary holds the sustainability terms searched for in product text and entity mentions
var textVocabulary = []string{
	"organic", "organic cotton", "biodegradable", "compostable",
	"recyclable", "recycled", "upcycled", "sustainable", "sustainably sourced",
	"eco-friendly", "environmentally friendly", "fair trade", "fsc certified",
	"bamboo", "hemp", "vegan", "cruelty-free", "plastic-free", "zero waste",
	"reusable", "refillable", "non-toxic", "natural", "renewable",
	"carbon neutral", "energy efficient", "energy star", "solar",
}

// imageVocabulary holds material and nature terms searched for in vision labels.
// It overlaps textVocabulary but adds raw materials a photo can show.
var imageVocabulary = []string{
	"bamboo", "wood", "cardboard", "paper", "cork", "jute", "hemp",
	"cotton", "linen", "wool", "glass", "plant", "leaf", "recycled", "organic",
}

// categoryLabels are the zero-shot candidates, in the order sent to the classifier
var categoryLabels = []string{
	"eco-friendly products",
	"organic products",
	"recyclable materials",
	"electronics",
	"clothing and apparel",
	"home and kitchen",
	"beauty and personal care",
	"food and beverages",
	"toys and games",
	"sports and outdoors",
	"health and wellness",
	"office supplies",
	"baby products",
	"pet supplies",
}

// TextVocabulary returns a copy of the text sustainability vocabulary
func TextVocabulary() []string {
	return append([]string(nil), textVocabulary...)
}

// ImageVocabulary returns a copy of the image sustainability vocabulary
func ImageVocabulary() []string {
	return append([]string(nil), imageVocabulary...)
}

// CategoryLabels returns a copy of the zero-shot candidate categories
func CategoryLabels() []string {
	return append([]string(nil), categoryLabels...)
}

// MatchKeywords returns the vocabulary terms that occur in haystack as
// case-insensitive substrings, in vocabulary order
func MatchKeywords(haystack string, vocabulary []string) []string {
	text := strings.ToLower(haystack)
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	return lo.Filter(vocabulary, func(term string, _ int) bool {
		return strings.Contains(text, strings.ToLower(term))
	})
}

// matchFragments scans each fragment independently and returns every term found in any of them
func matchFragments(fragments []string, vocabulary []string) []string {
	var matches []string
	for _, fragment := range fragments {
		matches = append(matches, MatchKeywords(fragment, vocabulary)...)
	}
	return lo.Uniq(matches)
}

// NormalizeAttributes lowercases, trims and deduplicates attributes.
// The result is sorted so repeated runs produce identical records.
func NormalizeAttributes(attributes []string) []string {
	normalized := lo.Uniq(lo.FilterMap(attributes, func(attr string, _ int) (string, bool) {
		attr = strings.ToLower(strings.TrimSpace(attr))
		return attr, attr != ""
	}))
	sort.Strings(normalized)
	return normalized
}

// normalizeLabels lowercases and deduplicates labels, keeping the provider's order
func normalizeLabels(labels []string) []string {
	return lo.Uniq(lo.FilterMap(labels, func(label string, _ int) (string, bool) {
		label = strings.ToLower(strings.TrimSpace(label))
		return label, label != ""
	}))
}
