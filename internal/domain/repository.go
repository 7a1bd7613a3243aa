package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque encoded bytes; Get returns ErrCacheMiss for absent or expired keys.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CredentialStore persists named API keys
type CredentialStore interface {
	// Get returns the secrets for the requested names; absent names are left out of the map
	Get(ctx context.Context, names ...string) (Credentials, error)
	Set(ctx context.Context, name, secret string) error
}

// Classifier performs zero-shot text classification
type Classifier interface {
	Classify(ctx context.Context, apiKey, text string, candidateLabels []string) (*Classification, error)
}

// EntityExtractor performs named-entity recognition
type EntityExtractor interface {
	ExtractEntities(ctx context.Context, apiKey, text string) ([]EntityMention, error)
}

// ImageLabeler returns descriptive labels for an image
type ImageLabeler interface {
	DetectLabels(ctx context.Context, apiKey, imageURI string) ([]ImageLabel, error)
}

// SuggestionGenerator asks a generative-language API for eco-friendly alternatives
type SuggestionGenerator interface {
	FindAlternatives(ctx context.Context, apiKey string, product *ProductInfo) (*AlternativesResult, error)
}

// PageExtractor scrapes a product record from the current page
type PageExtractor interface {
	Extract(ctx context.Context) (*ProductInfo, error)
	IsProductPage(ctx context.Context) bool
}

// Sidebar displays results for one page session
type Sidebar interface {
	ShowLoading()
	HideLoading()
	RenderAlternatives(alternatives []AlternativeSuggestion)
	RenderError(message string)
}
