package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ecofinder/backend/internal/domain"
	"github.com/ecofinder/backend/internal/metrics"
)

// Sources reported with a suggestion result
const (
	SourceGenerative = "gemini"
	SourceCache      = "cache"
)

// cachedNote is the only step note on a cache hit; enrichment does not run
const cachedNote = "alternatives served from cache; enrichment skipped"

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// SuggestionServiceConfig holds configuration for the suggestion service
type SuggestionServiceConfig struct {
	CacheTTL        time.Duration
	GenerateTimeout time.Duration
}

// SuggestionResult is everything one alternatives lookup produced
type SuggestionResult struct {
	Product      *domain.ProductInfo            `json:"product"`
	Steps        *domain.EnrichmentSteps        `json:"enrichmentSteps"`
	Alternatives []domain.AlternativeSuggestion `json:"alternatives"`
	Source       string                         `json:"source"`
}

// SuggestionService enriches a product and asks the generative API for alternatives
type SuggestionService struct {
	enrichment      *EnrichmentService
	generator       domain.SuggestionGenerator
	credentials     domain.CredentialStore
	cache           domain.CacheRepository
	cacheTTL        time.Duration
	generateTimeout time.Duration
}

// NewSuggestionService creates a new suggestion service with dependencies.
// cache may be nil to disable caching.
func NewSuggestionService(
	enrichment *EnrichmentService,
	generator domain.SuggestionGenerator,
	credentials domain.CredentialStore,
	cache domain.CacheRepository,
	config SuggestionServiceConfig,
) *SuggestionService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	generateTimeout := config.GenerateTimeout
	if generateTimeout <= 0 {
		generateTimeout = 30 * time.Second
	}

	return &SuggestionService{
		enrichment:      enrichment,
		generator:       generator,
		credentials:     credentials,
		cache:           cache,
		cacheTTL:        cacheTTL,
		generateTimeout: generateTimeout,
	}
}

// EnrichProduct runs only the enrichment pipeline with the stored credentials
func (s *SuggestionService) EnrichProduct(
	ctx context.Context,
	product *domain.ProductInfo,
) (*domain.ProductInfo, *domain.EnrichmentSteps, error) {
	if product == nil {
		return nil, nil, domain.ErrInvalidRequest
	}

	enriched, steps := s.enrichment.Enrich(ctx, product, s.loadCredentials(ctx))
	return enriched, steps, nil
}

// FindAlternatives looks up eco-friendly alternatives for a product.
// Flow: check cache -> enrich -> generate -> cache -> return
func (s *SuggestionService) FindAlternatives(
	ctx context.Context,
	product *domain.ProductInfo,
) (*SuggestionResult, error) {
	if product == nil {
		return nil, domain.ErrInvalidRequest
	}
	if strings.TrimSpace(product.Title) == "" && strings.TrimSpace(product.Description) == "" {
		return nil, fmt.Errorf("%w: product has neither title nor description", domain.ErrInvalidRequest)
	}

	cacheKey := generateCacheKey(product)
	// Only the alternatives are shared between products with the same key
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		return &SuggestionResult{
			Product:      product.Clone(),
			Steps:        &domain.EnrichmentSteps{Notes: []string{cachedNote}},
			Alternatives: cached,
			Source:       SourceCache,
		}, nil
	}

	creds := s.loadCredentials(ctx)
	enriched, steps := s.enrichment.Enrich(ctx, product, creds)

	apiKey, ok := creds.Get(domain.CredentialGenerative)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingCredential, domain.CredentialGenerative)
	}

	genCtx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()

	reply, err := s.generator.FindAlternatives(genCtx, apiKey, enriched)
	if err != nil {
		return nil, err
	}

	alternatives := []domain.AlternativeSuggestion{}
	if reply != nil && reply.Alternatives != nil {
		alternatives = reply.Alternatives
	}

	result := &SuggestionResult{
		Product:      enriched,
		Steps:        steps,
		Alternatives: alternatives,
		Source:       SourceGenerative,
	}

	// Empty replies are usually a parse failure; retry them next time
	if len(alternatives) > 0 {
		if err := s.setInCache(ctx, cacheKey, alternatives); err != nil {
			zap.L().Warn("suggestions: cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return result, nil
}

func (s *SuggestionService) loadCredentials(ctx context.Context) domain.Credentials {
	if s.credentials == nil {
		return domain.Credentials{}
	}

	creds, err := s.credentials.Get(ctx, domain.KnownCredentials...)
	if err != nil {
		// Every source then reports itself as unconfigured
		zap.L().Warn("suggestions: credential lookup failed", zap.Error(err))
		return domain.Credentials{}
	}
	if creds == nil {
		return domain.Credentials{}
	}
	return creds
}

func (s *SuggestionService) getFromCache(ctx context.Context, key string) ([]domain.AlternativeSuggestion, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			zap.L().Warn("suggestions: cache read failed", zap.String("key", key), zap.Error(err))
		}
		metrics.SuggestionCache.WithLabelValues("miss").Inc()
		return nil, err
	}

	var entry domain.AlternativesResult
	if err := json.Unmarshal(raw, &entry); err != nil {
		metrics.SuggestionCache.WithLabelValues("miss").Inc()
		return nil, fmt.Errorf("%w: cached suggestion: %v", domain.ErrParse, err)
	}
	if len(entry.Alternatives) == 0 {
		metrics.SuggestionCache.WithLabelValues("miss").Inc()
		return nil, fmt.Errorf("%w: cached suggestion has no alternatives", domain.ErrParse)
	}

	metrics.SuggestionCache.WithLabelValues("hit").Inc()
	return entry.Alternatives, nil
}

func (s *SuggestionService) setInCache(ctx context.Context, key string, alternatives []domain.AlternativeSuggestion) error {
	if s.cache == nil {
		return nil
	}

	raw, err := json.Marshal(domain.AlternativesResult{Alternatives: alternatives})
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, raw, s.cacheTTL)
}

// generateCacheKey creates a normalized cache key from the product.
// Format: "alternatives:{cleaned_title}:{normalized_category}"
func generateCacheKey(product *domain.ProductInfo) string {
	return fmt.Sprintf("alternatives:%s:%s",
		normalizeForCacheKey(CleanTitle(product.Title)),
		normalizeForCacheKey(product.Category),
	)
}

// normalizeForCacheKey lowercases s, strips punctuation and collapses whitespace
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
