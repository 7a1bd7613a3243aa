// Package app wires configuration into the services shared by the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ecofinder/backend/config"
	"github.com/ecofinder/backend/internal/domain"
	"github.com/ecofinder/backend/internal/infrastructure/cache"
	"github.com/ecofinder/backend/internal/infrastructure/credentials"
	"github.com/ecofinder/backend/internal/infrastructure/gemini"
	"github.com/ecofinder/backend/internal/infrastructure/huggingface"
	"github.com/ecofinder/backend/internal/infrastructure/vision"
	"github.com/ecofinder/backend/internal/usecase"
)

// App holds the wired services
type App struct {
	Suggestions *usecase.SuggestionService
	Credentials domain.CredentialStore
	closers     []io.Closer
}

// New builds every client and service described by cfg
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store := NewCredentialStore(cfg)

	suggestionCache, closer, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	debug := cfg.Server.Environment == "development"

	hf := huggingface.NewClient(huggingface.Config{
		BaseURL:         cfg.HuggingFace.BaseURL,
		ClassifierModel: cfg.HuggingFace.ClassifierModel,
		NERModel:        cfg.HuggingFace.NERModel,
		RequestsPerHour: cfg.RateLimit.Provider,
	})
	hf.SetDebug(debug)

	labeler := vision.NewClient(cfg.Vision.BaseURL, cfg.RateLimit.Provider)
	labeler.SetDebug(debug)

	generator := gemini.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.RateLimit.Provider)
	generator.SetDebug(debug)

	enrichment := usecase.NewEnrichmentService(hf, hf, labeler, usecase.EnrichmentConfig{
		StepTimeout: cfg.Enrichment.StepTimeout,
	})

	suggestions := usecase.NewSuggestionService(enrichment, generator, store, suggestionCache, usecase.SuggestionServiceConfig{
		CacheTTL:        cfg.Cache.TTL,
		GenerateTimeout: cfg.Enrichment.GenerateTimeout,
	})

	zap.L().Info("services configured",
		zap.String("cache", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
		zap.String("credentials", cfg.Credentials.Backend),
		zap.String("classifier_model", cfg.HuggingFace.ClassifierModel),
		zap.String("ner_model", cfg.HuggingFace.NERModel),
		zap.String("gemini_model", cfg.Gemini.Model),
		zap.Duration("step_timeout", cfg.Enrichment.StepTimeout),
	)

	return &App{
		Suggestions: suggestions,
		Credentials: store,
		closers:     []io.Closer{closer},
	}, nil
}

// Close releases the cache backend
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// NewCredentialStore returns the store selected by credentials.backend.
// With the keyring backend, keys from env or the config file still act as a fallback.
func NewCredentialStore(cfg *config.Config) domain.CredentialStore {
	static := credentials.NewStaticStore(cfg.Credentials.StaticCredentials())
	if cfg.Credentials.Backend == "keyring" {
		return credentials.NewChainStore(credentials.NewKeyringStore(cfg.Credentials.KeyringService), static)
	}
	return static
}

func newCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, io.Closer, error) {
	if cfg.Cache.Type != "redis" {
		c := cache.NewMemoryCache()
		return c, c, nil
	}

	c, err := cache.NewRedisCache(cfg.Cache.RedisURL, "ecofinder")
	if err != nil {
		return nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	return c, c, nil
}
