package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	HuggingFace HuggingFaceConfig `mapstructure:"huggingface"`
	Vision      VisionConfig      `mapstructure:"vision"`
	Gemini      GeminiConfig      `mapstructure:"gemini"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Cache       CacheConfig       `mapstructure:"cache"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Enrichment  EnrichmentConfig  `mapstructure:"enrichment"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// HuggingFaceConfig holds the inference API settings used for zero-shot and NER
type HuggingFaceConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	ClassifierModel string `mapstructure:"classifier_model"`
	NERModel        string `mapstructure:"ner_model"`
}

// VisionConfig holds Google Cloud Vision settings
type VisionConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// GeminiConfig holds generative-language API settings
type GeminiConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// CredentialsConfig selects where API keys come from
type CredentialsConfig struct {
	Backend           string `mapstructure:"backend"` // "env" or "keyring"
	KeyringService    string `mapstructure:"keyring_service"`
	HuggingFaceAPIKey string `mapstructure:"huggingface_api_key"`
	VisionAPIKey      string `mapstructure:"google_vision_api_key"`
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP    int `mapstructure:"per_ip"`   // requests per minute per client IP
	Provider int `mapstructure:"provider"` // requests per hour per provider
}

// EnrichmentConfig bounds every outbound call
type EnrichmentConfig struct {
	StepTimeout     time.Duration `mapstructure:"step_timeout"`
	GenerateTimeout time.Duration `mapstructure:"generate_timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ecofinder/")

	// ECOFINDER_CACHE_TTL maps to cache.ttl
	v.SetEnvPrefix("ECOFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if one exists.
// Variables already present in the environment are never overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv picks it up during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	v.SetDefault("huggingface.base_url", "https://api-inference.huggingface.co/models")
	v.SetDefault("huggingface.classifier_model", "facebook/bart-large-mnli")
	v.SetDefault("huggingface.ner_model", "dslim/bert-base-NER")

	v.SetDefault("vision.base_url", "https://vision.googleapis.com/v1")

	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.model", "gemini-pro")

	v.SetDefault("credentials.backend", "env")
	v.SetDefault("credentials.keyring_service", "ecofinder")
	v.SetDefault("credentials.huggingface_api_key", "")
	v.SetDefault("credentials.google_vision_api_key", "")
	v.SetDefault("credentials.gemini_api_key", "")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.provider", 1000)

	v.SetDefault("enrichment.step_timeout", "20s")
	v.SetDefault("enrichment.generate_timeout", "30s")

	v.SetDefault("log.level", "info")
}

// validate validates the configuration.
// Missing API keys are not errors: each enrichment source is skipped when its key is absent.
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Credentials.Backend != "env" && config.Credentials.Backend != "keyring" {
		return fmt.Errorf("credentials backend must be 'env' or 'keyring', got: %s", config.Credentials.Backend)
	}

	if config.Enrichment.StepTimeout <= 0 || config.Enrichment.GenerateTimeout <= 0 {
		return fmt.Errorf("enrichment timeouts must be positive")
	}

	return nil
}

// StaticCredentials returns the API keys configured through env vars or the config file
func (c CredentialsConfig) StaticCredentials() map[string]string {
	return map[string]string{
		"huggingface_api_key":   c.HuggingFaceAPIKey,
		"google_vision_api_key": c.VisionAPIKey,
		"gemini_api_key":        c.GeminiAPIKey,
	}
}
