package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ecofinder/backend/internal/domain"
	"github.com/ecofinder/backend/internal/infrastructure/provider"
	"github.com/ecofinder/backend/internal/jsonscan"
	"go.uber.org/zap"
)

// MaxAlternatives caps how many suggestions are returned to the sidebar
const MaxAlternatives = 5

const amazonSearchBase = "https://www.amazon.com/s"

// Client handles communication with the Gemini generateContent API
type Client struct {
	transport *provider.Transport
	baseURL   string
	model     string
}

// NewClient creates a new generative-language client
func NewClient(baseURL, model string, requestsPerHour int) *Client {
	return &Client{
		transport: provider.NewTransport(provider.Options{
			Name:            "gemini",
			RequestsPerHour: requestsPerHour,
			// Retries are capped lower since generation is slow
			MaxAttempts: 2,
		}),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
	}
}

// SetDebug enables response body logging
func (c *Client) SetDebug(debug bool) {
	c.transport.SetDebug(debug)
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateContent sends a single-turn prompt and returns the reply text.
// A reply without candidates yields an empty string, not an error.
func (c *Client) GenerateContent(ctx context.Context, apiKey, prompt string) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("gemini: %w", domain.ErrMissingCredential)
	}

	params := url.Values{}
	params.Add("key", apiKey)
	reqURL := fmt.Sprintf("%s/models/%s:generateContent?%s", c.baseURL, c.model, params.Encode())

	body, err := c.transport.PostJSON(ctx, reqURL, nil, generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
	})
	if err != nil {
		return "", err
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		zap.L().Warn("gemini envelope not understood", zap.Error(err))
		return "", nil
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

// FindAlternatives asks for eco-friendly alternatives to product.
//
// Transport and status failures are returned as errors. A reply that carries no
// parsable JSON object degrades to an empty list instead.
func (c *Client) FindAlternatives(ctx context.Context, apiKey string, product *domain.ProductInfo) (*domain.AlternativesResult, error) {
	if product == nil {
		return nil, domain.ErrInvalidRequest
	}

	reply, err := c.GenerateContent(ctx, apiKey, BuildPrompt(product))
	if err != nil {
		return nil, err
	}

	result, err := ParseAlternatives(reply)
	if err != nil {
		zap.L().Warn("gemini reply had no usable JSON", zap.String("title", product.Title), zap.Error(err))
		return &domain.AlternativesResult{Alternatives: []domain.AlternativeSuggestion{}}, nil
	}
	return result, nil
}

// ParseAlternatives extracts the first JSON object from a free-form reply and
// normalizes its alternatives. The error is always wrapped around domain.ErrParse.
func ParseAlternatives(reply string) (*domain.AlternativesResult, error) {
	obj, ok := jsonscan.FirstObject(reply)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in reply", domain.ErrParse)
	}

	var parsed domain.AlternativesResult
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	alternatives := make([]domain.AlternativeSuggestion, 0, len(parsed.Alternatives))
	for _, alt := range parsed.Alternatives {
		alt.Name = strings.TrimSpace(alt.Name)
		if alt.Name == "" {
			continue
		}
		if alt.EcoFeatures == nil {
			alt.EcoFeatures = []string{}
		}
		if strings.TrimSpace(alt.AmazonSearchURL) == "" {
			alt.AmazonSearchURL = AmazonSearchURL(firstNonEmpty(alt.SearchQuery, alt.Name))
		}
		alternatives = append(alternatives, alt)
		if len(alternatives) == MaxAlternatives {
			break
		}
	}

	return &domain.AlternativesResult{Alternatives: alternatives}, nil
}

// AmazonSearchURL builds a search link for query
func AmazonSearchURL(query string) string {
	params := url.Values{}
	params.Add("k", strings.TrimSpace(query))
	return amazonSearchBase + "?" + params.Encode()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
