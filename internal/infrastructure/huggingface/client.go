package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ecofinder/backend/internal/domain"
	"github.com/ecofinder/backend/internal/infrastructure/provider"
	"go.uber.org/zap"
)

// Client handles communication with the Hugging Face inference API.
// One client serves both the zero-shot classifier and the NER model.
type Client struct {
	transport       *provider.Transport
	baseURL         string
	classifierModel string
	nerModel        string
}

// Config holds the inference endpoints
type Config struct {
	BaseURL         string
	ClassifierModel string
	NERModel        string
	RequestsPerHour int
}

// NewClient creates a new Hugging Face inference client
func NewClient(cfg Config) *Client {
	return &Client{
		transport: provider.NewTransport(provider.Options{
			Name:            "huggingface",
			RequestsPerHour: cfg.RequestsPerHour,
		}),
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		classifierModel: cfg.ClassifierModel,
		nerModel:        cfg.NERModel,
	}
}

// SetDebug enables response body logging
func (c *Client) SetDebug(debug bool) {
	c.transport.SetDebug(debug)
}

type classifyRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters classifyParams `json:"parameters"`
}

type classifyParams struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type classifyResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// labelScore is the list-shaped reply some inference backends return instead of classifyResponse
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify runs zero-shot classification of text against candidateLabels.
// Labels come back highest confidence first.
func (c *Client) Classify(ctx context.Context, apiKey, text string, candidateLabels []string) (*domain.Classification, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("huggingface: %w", domain.ErrMissingCredential)
	}
	if strings.TrimSpace(text) == "" || len(candidateLabels) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	body, err := c.transport.PostJSON(ctx, c.modelURL(c.classifierModel), authHeader(apiKey), classifyRequest{
		Inputs: text,
		Parameters: classifyParams{
			CandidateLabels: candidateLabels,
			MultiLabel:      false,
		},
	})
	if err != nil {
		return nil, err
	}

	result, err := decodeClassification(body)
	if err != nil {
		zap.L().Warn("zero-shot reply not understood", zap.String("provider", "huggingface"), zap.Error(err))
		return nil, err
	}
	result.Sequence = firstNonEmpty(result.Sequence, text)
	return result, nil
}

// decodeClassification accepts {labels, scores, sequence} as well as [{label, score}]
func decodeClassification(body []byte) (*domain.Classification, error) {
	var resp classifyResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		if len(resp.Labels) != len(resp.Scores) {
			return nil, fmt.Errorf("%w: %d labels but %d scores", domain.ErrParse, len(resp.Labels), len(resp.Scores))
		}
		return &domain.Classification{Sequence: resp.Sequence, Labels: resp.Labels, Scores: resp.Scores}, nil
	}

	var list []labelScore
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	result := &domain.Classification{
		Labels: make([]string, 0, len(list)),
		Scores: make([]float64, 0, len(list)),
	}
	for _, item := range list {
		result.Labels = append(result.Labels, item.Label)
		result.Scores = append(result.Scores, item.Score)
	}
	return result, nil
}

func (c *Client) modelURL(model string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, model)
}

func authHeader(apiKey string) http.Header {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+apiKey)
	return header
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
