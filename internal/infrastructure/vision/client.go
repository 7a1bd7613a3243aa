package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ecofinder/backend/internal/domain"
	"github.com/ecofinder/backend/internal/infrastructure/provider"
)

// MaxLabels is the number of label annotations requested per image
const MaxLabels = 10

// Client handles communication with the Google Cloud Vision images:annotate API
type Client struct {
	transport *provider.Transport
	baseURL   string
}

// NewClient creates a new vision client
func NewClient(baseURL string, requestsPerHour int) *Client {
	return &Client{
		transport: provider.NewTransport(provider.Options{
			Name:            "vision",
			RequestsPerHour: requestsPerHour,
		}),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// SetDebug enables response body logging
func (c *Client) SetDebug(debug bool) {
	c.transport.SetDebug(debug)
}

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image    image     `json:"image"`
	Features []feature `json:"features"`
}

type image struct {
	Source imageSource `json:"source"`
}

type imageSource struct {
	ImageURI string `json:"imageUri"`
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type annotateResponse struct {
	Responses []struct {
		LabelAnnotations []struct {
			Description string  `json:"description"`
			Score       float64 `json:"score"`
		} `json:"labelAnnotations"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// DetectLabels returns up to MaxLabels descriptive labels for the image at imageURI
func (c *Client) DetectLabels(ctx context.Context, apiKey, imageURI string) ([]domain.ImageLabel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("vision: %w", domain.ErrMissingCredential)
	}
	if strings.TrimSpace(imageURI) == "" {
		return nil, domain.ErrInvalidRequest
	}

	params := url.Values{}
	params.Add("key", apiKey)
	reqURL := fmt.Sprintf("%s/images:annotate?%s", c.baseURL, params.Encode())

	body, err := c.transport.PostJSON(ctx, reqURL, nil, annotateRequest{
		Requests: []imageRequest{{
			Image:    image{Source: imageSource{ImageURI: imageURI}},
			Features: []feature{{Type: "LABEL_DETECTION", MaxResults: MaxLabels}},
		}},
	})
	if err != nil {
		return nil, err
	}

	var resp annotateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if len(resp.Responses) == 0 {
		return nil, nil
	}

	// Per-image failures (e.g. unreachable URI) come back inside a 200 reply
	first := resp.Responses[0]
	if first.Error != nil && first.Error.Message != "" {
		return nil, &domain.ProviderError{
			Provider:   c.transport.Name(),
			StatusCode: first.Error.Code,
			Err:        errors.New(first.Error.Message),
		}
	}

	labels := make([]domain.ImageLabel, 0, len(first.LabelAnnotations))
	for _, annotation := range first.LabelAnnotations {
		labels = append(labels, domain.ImageLabel{Description: annotation.Description, Score: annotation.Score})
	}
	return labels, nil
}
