package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ecofinder/backend/internal/domain"
)

type nerRequest struct {
	Inputs string `json:"inputs"`
}

// rawEntity covers the field names NER pipelines use for the recognized span.
// Token-level pipelines fill word and entity; aggregated ones fill word and entity_group.
type rawEntity struct {
	Word        string  `json:"word"`
	Entity      string  `json:"entity"`
	EntityGroup string  `json:"entity_group"`
	Score       float64 `json:"score"`
}

// mention normalizes a provider entity into one canonical shape.
// The span text is the first non-empty of word, entity, entity_group.
func (e rawEntity) mention() domain.EntityMention {
	return domain.EntityMention{
		Text:  firstNonEmpty(e.Word, e.Entity, e.EntityGroup),
		Group: firstNonEmpty(e.EntityGroup, e.Entity),
		Score: e.Score,
	}
}

// ExtractEntities runs named-entity recognition over text.
// Mentions keep the provider's order.
func (c *Client) ExtractEntities(ctx context.Context, apiKey, text string) ([]domain.EntityMention, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("huggingface: %w", domain.ErrMissingCredential)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidRequest
	}

	body, err := c.transport.PostJSON(ctx, c.modelURL(c.nerModel), authHeader(apiKey), nerRequest{Inputs: text})
	if err != nil {
		return nil, err
	}

	var raw []rawEntity
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	mentions := make([]domain.EntityMention, 0, len(raw))
	for _, entity := range raw {
		m := entity.mention()
		if m.Text == "" {
			continue
		}
		mentions = append(mentions, m)
	}
	return mentions, nil
}
