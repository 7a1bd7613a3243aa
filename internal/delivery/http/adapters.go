package http

import (
	"context"
	"strings"

	"github.com/ecofinder/backend/internal/domain"
)

// requestExtractor serves a product record that the extension already scraped
type requestExtractor struct {
	product       *domain.ProductInfo
	isProductPage *bool
}

func newRequestExtractor(product *domain.ProductInfo, isProductPage *bool) *requestExtractor {
	return &requestExtractor{product: product, isProductPage: isProductPage}
}

func (e *requestExtractor) Extract(ctx context.Context) (*domain.ProductInfo, error) {
	if e.product == nil {
		return nil, domain.ErrNotProductPage
	}
	return e.product, nil
}

// IsProductPage trusts the client's verdict when given, otherwise requires a title or description
func (e *requestExtractor) IsProductPage(ctx context.Context) bool {
	if e.isProductPage != nil {
		return *e.isProductPage
	}
	if e.product == nil {
		return false
	}
	return strings.TrimSpace(e.product.Title) != "" || strings.TrimSpace(e.product.Description) != ""
}

// responseSidebar captures what a page session rendered so the handler can
// write it as the response body
type responseSidebar struct {
	loading      bool
	alternatives []domain.AlternativeSuggestion
	message      string
	rendered     bool
}

func (s *responseSidebar) ShowLoading() { s.loading = true }

func (s *responseSidebar) HideLoading() { s.loading = false }

func (s *responseSidebar) RenderAlternatives(alternatives []domain.AlternativeSuggestion) {
	if alternatives == nil {
		alternatives = []domain.AlternativeSuggestion{}
	}
	s.alternatives = alternatives
	s.rendered = true
}

func (s *responseSidebar) RenderError(message string) {
	s.message = message
	s.rendered = true
}
