package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ecofinder/backend/internal/domain"
)

// Messages shown in the sidebar when a lookup cannot produce alternatives
const (
	MessageNotProductPage    = "This does not look like a product page."
	MessageMissingGenerative = "Gemini API key not found. Please configure it in the extension settings."
	MessageExtractFailed     = "Could not read product details from this page."
	MessageLookupFailed      = "Failed to find eco-friendly alternatives. Please try again."
)

// AlternativesFinder produces suggestions for a product record
type AlternativesFinder interface {
	FindAlternatives(ctx context.Context, product *domain.ProductInfo) (*SuggestionResult, error)
}

// PageSession drives one "find alternatives" request for a page: it shows
// loading, extracts the product, runs the lookup and renders either the
// alternatives or an error. The sidebar always ends up in one of those two states.
type PageSession struct {
	extractor domain.PageExtractor
	sidebar   domain.Sidebar
	finder    AlternativesFinder
}

// NewPageSession creates a session bound to one page and its sidebar
func NewPageSession(extractor domain.PageExtractor, sidebar domain.Sidebar, finder AlternativesFinder) *PageSession {
	return &PageSession{
		extractor: extractor,
		sidebar:   sidebar,
		finder:    finder,
	}
}

// FindAlternatives runs the lookup and renders its outcome. The returned
// result and error mirror what was rendered.
func (p *PageSession) FindAlternatives(ctx context.Context) (*SuggestionResult, error) {
	p.sidebar.ShowLoading()

	result, err := p.lookup(ctx)
	p.sidebar.HideLoading()

	if err != nil {
		zap.L().Info("session: lookup failed", zap.Error(err))
		p.sidebar.RenderError(userMessage(err))
		return nil, err
	}

	p.sidebar.RenderAlternatives(result.Alternatives)
	return result, nil
}

func (p *PageSession) lookup(ctx context.Context) (*SuggestionResult, error) {
	if !p.extractor.IsProductPage(ctx) {
		return nil, domain.ErrNotProductPage
	}

	product, err := p.extractor.Extract(ctx)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotProductPage
	}

	return p.finder.FindAlternatives(ctx, product)
}

// userMessage maps a lookup error to the text shown in the sidebar
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotProductPage):
		return MessageNotProductPage
	case errors.Is(err, domain.ErrMissingCredential):
		return MessageMissingGenerative
	case errors.Is(err, domain.ErrInvalidRequest):
		return MessageExtractFailed
	default:
		return MessageLookupFailed
	}
}
