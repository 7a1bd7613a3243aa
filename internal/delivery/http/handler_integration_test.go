package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecofinder/backend/config"
	"github.com/ecofinder/backend/internal/domain"
	"github.com/ecofinder/backend/internal/usecase"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockFinder is a mock implementation of SuggestionFinder
type mockFinder struct {
	result      *usecase.SuggestionResult
	err         error
	enrichErr   error
	lastProduct *domain.ProductInfo
}

func (m *mockFinder) FindAlternatives(ctx context.Context, product *domain.ProductInfo) (*usecase.SuggestionResult, error) {
	m.lastProduct = product
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockFinder) EnrichProduct(ctx context.Context, product *domain.ProductInfo) (*domain.ProductInfo, *domain.EnrichmentSteps, error) {
	m.lastProduct = product
	if m.enrichErr != nil {
		return nil, nil, m.enrichErr
	}
	enriched := product.Clone()
	enriched.EcoAttributes = []string{"bamboo"}
	return enriched, &domain.EnrichmentSteps{Keywords: true, Notes: []string{"vision skipped: no image"}}, nil
}

func newMockFinder() *mockFinder {
	return &mockFinder{
		result: &usecase.SuggestionResult{
			Product: &domain.ProductInfo{Title: "Plastic Water Bottle", EcoAttributes: []string{}},
			Steps:   &domain.EnrichmentSteps{Notes: []string{"no keyword matches"}},
			Alternatives: []domain.AlternativeSuggestion{
				{Name: "Glass Bottle", EcoFeatures: []string{"plastic-free"}, SearchQuery: "glass water bottle"},
			},
			Source: usecase.SourceGenerative,
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"chrome-extension://*", "http://localhost:3000"},
		},
		RateLimit: config.RateLimitConfig{PerIP: 0},
	}
}

func setupTestRouter(finder SuggestionFinder) *gin.Engine {
	return SetupRouter(testConfig(), NewHandler(finder, "1.2.3"), nil)
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter(nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "ecofinder-backend", response["service"])
		assert.Equal(t, "1.2.3", response["version"])
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter(nil)

		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(method, "/health", nil))
			assert.Equal(t, http.StatusNotFound, w.Code, method)
		}
	})

	t.Run("defaults the version", func(t *testing.T) {
		router := SetupRouter(testConfig(), NewHandler(nil, ""), nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, "dev", decodeBody(t, w)["version"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestSearchAlternativesEndpoint(t *testing.T) {
	const path = "/api/v1/alternatives/search"

	t.Run("returns alternatives", func(t *testing.T) {
		finder := newMockFinder()
		router := setupTestRouter(finder)

		w := postJSON(router, path, `{"product":{"title":"Plastic Water Bottle","description":"BPA-free plastic bottle","images":[]}}`)

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, true, response["success"])
		assert.Equal(t, "gemini", response["source"])
		alternatives := response["alternatives"].([]any)
		require.Len(t, alternatives, 1)
		assert.Equal(t, "Glass Bottle", alternatives[0].(map[string]any)["name"])
		assert.Contains(t, response, "enrichmentSteps")
		assert.Contains(t, response, "product")
		require.NotNil(t, finder.lastProduct)
		assert.Equal(t, "Plastic Water Bottle", finder.lastProduct.Title)
	})

	t.Run("client says not a product page", func(t *testing.T) {
		finder := newMockFinder()
		router := setupTestRouter(finder)

		w := postJSON(router, path, `{"product":{"title":"Home"},"isProductPage":false}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, false, response["success"])
		assert.Equal(t, usecase.MessageNotProductPage, response["error"])
		assert.Nil(t, finder.lastProduct)
	})

	t.Run("missing product", func(t *testing.T) {
		router := setupTestRouter(newMockFinder())

		w := postJSON(router, path, `{}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("missing generative credential", func(t *testing.T) {
		finder := newMockFinder()
		finder.err = domain.ErrMissingCredential
		router := setupTestRouter(finder)

		w := postJSON(router, path, `{"product":{"title":"Mug"}}`)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, usecase.MessageMissingGenerative, decodeBody(t, w)["error"])
	})

	t.Run("provider failure", func(t *testing.T) {
		finder := newMockFinder()
		finder.err = &domain.ProviderError{Provider: "gemini", StatusCode: 500, Err: errors.New("internal")}
		router := setupTestRouter(finder)

		w := postJSON(router, path, `{"product":{"title":"Mug"}}`)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, usecase.MessageLookupFailed, decodeBody(t, w)["error"])
	})

	t.Run("malformed body", func(t *testing.T) {
		router := setupTestRouter(newMockFinder())

		w := postJSON(router, path, `{"product":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, false, decodeBody(t, w)["success"])
	})

	t.Run("service not configured", func(t *testing.T) {
		router := setupTestRouter(nil)

		w := postJSON(router, path, `{"product":{"title":"Mug"}}`)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestEnrichProductEndpoint(t *testing.T) {
	const path = "/api/v1/products/enrich"

	t.Run("returns enriched record", func(t *testing.T) {
		router := setupTestRouter(newMockFinder())

		w := postJSON(router, path, `{"title":"Bamboo toothbrush"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var response struct {
			Product domain.ProductInfo     `json:"product"`
			Steps   domain.EnrichmentSteps `json:"enrichmentSteps"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, []string{"bamboo"}, response.Product.EcoAttributes)
		assert.True(t, response.Steps.Keywords)
		assert.Equal(t, []string{"vision skipped: no image"}, response.Steps.Notes)
	})

	t.Run("maps invalid request", func(t *testing.T) {
		finder := newMockFinder()
		finder.enrichErr = domain.ErrInvalidRequest
		router := setupTestRouter(finder)

		w := postJSON(router, path, `{"title":""}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validates HTTP method", func(t *testing.T) {
		router := setupTestRouter(newMockFinder())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(newMockFinder())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/alternatives/search", nil)
	req.Header.Set("Origin", "chrome-extension://abcdefghijklmnop")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "chrome-extension://abcdefghijklmnop", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidRequest, http.StatusBadRequest},
		{domain.ErrNotProductPage, http.StatusUnprocessableEntity},
		{domain.ErrMissingCredential, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{&domain.ProviderError{Provider: "gemini", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{&domain.ProviderError{Provider: "gemini", StatusCode: 500, Err: errors.New("x")}, http.StatusBadGateway},
		{errors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForError(tt.err), tt.err.Error())
	}
}

func TestResponseSidebar(t *testing.T) {
	sidebar := &responseSidebar{}

	sidebar.ShowLoading()
	assert.True(t, sidebar.loading)
	sidebar.HideLoading()
	sidebar.RenderAlternatives(nil)

	assert.False(t, sidebar.loading)
	assert.True(t, sidebar.rendered)
	assert.Equal(t, []domain.AlternativeSuggestion{}, sidebar.alternatives)
}
