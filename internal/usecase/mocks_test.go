package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/ecofinder/backend/internal/domain"
)

// MockClassifier is a mock implementation of domain.Classifier
type MockClassifier struct {
	mu       sync.Mutex
	result   *domain.Classification
	err      error
	calls    int
	lastText string
	lastKey  string
}

func (m *MockClassifier) Classify(ctx context.Context, apiKey, text string, candidateLabels []string) (*domain.Classification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastText = text
	m.lastKey = apiKey
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *MockClassifier) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockEntityExtractor is a mock implementation of domain.EntityExtractor
type MockEntityExtractor struct {
	mu       sync.Mutex
	mentions []domain.EntityMention
	err      error
	calls    int
}

func (m *MockEntityExtractor) ExtractEntities(ctx context.Context, apiKey, text string) ([]domain.EntityMention, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.mentions, nil
}

func (m *MockEntityExtractor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockImageLabeler is a mock implementation of domain.ImageLabeler
type MockImageLabeler struct {
	mu        sync.Mutex
	labels    []domain.ImageLabel
	err       error
	calls     int
	lastImage string
	block     bool
}

func (m *MockImageLabeler) DetectLabels(ctx context.Context, apiKey, imageURI string) ([]domain.ImageLabel, error) {
	m.mu.Lock()
	m.calls++
	m.lastImage = imageURI
	block := m.block
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.labels, nil
}

func (m *MockImageLabeler) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockSuggestionGenerator is a mock implementation of domain.SuggestionGenerator
type MockSuggestionGenerator struct {
	result      *domain.AlternativesResult
	err         error
	calls       int
	lastProduct *domain.ProductInfo
	lastKey     string
}

func (m *MockSuggestionGenerator) FindAlternatives(ctx context.Context, apiKey string, product *domain.ProductInfo) (*domain.AlternativesResult, error) {
	m.calls++
	m.lastProduct = product
	m.lastKey = apiKey
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// MockCredentialStore is a mock implementation of domain.CredentialStore
type MockCredentialStore struct {
	secrets map[string]string
	getErr  error
}

func (m *MockCredentialStore) Get(ctx context.Context, names ...string) (domain.Credentials, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	creds := domain.Credentials{}
	for _, name := range names {
		if secret, ok := m.secrets[name]; ok {
			creds[name] = secret
		}
	}
	return creds, nil
}

func (m *MockCredentialStore) Set(ctx context.Context, name, secret string) error {
	if m.secrets == nil {
		m.secrets = map[string]string{}
	}
	m.secrets[name] = secret
	return nil
}

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string][]byte
	getError  error
	setError  error
	getCalled bool
	setCalled bool
	lastTTL   time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setCalled = true
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockPageExtractor is a mock implementation of domain.PageExtractor
type MockPageExtractor struct {
	product       *domain.ProductInfo
	err           error
	isProductPage bool
	extractCalls  int
}

func (m *MockPageExtractor) Extract(ctx context.Context) (*domain.ProductInfo, error) {
	m.extractCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

func (m *MockPageExtractor) IsProductPage(ctx context.Context) bool {
	return m.isProductPage
}

// MockSidebar records the calls made to domain.Sidebar in order
type MockSidebar struct {
	events       []string
	alternatives []domain.AlternativeSuggestion
	message      string
}

func (m *MockSidebar) ShowLoading() { m.events = append(m.events, "loading") }

func (m *MockSidebar) HideLoading() { m.events = append(m.events, "hide") }

func (m *MockSidebar) RenderAlternatives(alternatives []domain.AlternativeSuggestion) {
	m.events = append(m.events, "alternatives")
	m.alternatives = alternatives
}

func (m *MockSidebar) RenderError(message string) {
	m.events = append(m.events, "error")
	m.message = message
}

// allCredentials configures every source
func allCredentials() domain.Credentials {
	return domain.Credentials{
		domain.CredentialClassifier: "hf-key",
		domain.CredentialVision:     "vision-key",
		domain.CredentialGenerative: "gemini-key",
	}
}
