package domain

// ProductInfo represents a product record extracted from an e-commerce page
type ProductInfo struct {
	Title          string          `json:"title"`
	Category       string          `json:"category"`
	Price          string          `json:"price"`
	Description    string          `json:"description"`
	Images         []string        `json:"images"`
	URL            string          `json:"url"`
	EcoAttributes  []string        `json:"ecoAttributes"`            // lowercased, deduplicated set
	CategoryScores *CategoryScores `json:"categoryScores,omitempty"` // set by zero-shot classification
	ImageLabels    []string        `json:"imageLabels,omitempty"`    // set by vision labeling
}

// Clone returns a deep copy so enrichment never mutates the caller's record
func (p *ProductInfo) Clone() *ProductInfo {
	clone := *p
	clone.Images = append([]string(nil), p.Images...)
	clone.EcoAttributes = append([]string(nil), p.EcoAttributes...)
	clone.ImageLabels = append([]string(nil), p.ImageLabels...)
	if p.CategoryScores != nil {
		clone.CategoryScores = &CategoryScores{
			Labels: append([]string(nil), p.CategoryScores.Labels...),
			Scores: append([]float64(nil), p.CategoryScores.Scores...),
		}
	}
	return &clone
}

// CategoryScores holds the ranked zero-shot labels with their scores
type CategoryScores struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// EnrichmentSteps records what each enrichment source did during one pipeline run.
//
// NER is true whenever the entity call succeeded, even if no eco entity matched.
// Keywords is true only when at least one vocabulary term matched.
type EnrichmentSteps struct {
	ZeroShot bool     `json:"zeroShot"`
	NER      bool     `json:"ner"`
	Keywords bool     `json:"keywords"`
	Vision   bool     `json:"vision"`
	Notes    []string `json:"notes"`
}

// AlternativeSuggestion is one eco-friendly product proposed by the generative API
type AlternativeSuggestion struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	EcoFeatures     []string `json:"ecoFeatures"`
	EstimatedPrice  string   `json:"estimatedPrice"`
	SearchQuery     string   `json:"searchQuery"`
	AmazonSearchURL string   `json:"amazonSearchUrl"`
}

// AlternativesResult is the parsed generative reply
type AlternativesResult struct {
	Alternatives []AlternativeSuggestion `json:"alternatives"`
}

// Classification is the zero-shot classifier output, highest confidence first
type Classification struct {
	Sequence string
	Labels   []string
	Scores   []float64
}

// EntityMention is one named entity span as returned by an entity extractor
type EntityMention struct {
	Text  string
	Group string
	Score float64
}

// ImageLabel is one descriptive label returned by a vision provider
type ImageLabel struct {
	Description string
	Score       float64
}
