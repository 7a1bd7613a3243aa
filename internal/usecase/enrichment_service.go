package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ecofinder/backend/internal/domain"
	"github.com/ecofinder/backend/internal/metrics"
)

// Step names used in metrics and logs
const (
	stepZeroShot = "zero_shot"
	stepNER      = "ner"
	stepKeywords = "keywords"
	stepVision   = "vision"
)

// EnrichmentConfig holds configuration for the enrichment pipeline
type EnrichmentConfig struct {
	StepTimeout time.Duration
}

// EnrichmentService augments a product record with category scores, eco
// attributes and image labels from the configured sources
type EnrichmentService struct {
	classifier  domain.Classifier
	entities    domain.EntityExtractor
	labeler     domain.ImageLabeler
	stepTimeout time.Duration
}

// NewEnrichmentService creates a new enrichment service with dependencies
func NewEnrichmentService(
	classifier domain.Classifier,
	entities domain.EntityExtractor,
	labeler domain.ImageLabeler,
	config EnrichmentConfig,
) *EnrichmentService {
	stepTimeout := config.StepTimeout
	if stepTimeout <= 0 {
		stepTimeout = 20 * time.Second
	}

	return &EnrichmentService{
		classifier:  classifier,
		entities:    entities,
		labeler:     labeler,
		stepTimeout: stepTimeout,
	}
}

// stepOutcome is what a single step reports back. Only the fields relevant to
// the step are populated.
type stepOutcome struct {
	ok          bool
	note        string
	attributes  []string
	scores      *domain.CategoryScores
	imageLabels []string
}

// Enrich runs every enrichment step and returns an enriched copy of product
// together with the step report. Source failures are recorded as notes and
// never abort the run; the input record is left untouched.
func (s *EnrichmentService) Enrich(
	ctx context.Context,
	product *domain.ProductInfo,
	creds domain.Credentials,
) (*domain.ProductInfo, *domain.EnrichmentSteps) {
	enriched := product.Clone()
	text := strings.TrimSpace(product.Title + " " + product.Description)

	log := zap.L().With(zap.String("title", product.Title))
	log.Debug("enrichment: starting", zap.Int("images", len(product.Images)))

	var zeroShot, ner, keywords, vision stepOutcome

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zeroShot = s.runZeroShot(gctx, creds, text)
		return nil
	})
	g.Go(func() error {
		ner = s.runNER(gctx, creds, text)
		return nil
	})
	g.Go(func() error {
		keywords = runKeywords(text)
		return nil
	})
	g.Go(func() error {
		vision = s.runVision(gctx, creds, product.Images)
		return nil
	})
	_ = g.Wait()

	steps := &domain.EnrichmentSteps{Notes: []string{}}
	attributes := append([]string(nil), enriched.EcoAttributes...)

	steps.ZeroShot = zeroShot.ok
	if zeroShot.scores != nil {
		enriched.CategoryScores = zeroShot.scores
		if len(zeroShot.scores.Labels) > 0 {
			enriched.Category = zeroShot.scores.Labels[0]
		}
	}

	steps.NER = ner.ok
	attributes = append(attributes, ner.attributes...)

	steps.Keywords = keywords.ok
	attributes = append(attributes, keywords.attributes...)

	steps.Vision = vision.ok
	if vision.ok {
		enriched.ImageLabels = vision.imageLabels
	}
	attributes = append(attributes, vision.attributes...)

	for _, outcome := range []stepOutcome{zeroShot, ner, keywords, vision} {
		if outcome.note != "" {
			steps.Notes = append(steps.Notes, outcome.note)
		}
	}

	enriched.EcoAttributes = NormalizeAttributes(attributes)

	log.Info("enrichment: finished",
		zap.Bool("zero_shot", steps.ZeroShot),
		zap.Bool("ner", steps.NER),
		zap.Bool("keywords", steps.Keywords),
		zap.Bool("vision", steps.Vision),
		zap.Strings("eco_attributes", enriched.EcoAttributes),
		zap.Strings("notes", steps.Notes),
	)

	return enriched, steps
}

func (s *EnrichmentService) runZeroShot(ctx context.Context, creds domain.Credentials, text string) stepOutcome {
	apiKey, ok := creds.Get(domain.CredentialClassifier)
	if !ok || s.classifier == nil {
		return skipped(stepZeroShot, "zero-shot skipped: no classifier credential")
	}
	if text == "" {
		return skipped(stepZeroShot, "zero-shot skipped: empty text")
	}

	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	result, err := s.classifier.Classify(stepCtx, apiKey, text, CategoryLabels())
	if err != nil {
		zap.L().Warn("enrichment: zero-shot failed", zap.Error(err))
		metrics.EnrichmentSteps.WithLabelValues(stepZeroShot, metrics.OutcomeFailure).Inc()
		return stepOutcome{note: "zero-shot failed: " + err.Error()}
	}
	if result == nil || len(result.Labels) == 0 {
		metrics.EnrichmentSteps.WithLabelValues(stepZeroShot, metrics.OutcomeNoMatch).Inc()
		return stepOutcome{note: "zero-shot returned no labels"}
	}

	metrics.EnrichmentSteps.WithLabelValues(stepZeroShot, metrics.OutcomeSuccess).Inc()
	return stepOutcome{
		ok: true,
		scores: &domain.CategoryScores{
			Labels: append([]string(nil), result.Labels...),
			Scores: append([]float64(nil), result.Scores...),
		},
	}
}

func (s *EnrichmentService) runNER(ctx context.Context, creds domain.Credentials, text string) stepOutcome {
	apiKey, ok := creds.Get(domain.CredentialClassifier)
	if !ok || s.entities == nil {
		return skipped(stepNER, "ner skipped: no entity credential")
	}
	if text == "" {
		return skipped(stepNER, "ner skipped: empty text")
	}

	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	mentions, err := s.entities.ExtractEntities(stepCtx, apiKey, text)
	if err != nil {
		zap.L().Warn("enrichment: ner failed", zap.Error(err))
		metrics.EnrichmentSteps.WithLabelValues(stepNER, metrics.OutcomeFailure).Inc()
		return stepOutcome{note: "ner failed: " + err.Error()}
	}

	spans := make([]string, 0, len(mentions))
	for _, mention := range mentions {
		spans = append(spans, mention.Text)
	}
	matches := matchFragments(spans, textVocabulary)

	outcome := metrics.OutcomeSuccess
	if len(matches) == 0 {
		outcome = metrics.OutcomeNoMatch
	}
	metrics.EnrichmentSteps.WithLabelValues(stepNER, outcome).Inc()

	return stepOutcome{ok: true, attributes: matches}
}

func runKeywords(text string) stepOutcome {
	matches := MatchKeywords(text, textVocabulary)
	if len(matches) == 0 {
		metrics.EnrichmentSteps.WithLabelValues(stepKeywords, metrics.OutcomeNoMatch).Inc()
		return stepOutcome{note: "no keyword matches"}
	}

	metrics.EnrichmentSteps.WithLabelValues(stepKeywords, metrics.OutcomeSuccess).Inc()
	return stepOutcome{ok: true, attributes: matches}
}

func (s *EnrichmentService) runVision(ctx context.Context, creds domain.Credentials, images []string) stepOutcome {
	apiKey, ok := creds.Get(domain.CredentialVision)
	if !ok || s.labeler == nil {
		return skipped(stepVision, "vision skipped: no vision credential")
	}
	imageURI := firstImage(images)
	if imageURI == "" {
		return skipped(stepVision, "vision skipped: no image")
	}

	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	labels, err := s.labeler.DetectLabels(stepCtx, apiKey, imageURI)
	if err != nil {
		zap.L().Warn("enrichment: vision failed", zap.String("image", imageURI), zap.Error(err))
		metrics.EnrichmentSteps.WithLabelValues(stepVision, metrics.OutcomeFailure).Inc()
		return stepOutcome{note: "vision failed: " + err.Error()}
	}

	descriptions := make([]string, 0, len(labels))
	for _, label := range labels {
		descriptions = append(descriptions, label.Description)
	}
	descriptions = normalizeLabels(descriptions)
	if len(descriptions) == 0 {
		metrics.EnrichmentSteps.WithLabelValues(stepVision, metrics.OutcomeNoMatch).Inc()
		return stepOutcome{note: "vision returned no labels"}
	}

	metrics.EnrichmentSteps.WithLabelValues(stepVision, metrics.OutcomeSuccess).Inc()
	return stepOutcome{
		ok:          true,
		imageLabels: descriptions,
		attributes:  matchFragments(descriptions, imageVocabulary),
	}
}

func skipped(step, note string) stepOutcome {
	metrics.EnrichmentSteps.WithLabelValues(step, metrics.OutcomeSkipped).Inc()
	return stepOutcome{note: note}
}

// firstImage returns the first non-blank image URL; only one image is sent to vision
func firstImage(images []string) string {
	for _, image := range images {
		if image = strings.TrimSpace(image); image != "" {
			return image
		}
	}
	return ""
}
