// Package classify assigns a category, an urgency and a one-sentence
// summary to a new customer inquiry.
package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"inquirydesk/internal/config"
	"inquirydesk/internal/domain"
	"inquirydesk/internal/metrics"
)

// Result is the triage outcome for one inquiry.
type Result struct {
	Category domain.Category `json:"category"`
	Urgency  domain.Urgency  `json:"urgency"`
	Summary  string          `json:"summary"`
}

// Classifier classifies inquiry text.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string) (Result, error)
}

// New builds the classifier selected by cfg. A Bedrock classifier always
// falls back to the keyword classifier when the model call fails.
func New(ctx context.Context, cfg config.ClassifierConfig, log *zap.Logger) (Classifier, error) {
	keyword := Instrument(NewKeywordClassifier())
	switch strings.ToLower(cfg.Provider) {
	case "", "keyword":
		return keyword, nil
	case "bedrock":
		bedrock, err := NewBedrockClassifierFromConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create bedrock classifier: %w", err)
		}
		return WithFallback(Instrument(bedrock), keyword, log), nil
	}
	return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
}

type instrumented struct {
	Classifier
}

// Instrument records the latency and outcome of every call to c.
func Instrument(c Classifier) Classifier {
	return instrumented{c}
}

func (i instrumented) Classify(ctx context.Context, text string) (Result, error) {
	start := time.Now()
	res, err := i.Classifier.Classify(ctx, text)
	metrics.RecordClassification(i.Name(), time.Since(start), err)
	return res, err
}

type fallback struct {
	primary   Classifier
	secondary Classifier
	log       *zap.Logger
}

// WithFallback returns a classifier that asks primary first and secondary
// when primary fails.
func WithFallback(primary, secondary Classifier, log *zap.Logger) Classifier {
	return &fallback{primary: primary, secondary: secondary, log: log}
}

func (f *fallback) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

func (f *fallback) Classify(ctx context.Context, text string) (Result, error) {
	res, err := f.primary.Classify(ctx, text)
	if err == nil {
		return res, nil
	}
	f.log.Warn("classifier failed, falling back",
		zap.String("classifier", f.primary.Name()),
		zap.String("fallback", f.secondary.Name()),
		zap.Error(err))
	return f.secondary.Classify(ctx, text)
}

// normalize maps free-form labels onto the closed enumerations. Anything
// unrecognised, including "N/A", becomes General/Low.
func normalize(category, urgency, summary, text string) Result {
	res := Result{
		Category: domain.CategoryGeneral,
		Urgency:  domain.UrgencyLow,
		Summary:  strings.TrimSpace(summary),
	}
	if c, ok := domain.ParseCategory(category); ok {
		res.Category = c
	}
	if u, ok := domain.ParseUrgency(urgency); ok {
		res.Urgency = u
	}
	if res.Summary == "" {
		res.Summary = Summarize(text)
	}
	return res
}

const maxSummaryLen = 120

// Summarize returns the first sentence of text, shortened to fit the
// dashboard column.
func Summarize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		text = text[:i+1]
	}
	runes := []rune(text)
	if len(runes) > maxSummaryLen {
		text = strings.TrimSpace(string(runes[:maxSummaryLen-3])) + "..."
	}
	return text
}
