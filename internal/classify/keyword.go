package classify

import (
	"context"
	"regexp"

	"inquirydesk/internal/domain"
)

type categoryRule struct {
	category domain.Category
	pattern  *regexp.Regexp
}

// Rules are checked in order; the category with the most matches wins and
// earlier rules win ties.
var categoryRules = []categoryRule{
	{domain.CategoryTechnical, regexp.MustCompile(`(?i)\b(bugs?|errors?|crash(es|ed|ing)?|broken|not working|doesn'?t work|fail(s|ed|ing|ure)?|exceptions?|outage|time[sd]? ?out|log ?in|sign ?in|password|cannot access|can'?t access)\b`)},
	{domain.CategoryBilling, regexp.MustCompile(`(?i)\b(invoices?|payments?|pay|paid|refunds?|subscriptions?|charged?|charges|billed|billing|receipts?|credit card|card)\b`)},
	{domain.CategorySales, regexp.MustCompile(`(?i)\b(pric(e|es|ing)|plans?|discounts?|buy(ing)?|purchas(e|ing)|quotes?|upgrade|licen[cs]es?|trial|demo)\b`)},
}

var (
	highUrgency   = regexp.MustCompile(`(?i)\b(urgent(ly)?|asap|immediately|critical|emergency|outage|down|blocked|cannot access|can'?t access|charged twice|production)\b`)
	mediumUrgency = regexp.MustCompile(`(?i)\b(soon|problem|issues?|errors?|fail(s|ed|ing)?|refunds?|wrong|incorrect|not working)\b`)
)

// KeywordClassifier is a deterministic classifier that needs no network.
type KeywordClassifier struct{}

// NewKeywordClassifier creates a keyword classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (k *KeywordClassifier) Name() string {
	return "keyword"
}

func (k *KeywordClassifier) Classify(_ context.Context, text string) (Result, error) {
	category := domain.CategoryGeneral
	best := 0
	for _, rule := range categoryRules {
		if n := len(rule.pattern.FindAllStringIndex(text, -1)); n > best {
			category, best = rule.category, n
		}
	}

	urgency := domain.UrgencyLow
	switch {
	case highUrgency.MatchString(text):
		urgency = domain.UrgencyHigh
	case mediumUrgency.MatchString(text):
		urgency = domain.UrgencyMedium
	}

	return Result{
		Category: category,
		Urgency:  urgency,
		Summary:  Summarize(text),
	}, nil
}
