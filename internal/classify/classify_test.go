package classify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"inquirydesk/internal/config"
	"inquirydesk/internal/domain"
)

type mockBedrock struct {
	mock.Mock
}

func (m *mockBedrock) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*bedrockruntime.InvokeModelOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func modelOutput(t *testing.T, text string) *bedrockruntime.InvokeModelOutput {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"outputs": []map[string]string{{"text": text, "stop_reason": "stop"}},
	})
	require.NoError(t, err)
	return &bedrockruntime.InvokeModelOutput{Body: body}
}

func TestKeywordClassifier(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category domain.Category
		urgency  domain.Urgency
	}{
		{"bug report", "The app shows an error every time I open settings.", domain.CategoryTechnical, domain.UrgencyMedium},
		{"outage", "Your dashboard is down and we are blocked. Please fix ASAP!", domain.CategoryGeneral, domain.UrgencyHigh},
		{"double charge", "I was charged twice on my last invoice.", domain.CategoryBilling, domain.UrgencyHigh},
		{"refund", "Could I get a refund for my subscription?", domain.CategoryBilling, domain.UrgencyMedium},
		{"pricing", "What does the team plan cost, and is there a discount for nonprofits?", domain.CategorySales, domain.UrgencyLow},
		{"general", "What are your office hours?", domain.CategoryGeneral, domain.UrgencyLow},
	}

	c := NewKeywordClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.Classify(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.category, res.Category)
			assert.Equal(t, tt.urgency, res.Urgency)
			assert.NotEmpty(t, res.Summary)
		})
	}
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "My export fails.", Summarize("  My export\nfails. It started on Monday."))
	assert.Equal(t, "no punctuation here", Summarize("no punctuation here"))

	long := Summarize(strings.Repeat("word ", 60))
	assert.LessOrEqual(t, len([]rune(long)), maxSummaryLen)
	assert.True(t, strings.HasSuffix(long, "..."))
}

func TestBedrockClassifier(t *testing.T) {
	client := &mockBedrock{}
	client.On("InvokeModel", mock.Anything, mock.MatchedBy(func(in *bedrockruntime.InvokeModelInput) bool {
		var req mistralRequest
		if err := json.Unmarshal(in.Body, &req); err != nil {
			return false
		}
		return *in.ModelId == "mistral.mistral-small-2402-v1:0" &&
			req.Temperature == 0.1 &&
			strings.HasPrefix(req.Prompt, "<s>[INST]") &&
			strings.Contains(req.Prompt, "Customer inquiry: I was billed twice")
	})).Return(modelOutput(t, ` Here you go:
{"category": "Billing", "urgency": "high", "summary": "Customer was billed twice."}`), nil)

	c := NewBedrockClassifier(client, "mistral.mistral-small-2402-v1:0", 0.1, time.Second)
	res, err := c.Classify(context.Background(), "I was billed twice")
	require.NoError(t, err)
	assert.Equal(t, Result{
		Category: domain.CategoryBilling,
		Urgency:  domain.UrgencyHigh,
		Summary:  "Customer was billed twice.",
	}, res)
	client.AssertExpectations(t)
}

func TestParseModelOutputNormalizesNA(t *testing.T) {
	body, err := json.Marshal(map[string]any{
		"outputs": []map[string]string{{"text": `{"category":"N/A","urgency":"N/A","summary":""}`}},
	})
	require.NoError(t, err)

	res, err := parseModelOutput(body, "Hello there. Just saying hi.")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryGeneral, res.Category)
	assert.Equal(t, domain.UrgencyLow, res.Urgency)
	assert.Equal(t, "Hello there.", res.Summary)
}

func TestParseModelOutputErrors(t *testing.T) {
	_, err := parseModelOutput([]byte(`not json`), "x")
	assert.Error(t, err)

	_, err = parseModelOutput([]byte(`{"outputs":[]}`), "x")
	assert.Error(t, err)

	_, err = parseModelOutput([]byte(`{"outputs":[{"text":"I think it's billing"}]}`), "x")
	assert.ErrorIs(t, err, errNoJSON)
}

func TestFallbackUsesSecondaryOnFailure(t *testing.T) {
	client := &mockBedrock{}
	client.On("InvokeModel", mock.Anything, mock.Anything).Return(nil, errors.New("ThrottlingException"))

	c := WithFallback(Instrument(NewBedrockClassifier(client, "model", 0.1, time.Second)), NewKeywordClassifier(), zaptest.NewLogger(t))
	assert.Equal(t, "bedrock+keyword", c.Name())

	res, err := c.Classify(context.Background(), "Please send me a quote for 20 licenses.")
	require.NoError(t, err)
	assert.Equal(t, domain.CategorySales, res.Category)
	client.AssertNumberOfCalls(t, "InvokeModel", 1)
}

func TestNewSelectsProvider(t *testing.T) {
	c, err := New(context.Background(), config.ClassifierConfig{Provider: "keyword"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "keyword", c.Name())

	_, err = New(context.Background(), config.ClassifierConfig{Provider: "oracle"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
