package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"inquirydesk/internal/config"
)

// InvokeModelAPI is the part of the Bedrock runtime client the classifier
// uses.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

const systemPrompt = `You are an AI assistant that classifies customer inquiries.
Decide the correct values strictly based on the inquiry.
Valid values:
- category: 'Technical', 'Billing', 'Sales', 'General', or 'N/A'
- urgency: 'High', 'Medium', 'Low', or 'N/A'
- summary: one short sentence.

Guidelines:
- If the inquiry is about bugs, errors, or something not working → 'Technical'.
- If it's about invoices, payments, refunds, subscriptions → 'Billing'.
- If it's about pricing, plans, discounts, buying something → 'Sales'.
- Otherwise → 'General'.

Do not always default to 'Technical' or 'High'.
Answer with a single JSON object with the keys "category", "urgency" and "summary" and nothing else.`

const maxOutputTokens = 256

// BedrockClassifier asks a Mistral instruct model on Amazon Bedrock.
type BedrockClassifier struct {
	client      InvokeModelAPI
	modelID     string
	temperature float64
	timeout     time.Duration
}

// NewBedrockClassifier creates a classifier around an existing client.
func NewBedrockClassifier(client InvokeModelAPI, modelID string, temperature float64, timeout time.Duration) *BedrockClassifier {
	return &BedrockClassifier{
		client:      client,
		modelID:     modelID,
		temperature: temperature,
		timeout:     timeout,
	}
}

// NewBedrockClassifierFromConfig loads AWS credentials the default way and
// creates a Bedrock runtime client for the configured region.
func NewBedrockClassifierFromConfig(ctx context.Context, cfg config.ClassifierConfig) (*BedrockClassifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewBedrockClassifier(bedrockruntime.NewFromConfig(awsCfg), cfg.ModelID, cfg.Temperature, cfg.Timeout), nil
}

func (b *BedrockClassifier) Name() string {
	return "bedrock"
}

type mistralRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type mistralResponse struct {
	Outputs []struct {
		Text       string `json:"text"`
		StopReason string `json:"stop_reason"`
	} `json:"outputs"`
}

func (b *BedrockClassifier) Classify(ctx context.Context, text string) (Result, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	body, err := json.Marshal(mistralRequest{
		Prompt:      buildPrompt(text),
		MaxTokens:   maxOutputTokens,
		Temperature: b.temperature,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode model request: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return Result{}, fmt.Errorf("bedrock invoke failed: %w", err)
	}

	return parseModelOutput(out.Body, text)
}

func buildPrompt(text string) string {
	return fmt.Sprintf("<s>[INST] %s\n\nCustomer inquiry: %s [/INST]", systemPrompt, strings.TrimSpace(text))
}

var errNoJSON = errors.New("model output contains no JSON object")

func parseModelOutput(body []byte, text string) (Result, error) {
	var resp mistralResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Result{}, fmt.Errorf("failed to decode model response: %w", err)
	}
	if len(resp.Outputs) == 0 {
		return Result{}, errors.New("model response has no outputs")
	}

	raw := resp.Outputs[0].Text
	start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return Result{}, errNoJSON
	}

	var labels struct {
		Category string `json:"category"`
		Urgency  string `json:"urgency"`
		Summary  string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &labels); err != nil {
		return Result{}, fmt.Errorf("failed to decode classification: %w", err)
	}
	return normalize(labels.Category, labels.Urgency, labels.Summary, text), nil
}
