package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"

	"github.com/care4u/backend/internal/domain/entities"
	"github.com/care4u/backend/internal/domain/providers"
	"github.com/care4u/backend/pkg/config"
)

const defaultModel = "gpt-4o-mini"

// ChatCompleter is the subset of the go-openai client used here.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client implements providers.SymptomAnalyzer on top of a chat completion model.
type Client struct {
	chat    ChatCompleter
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

var _ providers.SymptomAnalyzer = (*Client)(nil)

// NewClient creates a new OpenAI client.
func NewClient(cfg *config.OpenAIConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	oaCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oaCfg.BaseURL = cfg.BaseURL
	}
	oaCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout + 5*time.Second}

	return NewClientWithChat(openai.NewClientWithConfig(oaCfg), cfg), nil
}

// NewClientWithChat builds a Client around any ChatCompleter.
func NewClientWithChat(chat ChatCompleter, cfg *config.OpenAIConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		chat:    chat,
		model:   model,
		timeout: timeout,
		limiter: newLimiter(cfg.RateLimitRPM, cfg.RateLimitBurst),
	}
}

func newLimiter(rpm, burst int) *rate.Limiter {
	if rpm < 0 {
		return nil
	}
	if rpm == 0 {
		rpm = 60
	}
	if burst <= 0 {
		burst = 5
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), burst)
}

// AnalyzeSymptoms asks the model for urgency, steps and hospital/doctor picks.
func (c *Client) AnalyzeSymptoms(ctx context.Context, req providers.SymptomRequest) (*entities.SymptomAnalysis, error) {
	userPrompt, err := buildSymptomUserPrompt(req.Symptoms, req.Hospitals, req.Doctors)
	if err != nil {
		return nil, err
	}

	var out entities.SymptomAnalysis
	if err := c.complete(ctx, "analyze_symptoms", symptomSystemPrompt, userPrompt, symptomAnalysisSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchByVoice asks the model for one spoken paragraph.
func (c *Client) SearchByVoice(ctx context.Context, req providers.VoiceRequest) (*entities.VoiceSearchResult, error) {
	userPrompt, err := buildVoiceUserPrompt(req.SpokenCondition, req.PatientContext, req.Hospitals, req.Doctors)
	if err != nil {
		return nil, err
	}

	var out entities.VoiceSearchResult
	if err := c.complete(ctx, "voice_search", voiceSystemPrompt, userPrompt, voiceResultSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SummarizeCapabilities asks the model to describe one hospital.
func (c *Client) SummarizeCapabilities(ctx context.Context, hospital *entities.Hospital) (*entities.CapabilitySummary, error) {
	if hospital == nil {
		return nil, errors.New("hospital is required")
	}

	var out entities.CapabilitySummary
	if err := c.complete(ctx, "summarize_capabilities", summarySystemPrompt, buildSummaryUserPrompt(hospital), summarySchema, &out); err != nil {
		return nil, err
	}
	out.HospitalID = hospital.ID
	return &out, nil
}

func (c *Client) complete(ctx context.Context, operation, systemPrompt, userPrompt string, schema *jsonschema.Schema, out any) error {
	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			recordOpenAIMetric(ctx, c.model, operation, 0, err)
			return err
		}
		recordOpenAIRateLimitWait(ctx, c.model, time.Since(waitStart))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.2,
		MaxTokens:   900,
	})
	if err != nil {
		recordOpenAIMetric(ctx, c.model, operation, time.Since(start), err)
		return fmt.Errorf("openai %s: %w", operation, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		err := errors.New("openai response missing content")
		recordOpenAIMetric(ctx, c.model, operation, time.Since(start), err)
		return err
	}

	if err := decodeValidated(schema, stripCodeFence(resp.Choices[0].Message.Content), out); err != nil {
		recordOpenAIMetric(ctx, c.model, operation, time.Since(start), err)
		return fmt.Errorf("openai %s: %w", operation, err)
	}

	recordOpenAIMetric(ctx, c.model, operation, time.Since(start), nil)
	return nil
}

type openAIMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
	rateLimitWait   metric.Float64Histogram
}

var (
	openaiMetricsOnce sync.Once
	openaiMetrics     *openAIMetrics
)

func ensureOpenAIMetrics() *openAIMetrics {
	openaiMetricsOnce.Do(func() {
		meter := otel.Meter("github.com/care4u/backend/openai")

		requestCount, err := meter.Int64Counter(
			"ai.openai.request.count",
			metric.WithDescription("Number of OpenAI requests"),
		)
		if err != nil {
			return
		}
		requestDuration, err := meter.Float64Histogram(
			"ai.openai.request.duration",
			metric.WithDescription("OpenAI request duration in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}
		requestErrors, err := meter.Int64Counter(
			"ai.openai.request.errors",
			metric.WithDescription("Number of OpenAI request errors"),
		)
		if err != nil {
			return
		}
		rateLimitWait, err := meter.Float64Histogram(
			"ai.openai.rate_limit.wait",
			metric.WithDescription("Time spent waiting for OpenAI rate limiter in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}

		openaiMetrics = &openAIMetrics{
			requestCount:    requestCount,
			requestDuration: requestDuration,
			requestErrors:   requestErrors,
			rateLimitWait:   rateLimitWait,
		}
	})
	return openaiMetrics
}

func recordOpenAIMetric(ctx context.Context, model, operation string, duration time.Duration, err error) {
	m := ensureOpenAIMetrics()
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.model", model),
		attribute.String("ai.operation", operation),
	)
	m.requestCount.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		m.requestErrors.Add(ctx, 1, attrs)
	}
}

func recordOpenAIRateLimitWait(ctx context.Context, model string, wait time.Duration) {
	m := ensureOpenAIMetrics()
	if m == nil {
		return
	}
	m.rateLimitWait.Record(ctx, float64(wait.Milliseconds()), metric.WithAttributes(
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.model", model),
	))
}
