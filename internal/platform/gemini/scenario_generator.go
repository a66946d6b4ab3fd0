package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/vocadrill/vocadrill-api/internal/config"
	"github.com/vocadrill/vocadrill-api/internal/domain"
	"github.com/vocadrill/vocadrill-api/internal/generation"
)

// defaultPromptTemplate asks for a short scenario embedding every target
// phrase, with a strict JSON reply shape.
const defaultPromptTemplate = `You are helping a Chinese speaker practice English vocabulary.

Write a short, natural practice script (2-4 sentences, or a brief dialogue)
set in this context: {{.Topic}}.

The script MUST naturally use every one of these target phrases, verbatim:
{{range .Phrases}}- {{.}}
{{end}}
Reply with ONLY a JSON object in exactly this shape:
{
  "script": "<the English practice script>",
  "reference": "<a natural Chinese translation of the script>",
  "highlights": [{{range $i, $p := .Phrases}}{{if $i}}, {{end}}"{{$p}}"{{end}}]
}`

// ScenarioGenerator implements the generation.Generator interface using
// Google's Gemini API. It performs a single attempt per call; retry policy
// belongs to the caller.
type ScenarioGenerator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// promptTemplate is the parsed template for creating prompts
	promptTemplate *template.Template

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string

	// timeout bounds each generation request
	timeout time.Duration
}

// Ensure ScenarioGenerator implements generation.Generator
var _ generation.Generator = (*ScenarioGenerator)(nil)

// NewScenarioGenerator creates a scenario generator backed by the Gemini API.
func NewScenarioGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*ScenarioGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("scenario").Parse(defaultPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &ScenarioGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
		timeout:        timeout,
	}, nil
}

// GenerateScenario implements generation.Generator.GenerateScenario.
// It makes one Gemini call with a per-request timeout and classifies
// failures into the generation error taxonomy.
func (g *ScenarioGenerator) GenerateScenario(
	ctx context.Context,
	phrases []string,
	topic string,
) (*domain.Scenario, error) {
	prompt, err := g.createPrompt(phrases, topic)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	g.logger.DebugContext(ctx, "making Gemini API call",
		slog.String("model", g.model),
		slog.Int("phrase_count", len(phrases)),
		slog.String("topic", topic))

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		classified := classifyAPIError(err)
		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.String("error", err.Error()),
			slog.String("model", g.model))
		return nil, classified
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: scenario blocked by safety filters", generation.ErrContentBlocked)
	}

	scenario, err := parseScenario([]byte(resp.Text()), phrases)
	if err != nil {
		g.logger.WarnContext(ctx, "failed to parse Gemini response",
			slog.String("error", err.Error()))
		return nil, err
	}

	g.logger.DebugContext(ctx, "scenario generated",
		slog.Int("script_length", len(scenario.Script)),
		slog.Int("highlight_count", len(scenario.Highlights)))
	return scenario, nil
}

// createPrompt renders the prompt template for the given phrases and topic.
func (g *ScenarioGenerator) createPrompt(phrases []string, topic string) (string, error) {
	if len(phrases) == 0 {
		return "", ErrNoTargetPhrases
	}
	for _, p := range phrases {
		if strings.TrimSpace(p) == "" {
			return "", ErrNoTargetPhrases
		}
	}
	if strings.TrimSpace(topic) == "" {
		topic = "everyday conversation"
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, promptData{Phrases: phrases, Topic: topic}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// parseScenario decodes a JSON response payload into a validated scenario.
// Missing highlights fall back to the requested phrases.
func parseScenario(payload []byte, phrases []string) (*domain.Scenario, error) {
	var schema scenarioSchema
	if err := json.Unmarshal(payload, &schema); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	highlights := schema.Highlights
	if len(highlights) == 0 {
		highlights = phrases
	}

	scenario, err := domain.NewScenario(schema.Script, schema.Reference, highlights)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}
	return scenario, nil
}

// classifyAPIError maps a Gemini client error into the generation taxonomy.
// Auth rejections are permanent; rate limits, server errors, and transport
// failures are transient.
func classifyAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return fmt.Errorf("%w: %v", generation.ErrAuthFailure, err)
		case apiErr.Code == 429 || apiErr.Code >= 500:
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		case apiErr.Code >= 400:
			return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
		}
	}

	// Timeouts, connection resets, and anything unclassified: worth a retry.
	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}
