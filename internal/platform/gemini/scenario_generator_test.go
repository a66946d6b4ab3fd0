package gemini

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/vocadrill/vocadrill-api/internal/config"
	"github.com/vocadrill/vocadrill-api/internal/generation"
)

func newPromptOnlyGenerator(t *testing.T) *ScenarioGenerator {
	t.Helper()

	tmpl, err := template.New("scenario").Parse(defaultPromptTemplate)
	require.NoError(t, err)
	return &ScenarioGenerator{promptTemplate: tmpl}
}

func TestCreatePrompt(t *testing.T) {
	t.Parallel()

	g := newPromptOnlyGenerator(t)

	prompt, err := g.createPrompt([]string{"break the ice", "hit the road"}, "travel")
	require.NoError(t, err)

	assert.Contains(t, prompt, "travel")
	assert.Contains(t, prompt, "- break the ice")
	assert.Contains(t, prompt, "- hit the road")
	assert.Contains(t, prompt, `"break the ice", "hit the road"`)
}

func TestCreatePromptDefaultsEmptyTopic(t *testing.T) {
	t.Parallel()

	g := newPromptOnlyGenerator(t)

	prompt, err := g.createPrompt([]string{"break the ice"}, "  ")
	require.NoError(t, err)
	assert.Contains(t, prompt, "everyday conversation")
}

func TestCreatePromptRejectsEmptyPhrases(t *testing.T) {
	t.Parallel()

	g := newPromptOnlyGenerator(t)

	_, err := g.createPrompt(nil, "travel")
	assert.ErrorIs(t, err, ErrNoTargetPhrases)

	_, err = g.createPrompt([]string{"ok", "  "}, "travel")
	assert.ErrorIs(t, err, ErrNoTargetPhrases)
}

func TestParseScenario(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"script": "Let's break the ice before we hit the road.",
		"reference": "出发前我们先打破僵局吧。",
		"highlights": ["break the ice", "hit the road"]
	}`)

	scenario, err := parseScenario(payload, []string{"break the ice", "hit the road"})
	require.NoError(t, err)
	assert.Equal(t, "Let's break the ice before we hit the road.", scenario.Script)
	assert.Equal(t, []string{"break the ice", "hit the road"}, scenario.Highlights)
}

func TestParseScenarioFallsBackToRequestedPhrases(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"script": "Some script.", "reference": "参考"}`)

	scenario, err := parseScenario(payload, []string{"break the ice"})
	require.NoError(t, err)
	assert.Equal(t, []string{"break the ice"}, scenario.Highlights)
}

func TestParseScenarioRejectsMalformedPayloads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `scenario: yes`},
		{name: "empty script", payload: `{"script": "", "reference": "参考"}`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := parseScenario([]byte(tc.payload), []string{"break the ice"})
			assert.ErrorIs(t, err, generation.ErrInvalidResponse)
		})
	}
}

func TestClassifyAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		wantIs error
	}{
		{name: "401 is auth failure", err: genai.APIError{Code: 401}, wantIs: generation.ErrAuthFailure},
		{name: "403 is auth failure", err: genai.APIError{Code: 403}, wantIs: generation.ErrAuthFailure},
		{name: "429 is transient", err: genai.APIError{Code: 429}, wantIs: generation.ErrTransientFailure},
		{name: "503 is transient", err: genai.APIError{Code: 503}, wantIs: generation.ErrTransientFailure},
		{name: "400 is permanent", err: genai.APIError{Code: 400}, wantIs: generation.ErrGenerationFailed},
		{name: "transport error is transient", err: errors.New("connection reset"), wantIs: generation.ErrTransientFailure},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.ErrorIs(t, classifyAPIError(tc.err), tc.wantIs)
		})
	}
}

func TestNewScenarioGeneratorValidatesConfig(t *testing.T) {
	t.Parallel()

	valid := config.LLMConfig{
		GeminiAPIKey:          "test-key",
		ModelName:             "gemini-2.0-flash",
		RequestTimeoutSeconds: 30,
	}
	ctx := context.Background()

	_, err := NewScenarioGenerator(ctx, nil, valid)
	assert.Error(t, err, "nil logger is rejected")

	noKey := valid
	noKey.GeminiAPIKey = ""
	_, err = NewScenarioGenerator(ctx, slog.Default(), noKey)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	noModel := valid
	noModel.ModelName = ""
	_, err = NewScenarioGenerator(ctx, slog.Default(), noModel)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
