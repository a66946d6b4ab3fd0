package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/vocadrill/vocadrill-api/internal/domain"
)

// MockGenerator implements generation.Generator for testing.
type MockGenerator struct {
	// GenerateScenarioFn overrides the default behavior when set.
	GenerateScenarioFn func(ctx context.Context, phrases []string, topic string) (*domain.Scenario, error)

	// Err is returned by the default behavior when set.
	Err error

	// Call tracking for verification
	mu          sync.Mutex
	calls       int
	callsPerKey map[string]int
}

// GenerateScenario implements the generation.Generator interface.
// The default behavior echoes the request back as a scenario.
func (m *MockGenerator) GenerateScenario(
	ctx context.Context,
	phrases []string,
	topic string,
) (*domain.Scenario, error) {
	m.mu.Lock()
	if m.callsPerKey == nil {
		m.callsPerKey = make(map[string]int)
	}
	m.calls++
	m.callsPerKey[trackingKey(phrases, topic)]++
	m.mu.Unlock()

	if m.GenerateScenarioFn != nil {
		return m.GenerateScenarioFn(ctx, phrases, topic)
	}

	if m.Err != nil {
		return nil, m.Err
	}

	return &domain.Scenario{
		Script:     "Practice script about " + topic + ": " + strings.Join(phrases, "; "),
		Reference:  "参考译文",
		Highlights: phrases,
	}, nil
}

// Calls returns the total number of generation calls observed.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// CallsFor returns the number of generation calls observed for the given
// phrases and topic.
func (m *MockGenerator) CallsFor(phrases []string, topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callsPerKey[trackingKey(phrases, topic)]
}

func trackingKey(phrases []string, topic string) string {
	return topic + "|" + strings.Join(phrases, "|")
}
