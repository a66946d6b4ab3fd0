package generation

import (
	"context"

	"github.com/vocadrill/vocadrill-api/internal/domain"
)

// Generator defines the interface for producing practice scenarios from a
// set of target phrases. This interface serves as a boundary between the
// application core and external AI/LLM services.
type Generator interface {
	// GenerateScenario creates a practice scenario embedding the given
	// target phrases under the given topic. Implementations enforce a
	// per-request timeout and classify failures using this package's
	// sentinel errors.
	GenerateScenario(ctx context.Context, phrases []string, topic string) (*domain.Scenario, error)
}
