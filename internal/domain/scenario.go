package domain

import (
	"errors"
	"strings"
)

// Scenario-specific validation errors
var (
	// ErrScenarioScriptEmpty is returned when a scenario has no practice script.
	ErrScenarioScriptEmpty = errors.New("scenario script cannot be empty")

	// ErrScenarioNoTargets is returned when a scenario targets no phrases.
	ErrScenarioNoTargets = errors.New("scenario must target at least one phrase")
)

// Scenario is a generated practice context for one or more target phrases:
// a short script (sentence or dialogue) that embeds the phrases, a reference
// translation, and the list of target phrases highlighted in the script.
type Scenario struct {
	Script     string   `json:"script"`
	Reference  string   `json:"reference"`
	Highlights []string `json:"highlights"`
}

// NewScenario creates a scenario from generator output.
// Returns an error if validation fails.
func NewScenario(script, reference string, highlights []string) (*Scenario, error) {
	s := &Scenario{
		Script:     script,
		Reference:  reference,
		Highlights: highlights,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks if the Scenario has valid data.
func (s *Scenario) Validate() error {
	if strings.TrimSpace(s.Script) == "" {
		return ErrScenarioScriptEmpty
	}

	if len(s.Highlights) == 0 {
		return ErrScenarioNoTargets
	}

	return nil
}
