package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrNoTargetPhrases is returned when generation is requested without
	// any target phrases.
	ErrNoTargetPhrases = errors.New("target phrases cannot be empty")
)
