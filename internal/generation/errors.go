package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when scenario generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate practice scenario")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors (network, 5xx,
	// timeout) that might resolve on retry
	ErrTransientFailure = errors.New("transient error during scenario generation")

	// ErrAuthFailure is returned when the remote service rejects our
	// credentials. Never retried.
	ErrAuthFailure = errors.New("generation service rejected credentials")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// IsRetryable reports whether a generation error is worth retrying.
// Only transient failures qualify; auth failures and malformed or blocked
// responses will not improve on a second attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientFailure)
}
