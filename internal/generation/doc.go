// Package generation defines the boundary between the application core and
// the external AI service that produces practice scenarios, plus the retry
// and request-deduplication policies shared by every call site.
package generation
