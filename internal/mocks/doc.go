// Package mocks provides hand-written test doubles shared across packages:
// an in-memory cache store, an in-memory corpus store, and a configurable
// scenario generator with call tracking.
package mocks
