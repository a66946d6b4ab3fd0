// Package store defines the persistence interfaces consumed by the
// application core: corpus items, users, and the persisted content cache.
// Implementations live under internal/platform.
package store
