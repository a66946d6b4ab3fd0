// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces: corpus items, users, and the persisted generated-content cache.
package postgres
