// Package internal documents the gatherly server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, response envelope, and routing
// - domain: business logic and domain models (users, events, memberships)
// - storage: database access and repositories (pgx + Postgres)
// - auth, apperr, config, metrics, sanitize: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
