// Package simplelessons provides a reusable library for owner-scoped
// management of educational lessons grouped into sequenced modules, with
// pluggable record-store backends.
//
// It exposes a single Service interface covering lesson and module CRUD,
// tolerant identifier resolution, lesson sequencing (suggested ordering and
// interactive reordering with optimistic updates and rollback), and a
// cross-owner public listing with a best-effort view counter. Record stores
// (memory, Postgres) live under subpackages, as do session providers.
//
// Ownership
//
// Every operation except the public listing and the view counter derives the
// caller from an injected SessionProvider and only ever touches records
// whose ownerId matches. A record owned by someone else is reported as not
// found, identical to a record that does not exist.
package simplelessons
