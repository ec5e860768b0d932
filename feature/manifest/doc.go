// Package manifest models the pack index (modrinth.index.json).
//
// The index is decoded into typed records with explicit optional fields.
// Fields the decoder does not know about are preserved opaquely and
// re-emitted on persist, so foreign tooling's additions survive a round
// trip. Marshaling uses a fixed key order and 4-space indentation: once an
// index has been persisted in this canonical form, loading and persisting
// it again reproduces the bytes exactly.
//
// Persisting is atomic (write-temp-then-rename); a partial index is never
// visible at the canonical path.
package manifest
