// Package session persists server-side session rows keyed by credential token.
//
// A row is valid iff it exists and its ExpiresAt is after the current time.
// Stores never evaluate validity themselves: they return what is stored and the
// caller compares ExpiresAt with its clock. Expiry is lazy; the only bulk
// removal is [Store.SweepExpired].
//
// # Backends
//
//   - [SQLiteStore] joins sessions to users in one query and relies on the
//     users foreign key to block deleting users that own sessions.
//   - [RedisStore] keeps one hash per token plus a sorted expiry index and runs
//     every multi-key mutation as a Lua script.
//   - [MemoryStore] is a mutex-guarded map for tests and single-process use.
//
// # Concurrency
//
// Delete is authoritative. Renew on a missing row returns [ErrNotFound] and
// never recreates it. SweepExpired re-checks expiry at delete time, so a row
// renewed concurrently with a sweep survives.
//
// # What this package must NOT do
//
//   - Cache rows in process memory between calls (MemoryStore aside).
//   - Import goSession or jwt.
package session
