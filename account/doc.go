// Package account owns application users: the record shape, persistence and
// the administrative rules applied when users are created, edited or removed.
//
// # Architecture boundaries
//
// Persistence goes through [Repository]. [SQLiteStore] shares its database with
// the session store so the sessions foreign key protects users with live
// sessions from deletion. [MemoryStore] mirrors that rule through an optional
// dependents check.
//
// # What this package must NOT do
//
//   - Issue or validate credentials.
//   - Import goSession or session.
package account
