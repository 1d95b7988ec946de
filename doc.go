// Package goSession provides session-based authentication and role gating for
// server-rendered applications.
//
// A login mints an HS256 credential bound to a server-side session row. Every
// guarded request re-checks both the credential and the row, renews the row
// to now + window, and yields an [Outcome]: Continue with an [Identity],
// Redirect to the right login page with a one-shot message, or Error for
// infrastructure failures. Gates built on the [permission] operation table
// run after the guard through [Chain].
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Engine], [Builder], [Config]
// and value types ([Outcome], [Identity], [MetricsSnapshot]). The guard,
// login and logout state machines live in internal/flows; persistence lives
// behind [session.Store] and [account.Repository]. HTTP concerns (cookies,
// form parsing, redirects) belong to the middleware and handler packages.
//
// # What this package must NOT do
//
//   - Touch net/http requests or responses.
//   - Cache sessions in process; expiry is always evaluated against the store.
//   - Import any sub-package that re-imports goSession (no import cycles).
package goSession
