// Package middleware adapts goSession.Engine to net/http.
//
// # Middleware
//
//   - [Guard] runs the session guard and stores the Identity in the request context.
//   - [RequireRoles] and [RequireOperation] gate on the identity's role.
//   - [RedirectIfAuthenticated] bounces logged-in clients off the login pages.
//
// # Architecture boundaries
//
// This package translates Outcomes into cookies, redirects and error
// responses. It does NOT decide anything itself: every decision is delegated
// to the Engine.
//
// # What this package must NOT do
//
//   - Parse or create credentials directly (delegates to Engine).
//   - Access the session store.
package middleware
