// Package jwt issues and verifies the signed session credential.
//
// A credential is an HS256 JWT carrying the user identifier and its own expiry.
// It is never authoritative on its own: the session guard additionally requires a
// live row in the session store.
//
// # Architecture boundaries
//
// The package is pure. It performs no I/O and holds no state beyond its
// immutable [Config]; the wall clock is injected through Config.Now.
package jwt
