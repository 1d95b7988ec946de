// Package permission defines the closed set of application roles, role sets
// encoded as small bitmasks, and the per-operation permission table used by the
// role gate.
//
// # Operation table
//
// Access is enumerated per operation rather than derived from a numeric rank, so
// each gate's required set can be audited on its own:
//
//	Read         ADMIN, DIRETOR, ANALISTA, INSPETOR
//	Create       ADMIN, DIRETOR, ANALISTA
//	Edit         ADMIN, DIRETOR
//	Delete       ADMIN
//	ManageUsers  ADMIN
//	AdminArea    ADMIN
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import goSession, jwt, or session.
package permission
