// Package flows contains pure-function orchestrators for the session
// lifecycle: the per-request guard state machine, login and logout.
//
// Each flow function (RunGuard, RunLogin, RunLogout) accepts a typed
// dependency struct and returns a classified result. Mapping results to
// redirects, messages and cookies is the Engine's job.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the credential codec and the session
// and user stores. They do NOT own any of these resources; ownership stays
// with the Engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goSession (to avoid import cycles).
//   - Perform I/O directly. All I/O is mediated through dependency funcs.
package flows
