// Package password hashes and verifies user passwords with bcrypt, the format
// of existing user rows ($2a$/$2b$/$2y$).
//
// [Hasher] writes at one configured cost and verifies hashes of any cost.
// [Hasher.NeedsUpgrade] reports rows written below that cost so callers can
// rehash them after a successful login.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords. Callers supply plaintext and receive hashes.
//   - Import any other goSession package.
//   - Log plaintext passwords.
package password
