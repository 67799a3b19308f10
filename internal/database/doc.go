// Package database provides SQLite-based storage for scholarscan.
//
// The ProfileDB stores:
//   - faculty profiles, keyed by profile URL
//   - the run status of each named crawler
//
// Profiles edited by a user are marked user_updated and are never
// overwritten by later crawls.
//
// SQLite is used through modernc.org/sqlite, a CGO-free driver, so the
// database is a single file and the binary cross-compiles.
package database
