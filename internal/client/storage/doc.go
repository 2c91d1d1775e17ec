// Package storage persists client state that must survive a restart.
//
// The only durable item is the bearer token: one key in the SQLite
// metadata table. Absence of the key means "logged out". User identity is
// never stored; it is re-resolved from the token on every start.
//
// Open creates (or opens) the database and applies the embedded goose
// migrations. SQLiteTokenStore implements TokenStore on top of it;
// MemoryTokenStore is the non-durable variant for tests and ephemeral runs.
package storage
