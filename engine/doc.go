// Package engine opens SQLite databases through the pure-Go modernc.org/sqlite
// driver and registers scalar SQL functions that convert pgvecto.rs wire
// payloads between their text and binary forms. It lets wire values captured
// from a server be staged and inspected locally.
package engine
