// Package collection provides a record store on top of a pgvecto.rs enabled
// database. A collection is a table named collection_<name> holding records
// with a UUID, free text, JSON metadata and a fixed-width embedding. Records
// can be inserted, searched by distance, counted and deleted.
//
// The embedding column is written in the vector text form, so the same
// client runs against SQLite (see the engine package) for local staging and
// tests; distance search needs the server-side operators.
package collection
