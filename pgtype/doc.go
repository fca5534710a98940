// Package pgtype binds the vector codecs to the type identifiers of a live
// database. A Registry is a lookup table of entries keyed by OID and wire
// format; Discover fills one from the server's pg_type catalog.
package pgtype
