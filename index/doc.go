// Package index builds the options document that configures a pgvecto.rs
// vector index. An Option tree (Flat, Hnsw or Ivf plus an optional
// Quantization and thread count) dumps to an ordered Document, renders to
// TOML and is embedded in a dollar-quoted CREATE INDEX statement.
// Parse reads such a document back into an Option.
package index
