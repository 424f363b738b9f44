// Package stringpool provides a content-addressed byte-string interner.
//
// A Pool stores each distinct byte string exactly once in a single
// contiguous arena and returns a small stable Handle for it. Handles stay
// valid across arena growth and dereference to unchanged bytes for the
// lifetime of the pool. Pattern-database loaders use this to deduplicate
// the literal substrings and parsed field values they see while loading,
// then freeze the pool to a minimal memory footprint before the read-heavy
// matching phase.
//
// # Quick Start
//
//	pool := stringpool.New()
//	defer pool.Destroy()
//
//	h1, _ := pool.AddString("Mozilla")
//	h2, _ := pool.AddString("Mozilla") // deduplicated: h2 == h1
//
//	s, _ := pool.GetString(h1) // "Mozilla"
//
//	pool.Freeze() // drop the dedup index, compact the arena
//
// # Lifecycle
//
// A pool moves through three phases:
//
//   - Building: Add deduplicates through a 32-bucket hash index.
//   - Frozen: the index is released and the arena compacted; Add still
//     works but appends unconditionally without deduplication.
//   - Closed: Destroy released the arena; all handles are invalid.
//
// Freeze is irreversible. The Frozen trade-off deliberately favors a
// minimal footprint over dedup in the read-mostly phase.
//
// # Concurrency
//
// A Pool performs no internal synchronization. Writes (Add, Freeze,
// Destroy) must be externally serialized; concurrent reads (Get, Owns) are
// safe with each other but never with a write.
//
// # Persistence
//
// The snapshot package serializes pools to a compressed, checksummed
// binary format, and the blobstore package moves snapshots to local disk,
// S3 or MinIO.
package stringpool
