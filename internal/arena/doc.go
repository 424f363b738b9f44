// Package arena provides the contiguous growable byte buffer backing a
// string pool.
//
// The buffer is append-only: allocations advance a high-water mark and are
// never individually freed. Growth reallocates the backing storage and
// copies all previously written bytes forward, so an offset handed out by
// Alloc dereferences to the same bytes for the lifetime of the buffer.
// Offsets are the unit of reference; callers must never retain the byte
// slices returned by Slice or Bytes across an Alloc, Compact or Release.
//
// # Concurrency Model
//
// Buffer performs no internal synchronization. A single writer may
// interleave Alloc/Compact/Release with reads; concurrent readers are safe
// only while no write is in flight.
package arena
