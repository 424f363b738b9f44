// Package dedup implements the hash-bucketed index used to deduplicate
// strings while a pool is building. The index exists only during the build
// phase and is released at freeze.
package dedup

import (
	"bytes"
	"slices"
)

// NumBuckets is the fixed size of the bucket table.
const NumBuckets = 32

// LookupFunc resolves a stored offset to the bytes at that offset.
type LookupFunc func(offset uint32) []byte

// entry is one interned string: its digest, its arena offset and the next
// entry in the bucket chain. Entries are immutable after insertion and are
// exclusively owned by their chain.
type entry struct {
	next   *entry
	digest uint32
	offset uint32
}

// Index maps digests to previously stored strings. Collisions are resolved
// by exact byte comparison against the arena content.
type Index struct {
	buckets [NumBuckets]*entry
	len     int
}

// New creates an empty Index.
func New() *Index {
	return &Index{}
}

// Len returns the number of entries.
func (ix *Index) Len() int { return ix.len }

// Probe is the result of a lookup: either a match, or the position where a
// new entry for the probed key belongs.
type Probe struct {
	match  *entry // non-nil on a dedup hit
	after  *entry // insertion point; nil means bucket head
	bucket uint32
}

// Found reports whether the probe hit an existing entry.
func (p Probe) Found() bool { return p.match != nil }

// Offset returns the arena offset of the matched entry. Only valid when
// Found reports true.
func (p Probe) Offset() uint32 { return p.match.offset }

// Lookup searches the bucket chain for key with the given digest. A match
// requires equal digest and exact byte equality of the stored content; the
// walk stops early once an entry with a strictly smaller digest is seen.
// Chains keep only this local descending order at insertion points, so the
// short-circuit is best-effort, never a correctness requirement.
func (ix *Index) Lookup(digest uint32, key []byte, lookup LookupFunc) Probe {
	p := Probe{bucket: digest % NumBuckets}

	for iter := ix.buckets[p.bucket]; iter != nil; iter = iter.next {
		if iter.digest < digest {
			break
		}
		p.after = iter

		if iter.digest == digest && bytes.Equal(lookup(iter.offset), key) {
			p.match = iter
			return p
		}
	}

	return p
}

// Insert records a new entry at the position carried by a missed probe,
// splicing it after the last entry whose digest is not smaller, or at the
// bucket head. This keeps chains locally descending by digest. The probe
// must come from Lookup with the same digest and must not have found a
// match.
func (ix *Index) Insert(p Probe, digest, offset uint32) {
	e := &entry{digest: digest, offset: offset}

	if p.after != nil {
		e.next = p.after.next
		p.after.next = e
	} else {
		e.next = ix.buckets[p.bucket]
		ix.buckets[p.bucket] = e
	}

	ix.len++
}

// Offsets returns the arena offsets of all entries in ascending order of
// offset, which is insertion order.
func (ix *Index) Offsets() []uint32 {
	offs := make([]uint32, 0, ix.len)
	for i := range ix.buckets {
		for iter := ix.buckets[i]; iter != nil; iter = iter.next {
			offs = append(offs, iter.offset)
		}
	}
	slices.Sort(offs)
	return offs
}

// Release tears down all chains with an iterative walk, unlinking entries
// so long collision chains do not linger as a single reachable list.
func (ix *Index) Release() {
	for i := range ix.buckets {
		iter := ix.buckets[i]
		for iter != nil {
			next := iter.next
			iter.next = nil
			iter = next
		}
		ix.buckets[i] = nil
	}
	ix.len = 0
}
