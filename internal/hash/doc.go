// Package hash provides the content hashing used by the string pool.
//
// # MurmurHash2
//
// Murmur2 is the dedup digest: a pure function of byte content and length,
// never of storage location, so identical strings always map to the same
// digest no matter when or where they were interned. It processes the input
// in 4-byte little-endian words with a final mix of the 0-3 trailing bytes.
//
// Murmur2 is NOT cryptographically secure and is not stable across
// implementations that pick a different seed. It is only used as a bucket
// selector and a cheap pre-filter before exact byte comparison.
//
// # CRC32-Castagnoli
//
// CRC32C is used for snapshot integrity checks. It is hardware-accelerated
// on x86 (SSE4.2) and ARM (CRC extension) and detects all single-bit,
// double-bit and odd-bit errors plus burst errors up to 32 bits.
package hash
