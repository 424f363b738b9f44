package hash

import "encoding/binary"

// DefaultSeed is the seed used for all pool digests.
const DefaultSeed uint32 = 0xf9a025a4

const (
	murmurM = 0x5bd1e995
	murmurR = 24
)

// Murmur2 computes the 32-bit MurmurHash2 digest of data with the given
// seed. The digest depends only on the content and length of data.
func Murmur2(data []byte, seed uint32) uint32 {
	h := seed ^ uint32(len(data))

	for len(data) >= 4 {
		k := binary.LittleEndian.Uint32(data)

		k *= murmurM
		k ^= k >> murmurR
		k *= murmurM

		h *= murmurM
		h ^= k

		data = data[4:]
	}

	switch len(data) {
	case 3:
		h ^= uint32(data[2]) << 16
		fallthrough
	case 2:
		h ^= uint32(data[1]) << 8
		fallthrough
	case 1:
		h ^= uint32(data[0])
		fallthrough
	default:
		h *= murmurM
	}

	h ^= h >> 13
	h *= murmurM
	h ^= h >> 15

	return h
}

// Digest computes the Murmur2 digest of data with DefaultSeed.
func Digest(data []byte) uint32 {
	return Murmur2(data, DefaultSeed)
}
