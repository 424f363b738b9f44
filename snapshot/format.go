package snapshot

import "errors"

const (
	// MagicNumber identifies pool snapshot files (ASCII: "SPL1").
	MagicNumber = 0x53504C31
	// Version is the current snapshot format version (v1.0.0).
	Version = 0x00010000
)

var (
	ErrInvalidMagic      = errors.New("invalid magic number")
	ErrInvalidVersion    = errors.New("unsupported version")
	ErrInvalidFormat     = errors.New("malformed snapshot")
	ErrChecksumMismatch  = errors.New("checksum mismatch")
	ErrUnknownCompressor = errors.New("unknown compression type")
)

// FileHeader is the fixed-size header at the start of every snapshot.
// All fields are little-endian.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	Compression uint8 // CompressionType
	Frozen      uint8 // 1 if the pool was frozen when saved
	Padding1    [2]byte
	Seed        uint32 // hash seed the pool was built with
	Strings     uint64 // number of distinct strings
	DataLen     uint64 // uncompressed arena length in bytes
	BlockLen    uint64 // compressed data section length in bytes
	OffsetsLen  uint64 // serialized offset bitmap length in bytes
	Checksum    uint32 // CRC32C of the data and offsets sections
	Padding2    [4]byte
	Reserved    [16]byte
}

// headerSize is the encoded size of FileHeader.
const headerSize = 72
