package snapshot

import (
	"encoding/binary"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType selects the compression algorithm for the data section.
type CompressionType uint8

const (
	// CompressionNone stores the arena uncompressed.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

func (c CompressionType) valid() bool {
	return c <= CompressionZSTD
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Block format: [UncompressedSize uint32][CompressedSize uint32][Data...]
// CompressedSize == 0 means the data is stored uncompressed.
const blockHeaderSize = 8

// compressBlock compresses data and prepends the block header. Data that
// does not compress well (ratio > 0.9) is stored uncompressed.
func compressBlock(data []byte, ctype CompressionType) ([]byte, error) {
	var compressed []byte

	switch ctype {
	case CompressionNone:
	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		buf := make([]byte, bound)
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		// n == 0 means incompressible
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, ErrUnknownCompressor
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		block := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(block[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(block[4:], 0)
		copy(block[blockHeaderSize:], data)
		return block, nil
	}

	block := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(block[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(block[4:], uint32(len(compressed)))
	copy(block[blockHeaderSize:], compressed)
	return block, nil
}

// decompressBlock reverses compressBlock.
func decompressBlock(block []byte, ctype CompressionType) ([]byte, error) {
	if len(block) < blockHeaderSize {
		return nil, ErrInvalidFormat
	}

	uncompressedSize := binary.LittleEndian.Uint32(block[0:])
	compressedSize := binary.LittleEndian.Uint32(block[4:])

	if compressedSize == 0 {
		if uint32(len(block)) < blockHeaderSize+uncompressedSize {
			return nil, ErrInvalidFormat
		}
		return block[blockHeaderSize : blockHeaderSize+uncompressedSize], nil
	}

	if uint32(len(block)) < blockHeaderSize+compressedSize {
		return nil, ErrInvalidFormat
	}
	payload := block[blockHeaderSize : blockHeaderSize+compressedSize]

	switch ctype {
	case CompressionLZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, ErrInvalidFormat
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		out, err := dec.DecodeAll(payload, make([]byte, 0, uncompressedSize))
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, err
		}
		if uint32(len(out)) != uncompressedSize {
			return nil, ErrInvalidFormat
		}
		return out, nil
	default:
		return nil, ErrUnknownCompressor
	}
}
