// Package snapshot provides binary serialization for string pools.
//
// A snapshot captures the pool's arena together with a bitmap of string
// start offsets, so a pool saved mid-build can be reloaded without
// rescanning the arena. The data section can be compressed with LZ4 or
// ZSTD, and every snapshot carries a CRC32C checksum.
//
// Snapshots can be written to local files (atomically, via temp file and
// rename) or to any blobstore.BlobStore implementation.
package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/stringpool"
	"github.com/hupe1980/stringpool/blobstore"
	"github.com/hupe1980/stringpool/internal/hash"
	"github.com/hupe1980/stringpool/resource"
)

// Write serializes a pool to w.
func Write(w io.Writer, p *stringpool.Pool, optFns ...Option) error {
	opts := applyOptions(optFns)

	if !opts.compression.valid() {
		return ErrUnknownCompressor
	}

	data := p.Data()

	block, err := compressBlock(data, opts.compression)
	if err != nil {
		return fmt.Errorf("compress data section: %w", err)
	}

	bm := roaring.New()
	bm.AddMany(p.Offsets())

	offsetsBuf, err := bm.ToBytes()
	if err != nil {
		return fmt.Errorf("serialize offsets: %w", err)
	}

	crc := hash.NewCRC32C()
	_, _ = crc.Write(block)
	_, _ = crc.Write(offsetsBuf)

	header := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: uint8(opts.compression),
		Seed:        p.Seed(),
		Strings:     uint64(p.Len()),
		DataLen:     uint64(len(data)),
		BlockLen:    uint64(len(block)),
		OffsetsLen:  uint64(len(offsetsBuf)),
		Checksum:    crc.Sum32(),
	}
	if p.Phase() == stringpool.PhaseFrozen {
		header.Frozen = 1
	}

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.Write(block); err != nil {
		return fmt.Errorf("write data section: %w", err)
	}
	if _, err := w.Write(offsetsBuf); err != nil {
		return fmt.Errorf("write offsets section: %w", err)
	}

	return nil
}

// Read deserializes a pool from r.
func Read(r io.Reader, optFns ...Option) (*stringpool.Pool, error) {
	opts := applyOptions(optFns)

	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if header.Magic != MagicNumber {
		return nil, ErrInvalidMagic
	}
	if header.Version != Version {
		return nil, ErrInvalidVersion
	}

	ctype := CompressionType(header.Compression)
	if !ctype.valid() {
		return nil, ErrUnknownCompressor
	}

	block := make([]byte, header.BlockLen)
	if _, err := io.ReadFull(r, block); err != nil {
		return nil, fmt.Errorf("read data section: %w", err)
	}

	offsetsBuf := make([]byte, header.OffsetsLen)
	if _, err := io.ReadFull(r, offsetsBuf); err != nil {
		return nil, fmt.Errorf("read offsets section: %w", err)
	}

	crc := hash.NewCRC32C()
	_, _ = crc.Write(block)
	_, _ = crc.Write(offsetsBuf)
	if crc.Sum32() != header.Checksum {
		return nil, ErrChecksumMismatch
	}

	data, err := decompressBlock(block, ctype)
	if err != nil {
		return nil, fmt.Errorf("decompress data section: %w", err)
	}
	if uint64(len(data)) != header.DataLen {
		return nil, ErrInvalidFormat
	}

	poolOpts := append([]stringpool.Option{stringpool.WithSeed(header.Seed)}, opts.poolOpts...)

	if header.Frozen == 1 || opts.frozen {
		return stringpool.FromData(data, poolOpts...)
	}

	bm := roaring.New()
	if err := bm.UnmarshalBinary(offsetsBuf); err != nil {
		return nil, fmt.Errorf("deserialize offsets: %w", err)
	}

	return stringpool.FromDataWithIndex(data, bm.ToArray(), poolOpts...)
}

// Save writes a pool snapshot to path atomically. The snapshot is staged
// in a temp file in the same directory and renamed into place.
func Save(ctx context.Context, path string, p *stringpool.Pool, optFns ...Option) error {
	opts := applyOptions(optFns)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	var w io.Writer = tmp
	if opts.controller != nil {
		w = resource.NewRateLimitedWriter(ctx, w, opts.controller)
	}

	bw := bufio.NewWriter(w)
	if err := Write(bw, p, optFns...); err != nil {
		cleanup()
		return err
	}
	if err := bw.Flush(); err != nil {
		cleanup()
		return err
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return nil
}

// Load reads a pool snapshot from path.
func Load(ctx context.Context, path string, optFns ...Option) (*stringpool.Pool, error) {
	opts := applyOptions(optFns)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if opts.controller != nil {
		r = resource.NewRateLimitedReader(ctx, r, opts.controller)
	}

	return Read(bufio.NewReader(r), optFns...)
}

// SaveTo streams a pool snapshot into a blob store.
func SaveTo(ctx context.Context, store blobstore.BlobStore, name string, p *stringpool.Pool, optFns ...Option) error {
	opts := applyOptions(optFns)

	wb, err := store.Create(ctx, name)
	if err != nil {
		return err
	}

	var w io.Writer = wb
	if opts.controller != nil {
		w = resource.NewRateLimitedWriter(ctx, w, opts.controller)
	}

	if err := Write(w, p, optFns...); err != nil {
		_ = wb.Close()
		return err
	}

	return wb.Close()
}

// LoadFrom reads a pool snapshot from a blob store. Without a controller
// the blob is fetched in a single ranged read; with one, it is streamed
// through the rate limiter.
func LoadFrom(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*stringpool.Pool, error) {
	opts := applyOptions(optFns)

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	if opts.controller != nil {
		r := resource.NewRateLimitedReader(ctx, blobstore.NewReader(ctx, blob), opts.controller)
		return Read(r, optFns...)
	}

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return nil, err
	}

	return Read(bytes.NewReader(data), optFns...)
}

func applyOptions(optFns []Option) options {
	var opts options
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}
