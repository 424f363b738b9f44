package arena

import (
	"bytes"
	"errors"
	"math"
)

// MemoryAcquirer is an interface for accounting buffer memory against an
// external budget.
type MemoryAcquirer interface {
	TryAcquireMemory(bytes int64) bool
	ReleaseMemory(bytes int64)
}

var (
	// ErrAllocationFailed is returned when growth cannot acquire memory.
	ErrAllocationFailed = errors.New("arena: allocation failed")
	// ErrOutOfRange is returned when an offset lies outside the used range.
	ErrOutOfRange = errors.New("arena: offset out of range")
)

// ChunkSize is the growth quantum (1 KiB). Capacity is always extended by a
// multiple of it.
const ChunkSize = 1024

// Stats tracks buffer usage.
type Stats struct {
	Used        int    // bytes written
	Capacity    int    // bytes reserved
	Grows       uint64 // reallocations caused by growth
	TotalAllocs uint64 // cumulative allocation count
}

// Buffer is a contiguous growable byte buffer. The zero value is empty and
// ready to use; New is only needed to attach options.
type Buffer struct {
	used     int
	data     []byte // len(data) is the capacity
	grows    uint64
	allocs   uint64
	acquirer MemoryAcquirer
	reserved int64 // bytes accounted to the acquirer
}

// Option is a configuration option for Buffer.
type Option func(*Buffer)

// WithMemoryAcquirer sets the memory acquirer for the buffer. Growth that
// the acquirer rejects surfaces as ErrAllocationFailed.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(b *Buffer) {
		b.acquirer = acquirer
	}
}

// New creates an empty Buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromBytes creates a Buffer wrapping existing content. The buffer starts
// fully used, so all offsets within data are immediately dereferenceable.
// The wrapped bytes are not accounted to any memory acquirer; only
// subsequent growth is.
func FromBytes(data []byte, opts ...Option) *Buffer {
	b := &Buffer{
		used: len(data),
		data: data,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Alloc reserves size contiguous bytes and returns the offset of the
// reservation. The reserved bytes are zero and are written through Slice.
// All previously returned offsets remain valid across growth.
func (b *Buffer) Alloc(size int) (uint32, error) {
	if size < 0 {
		return 0, ErrAllocationFailed
	}
	if int64(b.used)+int64(size) > math.MaxUint32 {
		return 0, ErrAllocationFailed
	}

	if b.used+size > len(b.data) {
		if err := b.grow(size); err != nil {
			return 0, err
		}
	}

	off := uint32(b.used)
	b.used += size
	b.allocs++
	return off, nil
}

// grow extends capacity by at least size bytes, in ChunkSize multiples,
// copying existing content forward.
func (b *Buffer) grow(size int) error {
	// Request-rounded growth with the current capacity as a floor, which
	// keeps amortized append cost O(1).
	step := ChunkSize * (size/ChunkSize + 1)
	if step < len(b.data) {
		step = len(b.data)
	}
	newCap := len(b.data) + step

	if b.acquirer != nil {
		delta := int64(newCap - len(b.data))
		if !b.acquirer.TryAcquireMemory(delta) {
			return ErrAllocationFailed
		}
		b.reserved += delta
	}

	data := make([]byte, newCap)
	copy(data, b.data[:b.used])
	b.data = data
	b.grows++
	return nil
}

// Slice returns the n bytes starting at off. The slice aliases the backing
// storage and is invalidated by the next Alloc, Compact or Release.
func (b *Buffer) Slice(off uint32, n int) ([]byte, error) {
	if n < 0 || int(off) > b.used || int(off)+n > b.used {
		return nil, ErrOutOfRange
	}
	return b.data[off : int(off)+n : int(off)+n], nil
}

// Bytes returns the NUL-terminated byte string starting at off, without the
// terminator. It fails if off is outside the used range or no terminator
// exists before the high-water mark.
func (b *Buffer) Bytes(off uint32) ([]byte, error) {
	if int(off) >= b.used {
		return nil, ErrOutOfRange
	}
	i := bytes.IndexByte(b.data[off:b.used], 0)
	if i < 0 {
		return nil, ErrOutOfRange
	}
	return b.data[off : int(off)+i : int(off)+i], nil
}

// Data returns the used portion of the backing storage.
func (b *Buffer) Data() []byte {
	return b.data[:b.used:b.used]
}

// Used returns the number of bytes written.
func (b *Buffer) Used() int { return b.used }

// Cap returns the reserved capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Compact reallocates the backing storage down to exactly the used size,
// eliminating growth slack. Offsets stay valid.
func (b *Buffer) Compact() {
	if b.used == len(b.data) {
		return
	}
	slack := int64(len(b.data) - b.used)
	data := make([]byte, b.used)
	copy(data, b.data)
	b.data = data
	if b.acquirer != nil {
		if slack > b.reserved {
			slack = b.reserved
		}
		b.acquirer.ReleaseMemory(slack)
		b.reserved -= slack
	}
}

// Release frees the backing storage and resets the buffer to empty. All
// previously returned offsets become invalid.
func (b *Buffer) Release() {
	if b.acquirer != nil && b.reserved > 0 {
		b.acquirer.ReleaseMemory(b.reserved)
		b.reserved = 0
	}
	b.data = nil
	b.used = 0
}

// Stats returns the current buffer statistics.
func (b *Buffer) Stats() Stats {
	return Stats{
		Used:        b.used,
		Capacity:    len(b.data),
		Grows:       b.grows,
		TotalAllocs: b.allocs,
	}
}
