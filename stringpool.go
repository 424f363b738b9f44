package stringpool

import (
	"bytes"
	"fmt"
	"time"

	"github.com/hupe1980/stringpool/internal/arena"
	"github.com/hupe1980/stringpool/internal/dedup"
	"github.com/hupe1980/stringpool/internal/hash"
)

// Phase is the lifecycle state of a Pool.
type Phase uint8

const (
	// PhaseBuilding is the mutable phase with active deduplication.
	PhaseBuilding Phase = iota
	// PhaseFrozen is the compacted read-mostly phase without an index.
	PhaseFrozen
	// PhaseClosed is the terminal state after Destroy.
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseBuilding:
		return "building"
	case PhaseFrozen:
		return "frozen"
	case PhaseClosed:
		return "closed"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Handle is a stable reference to an interned string: an offset into the
// pool's arena plus the identity of that pool. Handles compare equal iff
// they reference the same bytes of the same pool, and stay valid across
// arena growth until the pool is destroyed. A Handle holds no ownership of
// the arena.
type Handle struct {
	pool *Pool
	off  uint32
}

// Offset returns the handle's arena offset.
func (h Handle) Offset() uint32 { return h.off }

// Stats reports pool usage.
type Stats struct {
	Phase   Phase
	Strings int // strings stored (distinct while building)
	Arena   arena.Stats
}

// Pool is a content-addressed string interner. See the package
// documentation for the lifecycle and concurrency model.
type Pool struct {
	buf     *arena.Buffer
	index   *dedup.Index // nil once frozen
	phase   Phase
	seed    uint32
	count   int
	logger  *Logger
	metrics MetricsCollector
}

// New creates an empty Pool in the Building phase.
func New(opts ...Option) *Pool {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var arenaOpts []arena.Option
	if o.acquirer != nil {
		arenaOpts = append(arenaOpts, arena.WithMemoryAcquirer(o.acquirer))
	}

	return &Pool{
		buf:     arena.New(arenaOpts...),
		index:   dedup.New(),
		seed:    o.seed,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// FromData reconstitutes a Frozen pool around raw arena content, typically
// read from a snapshot. Every string in data must carry its NUL terminator;
// offsets that were valid when the data was written remain valid in the
// returned pool.
func FromData(data []byte, opts ...Option) (*Pool, error) {
	p, err := fromData(data, opts...)
	if err != nil {
		return nil, err
	}
	p.phase = PhaseFrozen
	p.index = nil
	p.count = countStrings(data)
	return p, nil
}

// FromDataWithIndex reconstitutes a Building pool around raw arena content.
// offsets lists the start offset of every distinct string in data; the
// dedup index is rebuilt from them, so subsequent Adds deduplicate against
// the reloaded content.
func FromDataWithIndex(data []byte, offsets []uint32, opts ...Option) (*Pool, error) {
	p, err := fromData(data, opts...)
	if err != nil {
		return nil, err
	}

	for _, off := range offsets {
		key, err := p.buf.Bytes(off)
		if err != nil {
			return nil, fmt.Errorf("%w: offset %d", ErrInvalidHandle, off)
		}
		digest := hash.Murmur2(key, p.seed)
		pr := p.index.Lookup(digest, key, p.lookup)
		if pr.Found() {
			// Duplicate appended after a freeze; the first occurrence wins.
			continue
		}
		p.index.Insert(pr, digest, off)
	}
	p.count = p.index.Len()
	return p, nil
}

func fromData(data []byte, opts ...Option) (*Pool, error) {
	if len(data) > 0 && data[len(data)-1] != 0 {
		return nil, fmt.Errorf("%w: data is not NUL-terminated", ErrInvalidKey)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var arenaOpts []arena.Option
	if o.acquirer != nil {
		arenaOpts = append(arenaOpts, arena.WithMemoryAcquirer(o.acquirer))
	}

	return &Pool{
		buf:     arena.FromBytes(data, arenaOpts...),
		index:   dedup.New(),
		seed:    o.seed,
		logger:  o.logger,
		metrics: o.metrics,
	}, nil
}

func countStrings(data []byte) int {
	return bytes.Count(data, []byte{0})
}

// Add interns key and returns its handle. While building, a key that was
// seen before returns the existing handle without allocating; once frozen,
// Add appends a new copy unconditionally. Any handle Add returns stays
// valid and dereferences to unchanged content until Destroy.
func (p *Pool) Add(key []byte) (Handle, error) {
	start := time.Now()

	h, deduped, err := p.add(key)
	p.metrics.RecordAdd(time.Since(start), deduped, err)

	return h, err
}

func (p *Pool) add(key []byte) (Handle, bool, error) {
	if p.phase == PhaseClosed {
		return Handle{}, false, ErrClosed
	}
	if bytes.IndexByte(key, 0) >= 0 {
		return Handle{}, false, fmt.Errorf("%w: key contains NUL byte", ErrInvalidKey)
	}

	if p.phase == PhaseFrozen {
		off, err := p.store(key)
		if err != nil {
			return Handle{}, false, err
		}
		return Handle{pool: p, off: off}, false, nil
	}

	digest := hash.Murmur2(key, p.seed)
	pr := p.index.Lookup(digest, key, p.lookup)
	if pr.Found() {
		return Handle{pool: p, off: pr.Offset()}, true, nil
	}

	off, err := p.store(key)
	if err != nil {
		return Handle{}, false, err
	}
	p.index.Insert(pr, digest, off)

	return Handle{pool: p, off: off}, false, nil
}

// AddString interns key. See Add.
func (p *Pool) AddString(key string) (Handle, error) {
	return p.Add([]byte(key))
}

// store copies key plus a trailing terminator into the arena.
func (p *Pool) store(key []byte) (uint32, error) {
	size := len(key) + 1
	off, err := p.buf.Alloc(size)
	if err != nil {
		return 0, &ErrAllocation{Size: size, cause: err}
	}
	dst, err := p.buf.Slice(off, size)
	if err != nil {
		return 0, &ErrAllocation{Size: size, cause: err}
	}
	copy(dst, key)
	dst[len(key)] = 0
	p.count++
	return off, nil
}

// lookup resolves index offsets to stored bytes. Index offsets are always
// in range, so errors cannot occur here.
func (p *Pool) lookup(off uint32) []byte {
	b, err := p.buf.Bytes(off)
	if err != nil {
		return nil
	}
	return b
}

// Get dereferences h to the stored bytes. The returned slice aliases the
// arena and must not be modified; it is invalidated by pool writes. Get
// fails with ErrInvalidHandle if h belongs to a different pool or its
// offset is outside the arena's used range, and with ErrClosed after
// Destroy.
func (p *Pool) Get(h Handle) ([]byte, error) {
	if p.phase == PhaseClosed {
		return nil, ErrClosed
	}
	if h.pool != p {
		return nil, fmt.Errorf("%w: handle belongs to a different pool", ErrInvalidHandle)
	}
	b, err := p.buf.Bytes(h.off)
	if err != nil {
		return nil, fmt.Errorf("%w: offset %d", ErrInvalidHandle, h.off)
	}
	return b, nil
}

// GetString dereferences h to a copy of the stored bytes. See Get.
func (p *Pool) GetString(h Handle) (string, error) {
	b, err := p.Get(h)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Owns reports whether h references this pool's current arena storage:
// same pool identity and an offset within the used range.
func (p *Pool) Owns(h Handle) bool {
	return h.pool == p && p.phase != PhaseClosed && int(h.off) < p.buf.Used()
}

// Freeze transitions the pool from Building to Frozen: the dedup index is
// released and the arena is compacted to exactly its used size. Existing
// handles keep dereferencing to unchanged content. Freeze is irreversible;
// calling it on an already frozen pool is a no-op.
func (p *Pool) Freeze() error {
	switch p.phase {
	case PhaseClosed:
		return ErrClosed
	case PhaseFrozen:
		return nil
	}

	start := time.Now()
	before := p.buf.Cap()

	p.index.Release()
	p.index = nil
	p.buf.Compact()
	p.phase = PhaseFrozen

	p.metrics.RecordFreeze(time.Since(start), before-p.buf.Cap())

	p.logger.Debug("pool frozen",
		"strings", p.count,
		"bytes", p.buf.Used(),
	)
	return nil
}

// Destroy releases the index (if still present) and the arena. All handles
// issued by this pool become invalid. Destroy is idempotent.
func (p *Pool) Destroy() {
	if p.phase == PhaseClosed {
		return
	}
	if p.index != nil {
		p.index.Release()
		p.index = nil
	}
	p.buf.Release()
	p.phase = PhaseClosed

	p.logger.Debug("pool destroyed")
}

// Phase returns the pool's lifecycle state.
func (p *Pool) Phase() Phase { return p.phase }

// Seed returns the digest seed.
func (p *Pool) Seed() uint32 { return p.seed }

// Len returns the number of stored strings. While building this equals the
// number of distinct strings added.
func (p *Pool) Len() int { return p.count }

// Size returns the number of arena bytes in use.
func (p *Pool) Size() int { return p.buf.Used() }

// Data returns the used portion of the arena: every stored string with its
// NUL terminator, in insertion order. The slice aliases the arena and must
// be treated as read-only; it is invalidated by pool writes.
func (p *Pool) Data() []byte { return p.buf.Data() }

// Offsets returns the start offset of every stored string in ascending
// order. While building this comes from the index; once frozen it is
// recovered by scanning terminators.
func (p *Pool) Offsets() []uint32 {
	if p.index != nil {
		return p.index.Offsets()
	}

	offs := make([]uint32, 0, p.count)
	data := p.buf.Data()
	off := 0
	for off < len(data) {
		offs = append(offs, uint32(off))
		i := bytes.IndexByte(data[off:], 0)
		if i < 0 {
			break
		}
		off += i + 1
	}
	return offs
}

// Range calls fn for every stored string in offset order, stopping early if
// fn returns false. The byte slice passed to fn aliases the arena.
func (p *Pool) Range(fn func(h Handle, b []byte) bool) {
	for _, off := range p.Offsets() {
		b, err := p.buf.Bytes(off)
		if err != nil {
			return
		}
		if !fn(Handle{pool: p, off: off}, b) {
			return
		}
	}
}

// Stats returns the current pool statistics.
func (p *Pool) Stats() Stats {
	return Stats{
		Phase:   p.phase,
		Strings: p.count,
		Arena:   p.buf.Stats(),
	}
}
