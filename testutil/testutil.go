// Package testutil provides deterministic test data generators for pool
// tests and benchmarks.
package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/stringpool/internal/dedup"
	"github.com/hupe1980/stringpool/internal/hash"
)

// RNG encapsulates a seeded random number generator.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

const keyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 ./;()-_"

// Key generates a random NUL-free key of length n.
func (r *RNG) Key(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := make([]byte, n)
	for i := range key {
		key[i] = keyAlphabet[r.rand.Intn(len(keyAlphabet))]
	}
	return key
}

// Keys generates num distinct random keys of length n. Duplicates from the
// generator are retried, so the result is guaranteed unique.
func (r *RNG) Keys(num, n int) [][]byte {
	seen := make(map[string]struct{}, num)
	keys := make([][]byte, 0, num)

	for len(keys) < num {
		key := r.Key(n)
		if _, ok := seen[string(key)]; ok {
			continue
		}
		seen[string(key)] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// UserAgents generates num synthetic user agent strings. They share long
// common prefixes, which mirrors the workload pools are built for.
func (r *RNG) UserAgents(num int) [][]byte {
	agents := make([][]byte, num)
	for i := range agents {
		agents[i] = fmt.Appendf(nil, "Mozilla/5.0 (X11; Linux x86_64) Gecko/%d Firefox/%d.0", 20100000+r.Intn(10000), r.Intn(200))
	}
	return agents
}

// BucketKeys generates num distinct keys whose digests all fall into the
// given index bucket for the given seed.
func (r *RNG) BucketKeys(num int, bucket, seed uint32) [][]byte {
	keys := make([][]byte, 0, num)
	seen := make(map[string]struct{}, num)

	for len(keys) < num {
		key := r.Key(12)
		if hash.Murmur2(key, seed)%dedup.NumBuckets != bucket {
			continue
		}
		if _, ok := seen[string(key)]; ok {
			continue
		}
		seen[string(key)] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}
