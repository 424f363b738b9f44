package testutil

import (
	"bytes"
	"testing"

	"github.com/hupe1980/stringpool/internal/dedup"
	"github.com/hupe1980/stringpool/internal/hash"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)

	if !bytes.Equal(a.Key(16), b.Key(16)) {
		t.Error("same seed must produce same keys")
	}

	a.Reset()
	c := NewRNG(42)
	if !bytes.Equal(a.Key(16), c.Key(16)) {
		t.Error("Reset must restart the sequence")
	}
}

func TestRNG_Keys(t *testing.T) {
	rng := NewRNG(1)

	keys := rng.Keys(100, 8)
	if len(keys) != 100 {
		t.Fatalf("expected 100 keys, got %d", len(keys))
	}

	seen := make(map[string]struct{})
	for _, key := range keys {
		if len(key) != 8 {
			t.Fatalf("expected key length 8, got %d", len(key))
		}
		if bytes.IndexByte(key, 0) >= 0 {
			t.Fatal("keys must be NUL-free")
		}
		if _, ok := seen[string(key)]; ok {
			t.Fatalf("duplicate key %q", key)
		}
		seen[string(key)] = struct{}{}
	}
}

func TestRNG_BucketKeys(t *testing.T) {
	rng := NewRNG(7)

	keys := rng.BucketKeys(20, 13, hash.DefaultSeed)
	if len(keys) != 20 {
		t.Fatalf("expected 20 keys, got %d", len(keys))
	}
	for _, key := range keys {
		if got := hash.Murmur2(key, hash.DefaultSeed) % dedup.NumBuckets; got != 13 {
			t.Errorf("key %q hashes to bucket %d, want 13", key, got)
		}
	}
}

func TestRNG_UserAgents(t *testing.T) {
	rng := NewRNG(3)

	agents := rng.UserAgents(10)
	if len(agents) != 10 {
		t.Fatalf("expected 10 agents, got %d", len(agents))
	}
	for _, ua := range agents {
		if !bytes.HasPrefix(ua, []byte("Mozilla/5.0")) {
			t.Errorf("unexpected agent %q", ua)
		}
	}
}
