package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/hupe1980/stringpool"
	"github.com/hupe1980/stringpool/blobstore"
	"github.com/hupe1980/stringpool/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPool(t *testing.T, keys ...string) *stringpool.Pool {
	t.Helper()

	p := stringpool.New()
	for _, key := range keys {
		_, err := p.AddString(key)
		require.NoError(t, err)
	}
	return p
}

func TestWriteRead_Building(t *testing.T) {
	p := buildPool(t, "Mozilla", "Chrome", "Safari")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))

	got, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, stringpool.PhaseBuilding, got.Phase())
	assert.Equal(t, 3, got.Len())
	assert.Equal(t, p.Data(), got.Data())

	// The rebuilt index must still deduplicate.
	h1, err := got.AddString("Chrome")
	require.NoError(t, err)
	h2, err := got.AddString("Chrome")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Equal(t, 3, got.Len())
}

func TestWriteRead_Frozen(t *testing.T) {
	p := buildPool(t, "Mozilla", "Chrome")
	require.NoError(t, p.Freeze())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))

	got, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, stringpool.PhaseFrozen, got.Phase())
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, p.Data(), got.Data())
}

func TestWriteRead_WithFrozen(t *testing.T) {
	p := buildPool(t, "Mozilla", "Chrome")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))

	got, err := Read(&buf, WithFrozen())
	require.NoError(t, err)
	assert.Equal(t, stringpool.PhaseFrozen, got.Phase())
}

func TestWriteRead_Compression(t *testing.T) {
	keys := make([]string, 500)
	for i := range keys {
		keys[i] = fmt.Sprintf("Mozilla/5.0 (compatible; Agent-%d)", i)
	}
	p := buildPool(t, keys...)

	for _, ctype := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(fmt.Sprintf("type-%d", ctype), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, p, WithCompression(ctype)))

			got, err := Read(&buf)
			require.NoError(t, err)
			assert.Equal(t, 500, got.Len())
			assert.Equal(t, p.Data(), got.Data())
		})
	}
}

func TestWriteRead_Seed(t *testing.T) {
	p := stringpool.New(stringpool.WithSeed(0xdeadbeef))
	_, err := p.AddString("Mozilla")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), got.Seed())
}

func TestRead_InvalidMagic(t *testing.T) {
	p := buildPool(t, "Mozilla")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))

	data := buf.Bytes()
	data[0] ^= 0xff

	_, err := Read(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestRead_ChecksumMismatch(t *testing.T) {
	p := buildPool(t, "Mozilla", "Chrome")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))

	data := buf.Bytes()
	data[len(data)-1] ^= 0xff

	_, err := Read(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestRead_Truncated(t *testing.T) {
	p := buildPool(t, "Mozilla", "Chrome")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))

	data := buf.Bytes()

	_, err := Read(bytes.NewReader(data[:len(data)-4]))
	assert.Error(t, err)

	_, err = Read(bytes.NewReader(data[:headerSize/2]))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	p := buildPool(t, "Mozilla", "Chrome", "Safari")

	path := filepath.Join(t.TempDir(), "strings.pool")
	require.NoError(t, Save(ctx, path, p, WithCompression(CompressionLZ4)))

	got, err := Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())
	assert.Equal(t, p.Data(), got.Data())
}

func TestSaveLoad_Throttled(t *testing.T) {
	ctx := context.Background()
	p := buildPool(t, "Mozilla", "Chrome")

	rc := resource.NewController(resource.Config{
		IOLimitBytesPerSec: 1 << 20,
	})

	path := filepath.Join(t.TempDir(), "strings.pool")
	require.NoError(t, Save(ctx, path, p, WithController(rc)))

	got, err := Load(ctx, path, WithController(rc))
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestSaveLoad_ThrottledLargerThanBudget(t *testing.T) {
	ctx := context.Background()

	// The arena must exceed one second's IO budget so the data section
	// cannot be admitted by the limiter in a single wait.
	keys := make([]string, 16000)
	for i := range keys {
		keys[i] = fmt.Sprintf("Mozilla/5.0 (X11; Linux x86_64; rv:%d.0) Gecko/20100101 Firefox/%d.0", i, i%200)
	}
	p := buildPool(t, keys...)

	limit := int64(1 << 20)
	require.Greater(t, int64(p.Size()), limit)

	path := filepath.Join(t.TempDir(), "strings.pool")

	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: limit})
	require.NoError(t, Save(ctx, path, p, WithController(rc)))

	rc = resource.NewController(resource.Config{IOLimitBytesPerSec: limit})
	got, err := Load(ctx, path, WithController(rc))
	require.NoError(t, err)
	assert.Equal(t, len(keys), got.Len())
	assert.Equal(t, p.Data(), got.Data())
}

func TestSaveToLoadFrom(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	p := buildPool(t, "Mozilla", "Chrome", "Safari")
	require.NoError(t, p.Freeze())

	require.NoError(t, SaveTo(ctx, store, "pools/strings.pool", p, WithCompression(CompressionZSTD)))

	names, err := store.List(ctx, "pools/")
	require.NoError(t, err)
	assert.Equal(t, []string{"pools/strings.pool"}, names)

	got, err := LoadFrom(ctx, store, "pools/strings.pool")
	require.NoError(t, err)
	assert.Equal(t, stringpool.PhaseFrozen, got.Phase())
	assert.Equal(t, p.Data(), got.Data())
}

func TestLoadFrom_Missing(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := LoadFrom(ctx, store, "missing.pool")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestCompressBlock_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("user agent strings compress well "), 100)

	for _, ctype := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		block, err := compressBlock(data, ctype)
		require.NoError(t, err)

		got, err := decompressBlock(block, ctype)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}

	// Compressed variants must actually shrink repetitive data.
	lz4Block, _ := compressBlock(data, CompressionLZ4)
	assert.Less(t, len(lz4Block), len(data))
}
