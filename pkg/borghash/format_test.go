package borghash

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Property 1: round-trip persistence.
func TestRoundTripPersistence(t *testing.T) {
	ix, err := Init(10, 32, 12)
	require.NoError(t, err)

	for i := uint32(0); i < 50; i++ {
		require.NoError(t, ix.Set(keyOf32(i), valueOf12(i)))
	}

	path := filepath.Join(t.TempDir(), "index.idx")
	require.NoError(t, ix.Write(path))

	ix2, err := Read(path)
	require.NoError(t, err)

	require.Equal(t, ix.Len(), ix2.Len())

	for i := uint32(0); i < 50; i++ {
		got, ok := ix2.Get(keyOf32(i))
		require.True(t, ok)
		require.Equal(t, valueOf12(i), got)
	}
}

func TestWriteAtomicRoundTrip(t *testing.T) {
	ix, err := Init(10, 32, 12)
	require.NoError(t, err)
	require.NoError(t, ix.Set(keyOf32(1), valueOf12(1)))

	path := filepath.Join(t.TempDir(), "index.idx")
	require.NoError(t, ix.WriteAtomic(path))

	ix2, err := Read(path)
	require.NoError(t, err)

	got, ok := ix2.Get(keyOf32(1))
	require.True(t, ok)
	require.Equal(t, valueOf12(1), got)
}

// S4: exact file size for 3 entries at capacity 1031.
func TestScenarioS4ExactFileSize(t *testing.T) {
	ix, err := Init(1, 32, 12)
	require.NoError(t, err)
	require.Equal(t, 1031, ix.NumBuckets())

	for i := uint32(0); i < 3; i++ {
		require.NoError(t, ix.Set(keyOf32(i), valueOf12(i)))
	}

	path := filepath.Join(t.TempDir(), "index.idx")
	require.NoError(t, ix.Write(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.EqualValues(t, 18+1031*(32+12), info.Size())
	require.EqualValues(t, 18+1031*(32+12), ix.Size())

	ix2, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, ix.Len(), ix2.Len())
	require.Equal(t, ix.NumBuckets(), ix2.NumBuckets())
}

// S5: corrupted magic byte.
func TestScenarioS5CorruptMagic(t *testing.T) {
	ix, err := Init(1, 32, 12)
	require.NoError(t, err)
	require.NoError(t, ix.Set(keyOf32(1), valueOf12(1)))

	path := filepath.Join(t.TempDir(), "index.idx")
	require.NoError(t, ix.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[0] = 'X'
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Read(path)
	require.ErrorIs(t, err, ErrFormat)
}

func TestReadRejectsTruncatedFile(t *testing.T) {
	ix, err := Init(1, 32, 12)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "index.idx")
	require.NoError(t, ix.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-1], 0o644))

	_, err = Read(path)
	require.ErrorIs(t, err, ErrFormat)
}

func TestReadRejectsImpossibleKeySize(t *testing.T) {
	ix, err := Init(1, 32, 12)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "index.idx")
	require.NoError(t, ix.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[offKeySize] = 0
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Read(path)
	require.ErrorIs(t, err, ErrFormat)
}

// num_entries is trusted verbatim from the header, never recomputed by
// scanning buckets. A corrupted header count is not "fixed" on load.
func TestReadTrustsHeaderNumEntriesVerbatim(t *testing.T) {
	ix, err := Init(1, 32, 12)
	require.NoError(t, err)
	require.NoError(t, ix.Set(keyOf32(1), valueOf12(1)))
	require.NoError(t, ix.Set(keyOf32(2), valueOf12(2)))

	path := filepath.Join(t.TempDir(), "index.idx")
	require.NoError(t, ix.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	binary.LittleEndian.PutUint32(data[offNumEntries:], 999)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	ix2, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, 999, ix2.Len())

	// Both real entries are still retrievable; only Len() reports the
	// corrupted count.
	_, ok := ix2.Get(keyOf32(1))
	require.True(t, ok)
	_, ok = ix2.Get(keyOf32(2))
	require.True(t, ok)
}

func keyOf32(i uint32) []byte {
	b := make([]byte, 32)
	binary.LittleEndian.PutUint32(b, i)
	return b
}

func valueOf12(i uint32) []byte {
	b := make([]byte, 12)
	binary.LittleEndian.PutUint32(b, i)
	return b
}
