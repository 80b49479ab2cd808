package borghash

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// On-disk format constants. The header is 18 bytes packed, little-endian,
// followed by the bucket region — interleaved per-bucket records
// regardless of the in-memory layout choice.
const (
	magic      = "BORG_IDX"
	magicSize  = 8
	headerSize = magicSize + 4 + 4 + 1 + 1 // magic + num_entries + num_buckets + key_size + value_size

	offMagic      = 0
	offNumEntries = offMagic + magicSize
	offNumBuckets = offNumEntries + 4
	offKeySize    = offNumBuckets + 4
	offValueSize  = offKeySize + 1
)

// Read loads an index from path. It validates the magic, the header
// length, the total file length, and the key/value sizes; any mismatch
// returns an error wrapping ErrFormat. num_entries is trusted verbatim
// from the header rather than recomputed by scanning buckets, so a
// corrupted count is surfaced via Len rather than silently repaired.
func Read(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("borghash: reading %s: %w", path, err)
	}

	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: file %s shorter than header (%d bytes)", ErrFormat, path, len(data))
	}

	if !bytes.Equal(data[offMagic:offMagic+magicSize], []byte(magic)) {
		return nil, fmt.Errorf("%w: %s: bad magic", ErrFormat, path)
	}

	numEntries := int(int32(binary.LittleEndian.Uint32(data[offNumEntries:])))
	numBuckets := int(int32(binary.LittleEndian.Uint32(data[offNumBuckets:])))
	keySize := int(int8(data[offKeySize]))
	valueSize := int(int8(data[offValueSize]))

	if !validKeySize(keySize) {
		return nil, fmt.Errorf("%w: %s: key size %d outside [%d,%d]", ErrFormat, path, keySize, minKeySize, maxKeySize)
	}

	if !validValueSize(valueSize) {
		return nil, fmt.Errorf("%w: %s: value size %d outside [%d,%d]", ErrFormat, path, valueSize, minValueSize, maxValueSize)
	}

	if numBuckets < 0 {
		return nil, fmt.Errorf("%w: %s: negative num_buckets %d", ErrFormat, path, numBuckets)
	}

	slotSize := keySize + valueSize
	expected := headerSize + numBuckets*slotSize

	if len(data) != expected {
		return nil, fmt.Errorf("%w: %s: expected %d bytes, got %d", ErrFormat, path, expected, len(data))
	}

	bucketRegion := data[headerSize:expected]

	ix := &Index{
		bs:         bucketStoreFromBytes(bucketRegion, numBuckets, keySize, valueSize),
		keySize:    keySize,
		valueSize:  valueSize,
		numEntries: numEntries,
	}
	ix.refreshLimits()

	return ix, nil
}

// encode serializes the full file contents (header + bucket region).
func (ix *Index) encode() []byte {
	buf := make([]byte, headerSize+len(ix.bs.buf))

	copy(buf[offMagic:], magic)
	binary.LittleEndian.PutUint32(buf[offNumEntries:], uint32(int32(ix.numEntries)))
	binary.LittleEndian.PutUint32(buf[offNumBuckets:], uint32(int32(ix.bs.numSlots)))
	buf[offKeySize] = byte(ix.keySize)
	buf[offValueSize] = byte(ix.valueSize)

	copy(buf[headerSize:], ix.bs.buf)

	return buf
}

// Write writes the index to path. A failure may leave the file partially
// written; atomically replacing the previous file (write to a temp path,
// then rename) is the caller's responsibility unless WriteAtomic is used
// instead.
func (ix *Index) Write(path string) error {
	if ix.closed {
		return ErrClosed
	}

	f, err := os.Create(path) //nolint:gosec // path is caller-supplied by design
	if err != nil {
		return fmt.Errorf("borghash: creating %s: %w", path, err)
	}

	_, writeErr := f.Write(ix.encode())
	closeErr := f.Close()

	if writeErr != nil {
		return fmt.Errorf("borghash: writing %s: %w", path, writeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("borghash: closing %s: %w", path, closeErr)
	}

	return nil
}

// WriteAtomic writes the index to path via a temp-file-plus-rename swap,
// so a crash mid-write can never leave a half-written file at path.
func (ix *Index) WriteAtomic(path string) error {
	if ix.closed {
		return ErrClosed
	}

	err := atomic.WriteFile(path, bytes.NewReader(ix.encode()))
	if err != nil {
		return fmt.Errorf("borghash: atomic write %s: %w", path, err)
	}

	return nil
}
