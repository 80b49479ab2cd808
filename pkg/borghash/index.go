package borghash

import "fmt"

// Index is the hash table: it owns the bucket store, tracks the live entry
// count, and orchestrates Set/Delete/resize. The zero value is not usable;
// construct one with Init or Read.
//
// An *Index is not safe for concurrent use. []byte values returned by Get
// and the iterator alias the index's internal buffer and are valid only
// until the next mutating call on the same *Index.
type Index struct {
	bs *bucketStore

	numEntries int
	keySize    int
	valueSize  int

	upper int // resize-up threshold, recomputed whenever numBuckets changes
	lower int // resize-down threshold, recomputed whenever numBuckets changes

	closed bool
}

// Init creates a fresh, empty index with fitSize(capacity) buckets: the
// smallest Size Ladder value >= capacity, or the top value if capacity
// exceeds it.
func Init(capacity, keySize, valueSize int) (*Index, error) {
	if !validKeySize(keySize) {
		return nil, fmt.Errorf("%w: key size %d outside [%d,%d]", ErrFormat, keySize, minKeySize, maxKeySize)
	}

	if !validValueSize(valueSize) {
		return nil, fmt.Errorf("%w: value size %d outside [%d,%d]", ErrFormat, valueSize, minValueSize, maxValueSize)
	}

	if capacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", ErrAlloc, capacity)
	}

	numBuckets := fitSize(capacity)

	ix := &Index{
		bs:        newBucketStore(numBuckets, keySize, valueSize),
		keySize:   keySize,
		valueSize: valueSize,
	}
	ix.refreshLimits()

	return ix, nil
}

// refreshLimits recomputes upper/lower from the current bucket count.
func (ix *Index) refreshLimits() {
	ix.upper = upperLimit(ix.bs.numSlots)
	ix.lower = lowerLimit(ix.bs.numSlots)
}

// Close releases the index's resources. Further use of a closed Index
// returns ErrClosed from mutating operations; Get continues to report
// "not found" rather than erroring, since Get never fails.
func (ix *Index) Close() error {
	ix.closed = true
	ix.bs = nil

	return nil
}

// Len returns the number of live (occupied) entries.
func (ix *Index) Len() int {
	return ix.numEntries
}

// NumBuckets returns the current bucket count (always a Size Ladder
// value).
func (ix *Index) NumBuckets() int {
	if ix.bs == nil {
		return 0
	}

	return ix.bs.numSlots
}

// KeySize and ValueSize return the fixed widths configured for this index.
func (ix *Index) KeySize() int   { return ix.keySize }
func (ix *Index) ValueSize() int { return ix.valueSize }

// Size returns the exact on-disk size in bytes this index would occupy if
// written now: the 18-byte header plus the bucket region.
func (ix *Index) Size() int64 {
	return int64(headerSize) + int64(ix.bs.numSlots)*int64(ix.bs.slotSize)
}

func (ix *Index) checkKey(key []byte) error {
	if len(key) != ix.keySize {
		return fmt.Errorf("%w: got %d want %d", ErrKeySize, len(key), ix.keySize)
	}

	return nil
}

func (ix *Index) checkValue(value []byte) error {
	if len(value) != ix.valueSize {
		return fmt.Errorf("%w: got %d want %d", ErrValueSize, len(value), ix.valueSize)
	}

	return nil
}

// Get retrieves the value for key. The returned slice aliases the index's
// internal buffer and is valid only until the next mutating call. Get
// never fails: a missing key, a closed index, or a wrong-length key all
// simply report ok=false.
func (ix *Index) Get(key []byte) (value []byte, ok bool) {
	if ix.closed || ix.bs == nil || len(key) != ix.keySize {
		return nil, false
	}

	res := lookup(ix.bs, key)
	if !res.found {
		return nil, false
	}

	return ix.bs.value(res.slot), true
}

// Set inserts or overwrites the value for key. Overwriting an existing key
// leaves Len unchanged. Inserting a new key may trigger a resize-up when
// doing so would push the table's entry count past upper_limit. Apart from
// ErrClosed and wrong-size arguments (ErrKeySize, ErrValueSize), only a
// resize can fail (ErrAlloc), and on failure the table is left unchanged.
func (ix *Index) Set(key, value []byte) error {
	if ix.closed {
		return ErrClosed
	}

	if err := ix.checkKey(key); err != nil {
		return err
	}

	if err := ix.checkValue(value); err != nil {
		return err
	}

	res := lookup(ix.bs, key)
	if res.found {
		copy(ix.bs.value(res.slot), value)
		return nil
	}

	hint := res.hint

	if ix.numEntries+1 > ix.upper {
		if err := ix.resize(growSize(ix.bs.numSlots)); err != nil {
			return err
		}
		// The hint from before the resize refers to the old bucket store;
		// recompute it against the new one.
		hint = lookup(ix.bs, key).hint
	}

	idx := hint
	for ix.bs.isOccupied(idx) {
		idx++
		if idx >= ix.bs.numSlots {
			idx = 0
		}
	}

	ix.bs.put(idx, key, value)
	ix.numEntries++

	return nil
}

// Delete removes key from the index. Deleting an absent key is a no-op
// success (idempotent). Deleting a key may trigger a resize-down when
// doing so would drop the table's entry count below lower_limit. Apart from
// ErrClosed and a wrong-size key (ErrKeySize), only a resize can fail
// (ErrAlloc), and on failure the table is left unchanged
// (the delete itself has already taken effect).
func (ix *Index) Delete(key []byte) error {
	if ix.closed {
		return ErrClosed
	}

	if err := ix.checkKey(key); err != nil {
		return err
	}

	res := lookup(ix.bs, key)
	if !res.found {
		return nil
	}

	ix.bs.setState(res.slot, stateDeleted)
	ix.numEntries--

	if ix.numEntries < ix.lower {
		if err := ix.resize(shrinkSize(ix.bs.numSlots)); err != nil {
			return err
		}
	}

	return nil
}
