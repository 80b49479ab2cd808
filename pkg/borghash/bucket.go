package borghash

import "encoding/binary"

// Bucket state sentinels, stored as the first 4 bytes of a bucket's value
// area (little-endian uint32). Any other value means the bucket is
// occupied by a live (key, value) pair.
const (
	stateEmpty    uint32 = 0xFFFFFFFF
	stateDeleted  uint32 = 0xFFFFFFFE
	sentinelBytes        = 4 // width of the state marker inside the value area
)

// bucketStore is a contiguous byte region holding numBuckets fixed-size
// buckets, laid out as interleaved per-bucket records: keySize key bytes
// immediately followed by valueSize value bytes. This matches the on-disk
// layout exactly, so persistence is a straight byte copy.
type bucketStore struct {
	buf       []byte
	keySize   int
	valueSize int
	slotSize  int
	numSlots  int
}

// newBucketStore allocates a bucket store with every slot marked EMPTY.
func newBucketStore(numSlots, keySize, valueSize int) *bucketStore {
	slotSize := keySize + valueSize
	bs := &bucketStore{
		buf:       make([]byte, numSlots*slotSize),
		keySize:   keySize,
		valueSize: valueSize,
		slotSize:  slotSize,
		numSlots:  numSlots,
	}

	for i := 0; i < numSlots; i++ {
		bs.setState(i, stateEmpty)
	}

	return bs
}

// bucketStoreFromBytes wraps an existing buffer verbatim (used by Read —
// bucket contents, including sentinels, are loaded as-is).
func bucketStoreFromBytes(buf []byte, numSlots, keySize, valueSize int) *bucketStore {
	return &bucketStore{
		buf:       buf,
		keySize:   keySize,
		valueSize: valueSize,
		slotSize:  keySize + valueSize,
		numSlots:  numSlots,
	}
}

// slotOffset returns the byte offset of slot i within buf.
func (bs *bucketStore) slotOffset(i int) int {
	return i * bs.slotSize
}

// key returns the key region of slot i. The returned slice aliases the
// store's buffer.
func (bs *bucketStore) key(i int) []byte {
	off := bs.slotOffset(i)
	return bs.buf[off : off+bs.keySize]
}

// value returns the value region of slot i. The returned slice aliases the
// store's buffer.
func (bs *bucketStore) value(i int) []byte {
	off := bs.slotOffset(i) + bs.keySize
	return bs.buf[off : off+bs.valueSize]
}

// state returns slot i's state: stateEmpty, stateDeleted, or — for any
// other value — the bucket is occupied (the raw uint32 itself has no
// further meaning in that case).
func (bs *bucketStore) state(i int) uint32 {
	off := bs.slotOffset(i) + bs.keySize
	return binary.LittleEndian.Uint32(bs.buf[off : off+sentinelBytes])
}

// setState overwrites slot i's sentinel marker. Used only to mark a slot
// EMPTY (init) or DELETED (delete) — occupying a slot writes the full
// value via put, which implicitly sets the state to whatever the value's
// first 4 bytes are.
func (bs *bucketStore) setState(i int, s uint32) {
	off := bs.slotOffset(i) + bs.keySize
	binary.LittleEndian.PutUint32(bs.buf[off:off+sentinelBytes], s)
}

func (bs *bucketStore) isEmpty(i int) bool {
	return bs.state(i) == stateEmpty
}

func (bs *bucketStore) isDeleted(i int) bool {
	return bs.state(i) == stateDeleted
}

func (bs *bucketStore) isOccupied(i int) bool {
	s := bs.state(i)
	return s != stateEmpty && s != stateDeleted
}

// put writes key and value into slot i. Both must already be exactly
// keySize/valueSize long (callers validate before calling put).
func (bs *bucketStore) put(i int, key, value []byte) {
	copy(bs.key(i), key)
	copy(bs.value(i), value)
}

// move copies slot src's (key, value) into slot dst and marks src DELETED.
// Used by the probe engine's opportunistic tombstone compaction.
func (bs *bucketStore) move(dst, src int) {
	copy(bs.key(dst), bs.key(src))
	copy(bs.value(dst), bs.value(src))
	bs.setState(src, stateDeleted)
}
