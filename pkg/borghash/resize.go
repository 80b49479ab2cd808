package borghash

// resize rebuilds the index at newCapacity (rounded up to the nearest
// Size Ladder value via fitSize). Occupied slots are walked in storage
// order and reinserted into the new bucket store. On success the new
// store and thresholds are swapped into ix; on failure ix is left
// untouched.
//
// The only failure mode modeled here is an invalid capacity; ordinary
// allocation failures panic like any other Go allocation, matching the
// fact that Go's runtime (unlike C's malloc) does not hand back a
// recoverable error for that case.
func (ix *Index) resize(newCapacity int) error {
	if newCapacity < 0 {
		return ErrAlloc
	}

	newBS := newBucketStore(fitSize(newCapacity), ix.keySize, ix.valueSize)

	for i := 0; i < ix.bs.numSlots; i++ {
		if !ix.bs.isOccupied(i) {
			continue
		}

		insertFresh(newBS, ix.bs.key(i), ix.bs.value(i))
	}

	ix.bs = newBS
	ix.refreshLimits()

	return nil
}

// insertFresh inserts (key, value) into a newly built bucket store that is
// known not to already contain key and is never full enough to require a
// nested resize (the caller sized it via fitSize up front). This is the
// rebuild-time counterpart of Index.Set's insert path, without the
// resize-trigger check.
func insertFresh(bs *bucketStore, key, value []byte) {
	res := lookup(bs, key)

	idx := res.hint
	for bs.isOccupied(idx) {
		idx++
		if idx >= bs.numSlots {
			idx = 0
		}
	}

	bs.put(idx, key, value)
}
