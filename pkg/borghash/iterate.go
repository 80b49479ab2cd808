package borghash

import "iter"

// nextOccupied returns the index of the first occupied slot at or after
// from, or -1 if none remains. This is the Go counterpart of the original
// implementation's hashindex_next_index.
func (ix *Index) nextOccupied(from int) int {
	for i := from; i < ix.bs.numSlots; i++ {
		if ix.bs.isOccupied(i) {
			return i
		}
	}

	return -1
}

// All returns an iterator over every occupied (key, value) pair in
// storage order. Yielded slices alias the index's internal buffer and are
// only valid until the next mutating call; mutating the index during
// iteration invalidates the iterator — the caller is responsible for
// avoiding that.
func (ix *Index) All() iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		if ix.closed || ix.bs == nil {
			return
		}

		for i := ix.nextOccupied(0); i != -1; i = ix.nextOccupied(i + 1) {
			if !yield(ix.bs.key(i), ix.bs.value(i)) {
				return
			}
		}
	}
}
