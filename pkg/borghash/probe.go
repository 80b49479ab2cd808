package borghash

import "encoding/binary"

// homeSlot computes a key's ideal position: the first 4 bytes of the key,
// read little-endian, modulo the bucket count. Keys are pre-randomized
// content hashes supplied by the caller, so no further hashing is applied.
func homeSlot(key []byte, numBuckets int) int {
	h := binary.LittleEndian.Uint32(key[:4])
	return int(h) % numBuckets
}

// lookupResult is the outcome of a probe.
type lookupResult struct {
	slot  int  // the slot containing the key, if found
	found bool // whether the key was found
	hint  int  // insertion hint: first tombstone seen, else the terminating EMPTY slot
}

// lookup implements linear probing with tombstone handling and
// opportunistic compaction.
//
// It walks slots starting at the key's home slot. An EMPTY slot terminates
// the probe: the key is absent. A DELETED slot (tombstone) is skipped but
// remembered — if the key is later found past a tombstone, the entry is
// relocated into the first tombstone seen, shortening future probes for
// this key. A full wrap without encountering EMPTY returns not-found
// (cannot happen while load stays at or below maxLoad, but the loop must
// still terminate).
func lookup(bs *bucketStore, key []byte) lookupResult {
	numBuckets := bs.numSlots
	start := homeSlot(key, numBuckets)
	firstTombstone := -1
	idx := start

	for {
		switch {
		case bs.isEmpty(idx):
			hint := idx
			if firstTombstone != -1 {
				hint = firstTombstone
			}

			return lookupResult{found: false, hint: hint}

		case bs.isDeleted(idx):
			if firstTombstone == -1 {
				firstTombstone = idx
			}

		default: // occupied
			if keyMatches(bs, idx, key) {
				if firstTombstone != -1 {
					bs.move(firstTombstone, idx)
					idx = firstTombstone
				}

				return lookupResult{slot: idx, found: true}
			}
		}

		idx++
		if idx >= numBuckets {
			idx = 0
		}

		if idx == start {
			// Wrapped all the way around without finding EMPTY: the table
			// is pathologically full. Terminate rather than loop forever.
			hint := idx
			if firstTombstone != -1 {
				hint = firstTombstone
			}

			return lookupResult{found: false, hint: hint}
		}
	}
}

func keyMatches(bs *bucketStore, idx int, key []byte) bool {
	stored := bs.key(idx)

	if len(stored) != len(key) {
		return false
	}

	for i := range stored {
		if stored[i] != key[i] {
			return false
		}
	}

	return true
}
