package borghash

// hashSizes is the fixed, monotonically increasing sequence of allowed
// bucket counts. Growth starts at roughly 2x per step and slows to about
// 1.1x near the top, to avoid huge jumps in memory use at scale. These
// exact values fix the capacities Init and resize choose; the file format
// itself does not depend on them (Read accepts any bucket count).
var hashSizes = [...]int{
	1031, 2053, 4099, 8209, 16411, 32771, 65537, 131101, 262147, 445649,
	757607, 1287917, 2189459, 3065243, 4291319, 6007867, 8410991,
	11775359, 16485527, 23079703, 27695653, 33234787, 39881729, 47858071,
	57429683, 68915617, 82698751, 99238507, 119086189, 144378011, 157223263,
	173476439, 190253911, 209915011, 230493629, 253169431, 278728861,
	306647623, 337318939, 370742809, 408229973, 449387209, 493428073,
	543105119, 596976533, 657794869, 722676499, 795815791, 874066969,
	962279771, 1057701643, 1164002657, 1280003147, 1407800297, 1548442699,
	1703765389, 1873768367, 2062383853,
}

const (
	// minLoad is the resize-down load factor threshold.
	minLoad = 0.25
	// maxLoad is the resize-up load factor threshold. Never raise this:
	// probe performance collapses past it.
	maxLoad = 0.75
)

// ladderIndex returns the index of the smallest hashSizes entry >= n,
// clamped to the last index if n exceeds every entry.
func ladderIndex(n int) int {
	for i, sz := range hashSizes {
		if sz >= n {
			return i
		}
	}

	return len(hashSizes) - 1
}

// fitSize returns the smallest ladder entry >= n, or the top entry if n
// exceeds it.
func fitSize(n int) int {
	return hashSizes[ladderIndex(n)]
}

// growSize returns the ladder entry one position above fitSize(n), or the
// top entry if fitSize(n) is already the top.
func growSize(n int) int {
	i := ladderIndex(n) + 1
	if i >= len(hashSizes) {
		return hashSizes[len(hashSizes)-1]
	}

	return hashSizes[i]
}

// shrinkSize returns the ladder entry one position below fitSize(n), or the
// bottom entry if fitSize(n) is already the bottom.
func shrinkSize(n int) int {
	i := ladderIndex(n) - 1
	if i < 0 {
		return hashSizes[0]
	}

	return hashSizes[i]
}

// upperLimit computes the resize-up threshold for a table of the given
// bucket count: floor(numBuckets * maxLoad), unless numBuckets is already
// the ladder's maximum, in which case it is numBuckets itself (so a
// maximally-sized table never attempts to grow further).
func upperLimit(numBuckets int) int {
	if numBuckets >= hashSizes[len(hashSizes)-1] {
		return numBuckets
	}

	return int(float64(numBuckets) * maxLoad)
}

// lowerLimit computes the resize-down threshold for a table of the given
// bucket count: floor(numBuckets * minLoad), unless numBuckets is already
// at or below the ladder's minimum, in which case it is 0 (so the smallest
// table never attempts to shrink further).
func lowerLimit(numBuckets int) int {
	if numBuckets <= hashSizes[0] {
		return 0
	}

	return int(float64(numBuckets) * minLoad)
}
