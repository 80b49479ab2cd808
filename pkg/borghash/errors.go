package borghash

import "errors"

// Error classification sentinels. Wrapped errors from os/io are not
// reclassified here — callers keep using errors.Is against the stdlib
// sentinels (os.ErrNotExist, etc.) for I/O failures; these sentinels cover
// only the failure classes that are specific to the index format itself.
var (
	// ErrFormat indicates a corrupt or incompatible on-disk file: bad magic,
	// a length mismatch between the header and the actual file size, or key
	// /value sizes outside the allowed range.
	ErrFormat = errors.New("borghash: invalid format")

	// ErrAlloc indicates the requested capacity could not be satisfied.
	// In practice this only fires for a negative capacity (Init, resize);
	// ordinary allocation failures panic the same way they would for any
	// other Go slice allocation.
	ErrAlloc = errors.New("borghash: allocation failed")

	// ErrKeySize indicates a key argument did not match the index's
	// configured key size.
	ErrKeySize = errors.New("borghash: wrong key size")

	// ErrValueSize indicates a value argument did not match the index's
	// configured value size.
	ErrValueSize = errors.New("borghash: wrong value size")

	// ErrClosed indicates an operation on an index that has already been
	// closed.
	ErrClosed = errors.New("borghash: index closed")
)
