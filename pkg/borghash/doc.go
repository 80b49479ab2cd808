// Package borghash implements a fixed-schema, open-addressing hash index
// that persists as a single compact file.
//
// Keys and values are fixed-width opaque byte strings (typically a 32-byte
// content hash mapping to a small tuple of uint32s). The index is the
// key-value substrate for a deduplicating backup system: it is traversed
// far more often than it is mutated, so lookups avoid extra allocation and
// borrowed views are returned instead of copies.
//
// # Basic usage
//
//	ix, err := borghash.Init(1000, 32, 12)
//	if err != nil {
//	    // ...
//	}
//	defer ix.Close()
//
//	err = ix.Set(key, value)
//	value, ok := ix.Get(key)
//	err = ix.Delete(key)
//
//	ix.Write("index.db")
//	ix2, err := borghash.Read("index.db")
//
// # Concurrency
//
// An *Index is not safe for concurrent use. Callers must serialize all
// operations on a given index; separate *Index values may be used freely
// from separate goroutines.
//
// # Borrowed views
//
// []byte values returned by Get and by the iterator alias the index's
// internal buffer. They are valid only until the next mutating call
// (Set, Delete) on the same *Index.
package borghash
