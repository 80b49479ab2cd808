package borghash

// Hardcoded implementation limits.
//
// These exist to keep key/value sizes within the header's int8 fields and
// to bound the size of a single allocation; they are not tunable.
const (
	// minKeySize is the smallest allowed key length, in bytes.
	minKeySize = 1
	// maxKeySize is the largest allowed key length, in bytes (fits an int8
	// header field and leaves the first 4 bytes addressable for the home
	// slot computation).
	maxKeySize = 127

	// minValueSize is the smallest allowed value length, in bytes. Values
	// must be at least 4 bytes because the first 4 bytes of the value area
	// double as the slot's sentinel/state marker.
	minValueSize = 4
	// maxValueSize is the largest allowed value length, in bytes (fits an
	// int8 header field).
	maxValueSize = 127
)

// validKeySize reports whether n is an allowed key length.
func validKeySize(n int) bool {
	return n >= minKeySize && n <= maxKeySize
}

// validValueSize reports whether n is an allowed value length.
func validValueSize(n int) bool {
	return n >= minValueSize && n <= maxValueSize
}
