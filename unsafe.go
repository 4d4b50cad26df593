package streamxml

import "unsafe"

// unsafeString performs an _unsafe_ no-copy string allocation from buf.
// https://github.com/golang/go/issues/25484 has more info on this.
// The implementation is roughly taken from strings.Builder's.
//
// Used internally to hand the host a string view over a region of the
// caller-owned scratch buffer without copying it. The region must not be
// mutated while the returned string is in use; the public API contract on
// Parser's observable fields enforces this by invalidating the string at
// the next call to Parse.
func unsafeString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}
