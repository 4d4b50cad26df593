//go:build !streamxml_debug

package streamxml

// debugf is a no-op by default, mirroring hoxml's HOXML_LOG macro, which
// expands to nothing unless HOXML_DEBUG is defined. Build with
// `-tags streamxml_debug` to get the real trace in debug_trace.go.
func debugf(format string, args ...any) {}
