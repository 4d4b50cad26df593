//go:build streamxml_debug

package streamxml

import "fmt"

// debugf traces parser internals when built with -tags streamxml_debug,
// the Go equivalent of hoxml_log under HOXML_DEBUG: printf-style, no
// logging facade, compiled out entirely in normal builds.
func debugf(format string, args ...any) {
	fmt.Printf("   [streamxml] "+format+"\n", args...)
}
