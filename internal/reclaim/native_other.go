//go:build !windows

package reclaim

import "runtime/debug"

// trimSelf returns freed heap pages to the OS, the closest equivalent of
// releasing the own working set.
func trimSelf() Outcome {
	debug.FreeOSMemory()
	return trimmed()
}

func trimProcess(int32) Outcome {
	return skipped(ReasonUnsupported)
}
