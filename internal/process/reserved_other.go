//go:build !windows

package process

// isReservedPID reports the scheduler (0), init (1) and kthreadd (2).
func isReservedPID(pid int32) bool {
	return pid >= 0 && pid <= 2
}
