//go:build windows

package process

// isReservedPID reports the System Idle Process (0) and System (4).
func isReservedPID(pid int32) bool {
	return pid == 0 || pid == 4
}
