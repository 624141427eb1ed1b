//go:build windows

package core

import "golang.org/x/sys/windows"

// OSVersionString names the running Windows release. RtlGetNtVersionNumbers
// reports the true version without an application manifest; the high bits of
// its build number are flags.
func OSVersionString() string {
	major, minor, build := windows.RtlGetNtVersionNumbers()
	return windowsRelease(major, minor, build&0xFFFF)
}

// IsElevated reports whether the current process token is elevated
// (running as Administrator). Callers should probe once and cache the result.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
