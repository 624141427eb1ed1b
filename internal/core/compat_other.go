//go:build !windows

package core

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/host"
)

// OSVersionString returns a human-readable platform string such as
// "ubuntu 24.04 (linux)". Falls back to "unknown" when host info is unavailable.
func OSVersionString() string {
	platform, _, version, err := host.PlatformInformation()
	if err != nil || platform == "" {
		return "unknown"
	}
	info, err := host.Info()
	if err != nil {
		return fmt.Sprintf("%s %s", platform, version)
	}
	return fmt.Sprintf("%s %s (%s)", platform, version, info.OS)
}

// IsElevated reports whether the process runs as root.
func IsElevated() bool {
	return os.Geteuid() == 0
}
