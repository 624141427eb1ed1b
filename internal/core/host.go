package core

import "fmt"

// HostInfo describes the machine the process runs on.
type HostInfo struct {
	OS       string `json:"os"`
	Elevated bool   `json:"elevated"`
}

// Host probes the OS release and the process's privilege level.
func Host() HostInfo {
	return HostInfo{OS: OSVersionString(), Elevated: IsElevated()}
}

// String renders e.g. "Windows 11 (Build 22631), elevated".
func (h HostInfo) String() string {
	if h.Elevated {
		return h.OS + ", elevated"
	}
	return h.OS + ", not elevated"
}

// ntReleases maps NT version numbers to release names, most specific first.
var ntReleases = []struct {
	major, minor, minBuild uint32
	name                   string
}{
	{10, 0, 22000, "Windows 11"},
	{10, 0, 0, "Windows 10"},
	{6, 3, 0, "Windows 8.1"},
	{6, 2, 0, "Windows 8"},
	{6, 1, 0, "Windows 7"},
}

// windowsRelease names an NT version, for example "Windows 10 (Build 19045)".
func windowsRelease(major, minor, build uint32) string {
	name := fmt.Sprintf("Windows %d.%d", major, minor)
	for _, r := range ntReleases {
		if r.major == major && r.minor == minor && build >= r.minBuild {
			name = r.name
			break
		}
	}
	return fmt.Sprintf("%s (Build %d)", name, build)
}
