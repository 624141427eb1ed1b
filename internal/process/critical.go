package process

import (
	"strings"
)

// criticalProcesses are image names whose working sets are never trimmed:
// core OS processes, the shell, and security agents.
var criticalProcesses = map[string]struct{}{
	// Windows
	"idle":                {},
	"system":              {},
	"registry":            {},
	"smss":                {},
	"csrss":               {},
	"wininit":             {},
	"services":            {},
	"lsass":               {},
	"svchost":             {},
	"fontdrvhost":         {},
	"memory compression":  {},
	"spoolsv":             {},
	"winlogon":            {},
	"dwm":                 {},
	"audiodg":             {},
	"explorer":            {},
	"taskmgr":             {},
	"searchui":            {},
	"shellexperiencehost": {},
	"lockapp":             {},
	"msmpeng":             {}, // Defender
	"nissrv":              {}, // Defender network inspection

	// Unix
	"init":         {},
	"systemd":      {},
	"kthreadd":     {},
	"launchd":      {},
	"kernel_task":  {},
	"windowserver": {},
}

// normalizeName lowercases an image name and strips a trailing ".exe" so
// "Explorer.EXE" and "explorer" compare equal.
func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(n, ".exe")
}

// IsCritical reports whether name is in the critical process set.
func IsCritical(name string) bool {
	_, ok := criticalProcesses[normalizeName(name)]
	return ok
}

// CriticalNames returns the critical set's names.
func CriticalNames() []string {
	names := make([]string, 0, len(criticalProcesses))
	for n := range criticalProcesses {
		names = append(names, n)
	}
	return names
}
