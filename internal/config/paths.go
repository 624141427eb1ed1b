package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Category identifies one class of disk junk.
type Category int

const (
	SystemTemp Category = iota
	ChromeCache
	ChromeCookies
	EdgeCache
	EdgeCookies
	FirefoxCache
	FirefoxCookies
)

// categoryInfo holds the stable ID and description for each category.
var categoryInfo = []struct {
	id          string
	description string
}{
	SystemTemp:     {"system-temp", "System temporary files"},
	ChromeCache:    {"chrome-cache", "Google Chrome browser cache"},
	ChromeCookies:  {"chrome-cookies", "Google Chrome cookies"},
	EdgeCache:      {"edge-cache", "Microsoft Edge browser cache"},
	EdgeCookies:    {"edge-cookies", "Microsoft Edge cookies"},
	FirefoxCache:   {"firefox-cache", "Mozilla Firefox browser cache"},
	FirefoxCookies: {"firefox-cookies", "Mozilla Firefox cookies"},
}

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{SystemTemp, ChromeCache, ChromeCookies, EdgeCache, EdgeCookies, FirefoxCache, FirefoxCookies}
}

// String returns the category's stable ID (e.g. "chrome-cache").
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryInfo) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryInfo[c].id
}

// Description returns a human-readable label.
func (c Category) Description() string {
	if c < 0 || int(c) >= len(categoryInfo) {
		return ""
	}
	return categoryInfo[c].description
}

// IsCookie reports whether the category resolves to a single cookie file.
func (c Category) IsCookie() bool {
	return c == ChromeCookies || c == EdgeCookies || c == FirefoxCookies
}

// ParseCategory resolves a category ID, case-insensitively.
func ParseCategory(id string) (Category, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, c := range AllCategories() {
		if c.String() == id {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", id)
}

// ─── Directories ─────────────────────────────────────────────────────────────

// Dirs are the per-user base directories locations are resolved against.
type Dirs struct {
	// Temp is the user's temporary directory (%TEMP%).
	Temp string

	// LocalAppData is %LOCALAPPDATA%.
	LocalAppData string

	// RoamingAppData is %APPDATA%.
	RoamingAppData string
}

// DefaultDirs reads the base directories from the environment. On non-Windows
// hosts the user cache and config directories stand in for the AppData roots.
func DefaultDirs() Dirs {
	return Dirs{
		Temp:           os.TempDir(),
		LocalAppData:   localAppData(),
		RoamingAppData: appData(),
	}
}

// localAppData returns the local app data directory.
func localAppData() string {
	if p := os.Getenv("LOCALAPPDATA"); p != "" {
		return p
	}
	dir, _ := os.UserCacheDir()
	return dir
}

// appData returns the roaming app data directory.
func appData() string {
	if p := os.Getenv("APPDATA"); p != "" {
		return p
	}
	dir, _ := os.UserConfigDir()
	return dir
}

// ─── Locations ───────────────────────────────────────────────────────────────

// Kind distinguishes directory locations from single cookie files.
type Kind int

const (
	KindDirectory Kind = iota
	KindCookieFile
)

// Candidate is one possible cookie file path. Glob candidates are patterns
// expanded at lookup time.
type Candidate struct {
	Path string
	Glob bool
}

// Location is the resolved on-disk rule for a category.
type Location struct {
	Category Category
	Kind     Kind

	// Path is the root directory for KindDirectory.
	Path string

	// Candidates are checked in order for KindCookieFile; the first that
	// exists wins.
	Candidates []Candidate
}

func chromeProfile(d Dirs) string {
	return filepath.Join(d.LocalAppData, "Google", "Chrome", "User Data", "Default")
}

func edgeProfile(d Dirs) string {
	return filepath.Join(d.LocalAppData, "Microsoft", "Edge", "User Data", "Default")
}

// chromiumCookies lists the network-isolated cookie store (Chromium 96+)
// before the legacy profile-root location.
func chromiumCookies(profile string) []Candidate {
	return []Candidate{
		{Path: filepath.Join(profile, "Network", "Cookies")},
		{Path: filepath.Join(profile, "Cookies")},
	}
}

// Resolve maps a category to its location. It does not touch the filesystem.
// A location whose base directory is unknown has no Path and no Candidates.
func Resolve(d Dirs, c Category) Location {
	loc := Location{Category: c, Kind: KindDirectory}
	if c.IsCookie() {
		loc.Kind = KindCookieFile
	}
	if baseDir(d, c) == "" {
		return loc
	}

	switch c {
	case SystemTemp:
		loc.Path = d.Temp
	case ChromeCache:
		loc.Path = filepath.Join(chromeProfile(d), "Cache")
	case EdgeCache:
		loc.Path = filepath.Join(edgeProfile(d), "Cache")
	case FirefoxCache:
		// Local profiles hold only cache2, startupCache and thumbnails.
		loc.Path = filepath.Join(d.LocalAppData, "Mozilla", "Firefox", "Profiles")
	case ChromeCookies:
		loc.Candidates = chromiumCookies(chromeProfile(d))
	case EdgeCookies:
		loc.Candidates = chromiumCookies(edgeProfile(d))
	case FirefoxCookies:
		profiles := filepath.Join(d.RoamingAppData, "Mozilla", "Firefox", "Profiles")
		loc.Candidates = []Candidate{
			{Path: filepath.Join(profiles, "*.default-release", "cookies.sqlite"), Glob: true},
			{Path: filepath.Join(profiles, "*", "cookies.sqlite"), Glob: true},
		}
	}

	return loc
}

func baseDir(d Dirs, c Category) string {
	switch c {
	case SystemTemp:
		return d.Temp
	case FirefoxCookies:
		return d.RoamingAppData
	}
	return d.LocalAppData
}

// GetNeverDeletePaths returns paths that must never be deleted even if a
// misconfigured environment resolves a category onto them.
func GetNeverDeletePaths() []string {
	w := winDir()
	sd := systemDrive()
	paths := []string{
		w,
		filepath.Join(w, "System32"),
		filepath.Join(w, "SysWOW64"),
		filepath.Join(sd, "Users"),
		filepath.Join(sd, "Program Files"),
		filepath.Join(sd, "Program Files (x86)"),
		filepath.Join(sd, "ProgramData"),
		"/",
		"/home",
		"/usr",
		"/etc",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
	}
	return paths
}

// IsProtected reports whether path is one of the never-delete roots or empty.
func IsProtected(path string) bool {
	if strings.TrimSpace(path) == "" {
		return true
	}
	clean := strings.ToLower(filepath.Clean(path))
	for _, p := range GetNeverDeletePaths() {
		if clean == strings.ToLower(filepath.Clean(p)) {
			return true
		}
	}
	return false
}

// winDir returns the Windows directory (e.g., C:\Windows).
// Falls back to C:\Windows only if %WINDIR% is not set.
func winDir() string {
	if w := os.Getenv("WINDIR"); w != "" {
		return w
	}
	return `C:\Windows`
}

// systemDrive returns the system drive letter with backslash (e.g., C:\).
// Falls back to C:\ only if %SYSTEMDRIVE% is not set.
func systemDrive() string {
	if d := os.Getenv("SYSTEMDRIVE"); d != "" {
		return d + `\`
	}
	return `C:\`
}
