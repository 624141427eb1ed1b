package clean

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/ramsweep/internal/config"
)

func newDirs(t *testing.T) config.Dirs {
	t.Helper()
	base := t.TempDir()
	return config.Dirs{
		Temp:           filepath.Join(base, "Temp"),
		LocalAppData:   filepath.Join(base, "Local"),
		RoamingAppData: filepath.Join(base, "Roaming"),
	}
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func chromeProfile(d config.Dirs) string {
	return filepath.Join(d.LocalAppData, "Google", "Chrome", "User Data", "Default")
}

// lockingRemove fails for the given paths and deletes everything else.
func lockingRemove(locked ...string) func(string) error {
	set := make(map[string]bool, len(locked))
	for _, p := range locked {
		set[p] = true
	}
	return func(path string) error {
		if set[path] {
			return errors.New("file is being used by another process")
		}
		return os.Remove(path)
	}
}

func TestMeasure_MissingPathIsZero(t *testing.T) {
	c := New(newDirs(t))

	for _, cat := range config.AllCategories() {
		t.Run(cat.String(), func(t *testing.T) {
			u := c.Inspect(cat)
			assert.Zero(t, c.Measure(cat))
			assert.NoError(t, u.Err)
		})
	}
}

func TestMeasure_SumsNestedFiles(t *testing.T) {
	d := newDirs(t)
	writeFile(t, filepath.Join(d.Temp, "a.tmp"), 100)
	writeFile(t, filepath.Join(d.Temp, "nested", "b.tmp"), 250)
	writeFile(t, filepath.Join(d.Temp, "nested", "deeper", "c.tmp"), 50)

	c := New(d)
	u := c.Inspect(config.SystemTemp)

	assert.Equal(t, int64(400), u.Bytes)
	assert.Equal(t, 3, u.Files)
	assert.Equal(t, d.Temp, u.Path)
	assert.Equal(t, int64(400), c.Measure(config.SystemTemp))
}

func TestClean_SkipsLockedFile(t *testing.T) {
	d := newDirs(t)
	cache := filepath.Join(chromeProfile(d), "Cache")
	locked := filepath.Join(cache, "data_1")
	writeFile(t, filepath.Join(cache, "data_0"), 10)
	writeFile(t, locked, 20)
	writeFile(t, filepath.Join(cache, "sub", "f_000001"), 30)

	c := New(d, WithRemove(lockingRemove(locked)))
	res := c.Clean(config.ChromeCache)

	assert.Equal(t, 2, res.FilesCleaned)
	assert.Equal(t, 1, res.FilesSkipped)
	assert.Equal(t, int64(40), res.BytesCleaned)
	assert.Empty(t, res.Error)
	assert.FileExists(t, locked)
	assert.NoFileExists(t, filepath.Join(cache, "data_0"))
}

func TestClean_MissingCategoryIsEmptySuccess(t *testing.T) {
	c := New(newDirs(t))

	res := c.Clean(config.EdgeCache)

	assert.Zero(t, res.FilesCleaned)
	assert.Empty(t, res.Error)
	assert.Equal(t, "edge-cache", res.ID)
}

func TestClean_ProtectedRootFailsCategory(t *testing.T) {
	called := false
	c := New(config.Dirs{Temp: string(filepath.Separator)}, WithRemove(func(string) error {
		called = true
		return nil
	}))

	res := c.Clean(config.SystemTemp)

	assert.NotEmpty(t, res.Error)
	assert.False(t, called)
}

// unreadableDir creates dir with no permissions and restores them at cleanup.
func unreadableDir(t *testing.T, dir string) {
	t.Helper()
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for this user")
	}
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.Chmod(dir, 0))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })
}

func TestClean_UnreadableRootFailsCategory(t *testing.T) {
	d := newDirs(t)
	unreadableDir(t, d.Temp)

	res := New(d).Clean(config.SystemTemp)

	assert.NotEmpty(t, res.Error)
	assert.Zero(t, res.FilesCleaned)
}

func TestClean_UnreadableSubdirIsSkipped(t *testing.T) {
	d := newDirs(t)
	writeFile(t, filepath.Join(d.Temp, "a.tmp"), 10)
	unreadableDir(t, filepath.Join(d.Temp, "locked"))

	res := New(d).Clean(config.SystemTemp)

	assert.Empty(t, res.Error)
	assert.Equal(t, 1, res.FilesCleaned)
}

func TestCookies_NewPathWins(t *testing.T) {
	d := newDirs(t)
	newPath := filepath.Join(chromeProfile(d), "Network", "Cookies")
	legacy := filepath.Join(chromeProfile(d), "Cookies")
	writeFile(t, newPath, 64)
	writeFile(t, legacy, 8)

	c := New(d)

	u := c.Inspect(config.ChromeCookies)
	assert.Equal(t, int64(64), u.Bytes)
	assert.Equal(t, newPath, u.Path)

	res := c.Clean(config.ChromeCookies)
	assert.Equal(t, 1, res.FilesCleaned)
	assert.Equal(t, int64(64), res.BytesCleaned)
	assert.NoFileExists(t, newPath)
	assert.FileExists(t, legacy)
}

func TestCookies_LegacyFallback(t *testing.T) {
	d := newDirs(t)
	legacy := filepath.Join(d.LocalAppData, "Microsoft", "Edge", "User Data", "Default", "Cookies")
	writeFile(t, legacy, 12)

	c := New(d)

	assert.Equal(t, int64(12), c.Measure(config.EdgeCookies))
	res := c.Clean(config.EdgeCookies)
	assert.Equal(t, 1, res.FilesCleaned)
	assert.NoFileExists(t, legacy)
}

func TestCookies_AbsentIsZero(t *testing.T) {
	c := New(newDirs(t))

	assert.Zero(t, c.Measure(config.ChromeCookies))
	res := c.Clean(config.ChromeCookies)
	assert.Zero(t, res.FilesCleaned)
	assert.Empty(t, res.Error)
}

func TestCookies_LockedFileReportsError(t *testing.T) {
	d := newDirs(t)
	path := filepath.Join(chromeProfile(d), "Network", "Cookies")
	writeFile(t, path, 5)

	c := New(d, WithRemove(lockingRemove(path)))
	res := c.Clean(config.ChromeCookies)

	assert.NotEmpty(t, res.Error)
	assert.Zero(t, res.FilesCleaned)
	assert.FileExists(t, path)
}

func TestCookies_FirefoxPrefersDefaultRelease(t *testing.T) {
	d := newDirs(t)
	profiles := filepath.Join(d.RoamingAppData, "Mozilla", "Firefox", "Profiles")
	writeFile(t, filepath.Join(profiles, "aaaa.old", "cookies.sqlite"), 3)
	release := filepath.Join(profiles, "zzzz.default-release", "cookies.sqlite")
	writeFile(t, release, 7)

	c := New(d)
	u := c.Inspect(config.FirefoxCookies)

	assert.Equal(t, release, u.Path)
	assert.Equal(t, int64(7), u.Bytes)
}

func TestFirefoxCache_MeasuresLocalProfiles(t *testing.T) {
	d := newDirs(t)
	profile := filepath.Join(d.LocalAppData, "Mozilla", "Firefox", "Profiles", "abcd.default-release")
	writeFile(t, filepath.Join(profile, "cache2", "entries", "E1"), 1000)
	writeFile(t, filepath.Join(profile, "startupCache", "s.bin"), 24)

	c := New(d)

	assert.Equal(t, int64(1024), c.Measure(config.FirefoxCache))
}
