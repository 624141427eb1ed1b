//go:build linux

package reclaim

import (
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

const dropCachesPath = "/proc/sys/vm/drop_caches"

func prepareFlush(logger *slog.Logger) bool {
	if _, err := os.Stat(dropCachesPath); err != nil {
		logger.Debug("drop_caches unavailable", "error", err)
		return false
	}
	return true
}

// flushFileCache writes dirty pages back, then drops the clean page cache.
func flushFileCache() error {
	unix.Sync()
	return os.WriteFile(dropCachesPath, []byte("1"), 0o200)
}
