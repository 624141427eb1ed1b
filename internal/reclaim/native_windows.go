//go:build windows

package reclaim

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sys/windows"
)

// ─── kernel32 Syscalls ───────────────────────────────────────────────────────

var (
	modKernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procK32EmptyWorkingSet     = modKernel32.NewProc("K32EmptyWorkingSet")
	procSetSystemFileCacheSize = modKernel32.NewProc("SetSystemFileCacheSize")
)

const (
	processSetQuota                = 0x0100
	processQueryLimitedInformation = 0x1000

	// minimalCacheSize is the temporary cap applied to the file cache.
	minimalCacheSize = 1 << 20

	// systemManagedSize is (SIZE_T)-1, which returns the limits to the system.
	systemManagedSize = ^uintptr(0)

	seIncreaseQuotaPrivilege = "SeIncreaseQuotaPrivilege"
)

// ─── Working Set ─────────────────────────────────────────────────────────────

// trimSelf uses the current-process pseudo-handle, which needs no closing.
func trimSelf() Outcome {
	return emptyWorkingSet(windows.CurrentProcess())
}

// trimProcess opens pid with the minimum rights EmptyWorkingSet needs. The
// handle is released on every path once opened.
func trimProcess(pid int32) Outcome {
	h, err := windows.OpenProcess(processQueryLimitedInformation|processSetQuota, false, uint32(pid))
	if err != nil {
		if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
			return skipped(ReasonAccessDenied)
		}
		// ERROR_INVALID_PARAMETER: the PID no longer exists.
		return skipped(ReasonExited)
	}
	defer windows.CloseHandle(h)

	return emptyWorkingSet(h)
}

func emptyWorkingSet(h windows.Handle) Outcome {
	ret, _, _ := procK32EmptyWorkingSet.Call(uintptr(h))
	if ret == 0 {
		return skipped(ReasonRejected)
	}
	return trimmed()
}

// ─── File Cache ──────────────────────────────────────────────────────────────

// prepareFlush enables SeIncreaseQuotaPrivilege, which SetSystemFileCacheSize
// requires even for an elevated token. It reports whether flushing is possible.
func prepareFlush(logger *slog.Logger) bool {
	if err := procSetSystemFileCacheSize.Find(); err != nil {
		logger.Debug("SetSystemFileCacheSize unavailable", "error", err)
		return false
	}
	if err := enablePrivilege(seIncreaseQuotaPrivilege); err != nil {
		logger.Debug("failed to enable privilege", "privilege", seIncreaseQuotaPrivilege, "error", err)
		return false
	}
	return true
}

// flushFileCache caps the cache then releases the cap. The release is issued
// even when the cap fails so the limits never stay pinned.
func flushFileCache() error {
	capErr := setFileCacheSize(minimalCacheSize, minimalCacheSize)
	releaseErr := setFileCacheSize(systemManagedSize, systemManagedSize)
	if capErr != nil {
		return capErr
	}
	return releaseErr
}

func setFileCacheSize(minSize, maxSize uintptr) error {
	ret, _, err := procSetSystemFileCacheSize.Call(minSize, maxSize, 0)
	if ret == 0 {
		return fmt.Errorf("SetSystemFileCacheSize failed: %w", err)
	}
	return nil
}

func enablePrivilege(name string) error {
	var token windows.Token
	err := windows.OpenProcessToken(windows.CurrentProcess(),
		windows.TOKEN_ADJUST_PRIVILEGES|windows.TOKEN_QUERY, &token)
	if err != nil {
		return fmt.Errorf("failed to open process token: %w", err)
	}
	defer token.Close()

	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}

	var luid windows.LUID
	if err := windows.LookupPrivilegeValue(nil, namePtr, &luid); err != nil {
		return fmt.Errorf("failed to look up %s: %w", name, err)
	}

	privileges := windows.Tokenprivileges{PrivilegeCount: 1}
	privileges.Privileges[0] = windows.LUIDAndAttributes{
		Luid:       luid,
		Attributes: windows.SE_PRIVILEGE_ENABLED,
	}
	if err := windows.AdjustTokenPrivileges(token, false, &privileges, 0, nil, nil); err != nil {
		return fmt.Errorf("failed to adjust token privileges: %w", err)
	}
	return nil
}
