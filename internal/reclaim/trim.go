package reclaim

import (
	"log/slog"
	"os"
)

// Trimmer asks the OS to release a process's working set.
type Trimmer interface {
	Trim(pid int32) Outcome
}

// Flusher induces eviction of standby file-cache pages.
type Flusher interface {
	Flush() FlushOutcome
}

// NativeTrimmer trims working sets with the platform's primitive.
type NativeTrimmer struct {
	self   int32
	logger *slog.Logger
}

// NewNativeTrimmer creates a trimmer for the current host.
func NewNativeTrimmer(logger *slog.Logger) *NativeTrimmer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NativeTrimmer{self: int32(os.Getpid()), logger: logger}
}

// Trim releases pid's working set. It never returns an error: processes that
// exited or deny access are reported as skipped with a reason.
func (t *NativeTrimmer) Trim(pid int32) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Debug("trim panicked", "pid", pid, "panic", r)
			out = skipped(ReasonRejected)
		}
	}()

	if pid == t.self {
		return trimSelf()
	}
	return trimProcess(pid)
}

// NativeFlusher flushes the system file cache when the process holds the
// required privilege. The capability is probed once at construction.
type NativeFlusher struct {
	allowed bool
	logger  *slog.Logger
}

// NewNativeFlusher creates a flusher. elevated is the cached result of the
// startup privilege probe.
func NewNativeFlusher(elevated bool, logger *slog.Logger) *NativeFlusher {
	if logger == nil {
		logger = slog.Default()
	}
	f := &NativeFlusher{logger: logger}
	if elevated {
		f.allowed = prepareFlush(logger)
	}
	return f
}

// Allowed reports the cached capability.
func (f *NativeFlusher) Allowed() bool { return f.allowed }

// Flush caps the file cache at a minimal size and immediately returns it to
// system management. Without the capability it does nothing.
func (f *NativeFlusher) Flush() (out FlushOutcome) {
	if !f.allowed {
		return FlushSkipped
	}
	defer func() {
		if r := recover(); r != nil {
			f.logger.Debug("cache flush panicked", "panic", r)
			out = FlushFailed
		}
	}()

	if err := flushFileCache(); err != nil {
		f.logger.Debug("cache flush failed", "error", err)
		return FlushFailed
	}
	return FlushIssued
}
