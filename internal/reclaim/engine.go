package reclaim

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/lakshaymaurya-felt/ramsweep/internal/core"
	"github.com/lakshaymaurya-felt/ramsweep/internal/process"
)

// Result summarizes one CleanMemory pass. Byte savings are not part of it;
// callers diff two telemetry snapshots instead.
type Result struct {
	SelfTrimmed       bool         `json:"self_trimmed"`
	Flush             FlushOutcome `json:"flush"`
	ProcessesTrimmed  int          `json:"processes_trimmed"`
	ProcessesSkipped  int          `json:"processes_skipped"`
	ProcessesExcluded int          `json:"processes_excluded"`

	// SkippedBy breaks ProcessesSkipped down by reason.
	SkippedBy map[Reason]int `json:"skipped_by,omitempty"`
}

// ClassifiedProcess pairs a descriptor with its exclusion class.
type ClassifiedProcess struct {
	process.Descriptor
	Class process.Class `json:"class"`
}

// Engine orchestrates working-set trimming and cache flushing across the
// process catalog. It owns the whitelist. Not safe for concurrent use.
type Engine struct {
	self      int32
	catalog   process.Catalog
	whitelist *process.Whitelist
	trimmer   Trimmer
	flusher   Flusher
	probe     func() bool
	elevated  bool
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTrimmer replaces the native working-set trimmer.
func WithTrimmer(t Trimmer) Option {
	return func(e *Engine) { e.trimmer = t }
}

// WithFlusher replaces the native cache flusher.
func WithFlusher(f Flusher) Option {
	return func(e *Engine) { e.flusher = f }
}

// WithElevated overrides the startup privilege probe.
func WithElevated(elevated bool) Option {
	return func(e *Engine) { e.probe = func() bool { return elevated } }
}

// WithSelfPID overrides the PID treated as the calling process.
func WithSelfPID(pid int32) Option {
	return func(e *Engine) { e.self = pid }
}

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine over catalog. A nil whitelist starts empty.
// The privilege probe runs once here and its result is cached.
func NewEngine(catalog process.Catalog, wl *process.Whitelist, opts ...Option) *Engine {
	e := &Engine{
		self:      int32(os.Getpid()),
		catalog:   catalog,
		whitelist: wl,
		probe:     core.IsElevated,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.whitelist == nil {
		e.whitelist = process.NewWhitelist()
	}
	e.elevated = e.probe()
	if e.trimmer == nil {
		e.trimmer = NewNativeTrimmer(e.logger)
	}
	if e.flusher == nil {
		e.flusher = NewNativeFlusher(e.elevated, e.logger)
	}
	return e
}

// Elevated reports the cached privilege probe.
func (e *Engine) Elevated() bool { return e.elevated }

// Whitelist returns the engine's whitelist.
func (e *Engine) Whitelist() *process.Whitelist { return e.whitelist }

// CleanMemory trims the calling process, flushes the file cache when
// elevated, then trims every eligible process in one catalog pass.
// Individual failures are counted, never returned.
func (e *Engine) CleanMemory(ctx context.Context) Result {
	var res Result

	res.SelfTrimmed = e.trimmer.Trim(e.self).Trimmed()

	if e.elevated {
		res.Flush = e.flusher.Flush()
	}

	for d := range e.catalog.Enumerate(ctx) {
		if d.PID == e.self {
			continue
		}
		if process.Classify(d, e.whitelist) != process.ClassEligible {
			res.ProcessesExcluded++
			continue
		}

		out := e.trimmer.Trim(d.PID)
		if out.Trimmed() {
			res.ProcessesTrimmed++
			continue
		}
		res.ProcessesSkipped++
		if res.SkippedBy == nil {
			res.SkippedBy = make(map[Reason]int)
		}
		res.SkippedBy[out.Reason]++
		e.logger.Debug("trim skipped", "pid", d.PID, "name", d.Name, "reason", out.Reason.String())
	}

	e.logger.Debug("memory clean pass finished",
		"trimmed", res.ProcessesTrimmed,
		"skipped", res.ProcessesSkipped,
		"excluded", res.ProcessesExcluded,
		"flush", res.Flush.String())

	return res
}

// Processes returns every process in the catalog with its class, sorted by name.
func (e *Engine) Processes(ctx context.Context) []ClassifiedProcess {
	var out []ClassifiedProcess
	for d := range e.catalog.Enumerate(ctx) {
		out = append(out, ClassifiedProcess{Descriptor: d, Class: process.Classify(d, e.whitelist)})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].PID < out[j].PID
	})
	return out
}

// EligibleProcesses returns the processes CleanMemory would attempt to trim.
func (e *Engine) EligibleProcesses(ctx context.Context) []process.Descriptor {
	var out []process.Descriptor
	for _, p := range e.Processes(ctx) {
		if p.Class == process.ClassEligible && p.PID != e.self {
			out = append(out, p.Descriptor)
		}
	}
	return out
}
