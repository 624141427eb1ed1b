// Package control is the caller-facing surface of ramsweep. A Controller owns
// the reclamation engine, the whitelist, the auto-clean scheduler and the disk
// cleaner, and serializes the operations that must not overlap.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lakshaymaurya-felt/ramsweep/internal/clean"
	"github.com/lakshaymaurya-felt/ramsweep/internal/config"
	"github.com/lakshaymaurya-felt/ramsweep/internal/core"
	"github.com/lakshaymaurya-felt/ramsweep/internal/memory"
	"github.com/lakshaymaurya-felt/ramsweep/internal/process"
	"github.com/lakshaymaurya-felt/ramsweep/internal/reclaim"
	"github.com/lakshaymaurya-felt/ramsweep/internal/schedule"
)

// MemoryReport is the caller-visible result of one memory clean.
type MemoryReport struct {
	Trigger          schedule.Trigger `json:"-"`
	TriggerName      string           `json:"trigger"`
	Before           memory.Snapshot  `json:"before"`
	After            memory.Snapshot  `json:"after"`
	FreedBytes       uint64           `json:"freed_bytes"`
	ProcessesTrimmed int              `json:"processes_trimmed"`
	Engine           reclaim.Result   `json:"engine"`
	Started          time.Time        `json:"started"`
	Duration         time.Duration    `json:"duration"`
}

// Summary renders the one-line status shown after a clean.
func (r MemoryReport) Summary() string {
	return fmt.Sprintf("Freed: %s (Processed %d apps)", core.FormatMB(r.FreedBytes), r.ProcessesTrimmed)
}

// Controller wires the core components together.
type Controller struct {
	reader    *memory.Reader
	engine    *reclaim.Engine
	scheduler *schedule.Scheduler
	disk      *clean.Cleaner
	clock     schedule.Clock
	observer  Observer
	logger    *slog.Logger

	// mu serializes memory cleans with whitelist and policy mutation.
	mu sync.Mutex

	// tick is the state of the OnTick call in progress.
	tick tickState
}

type tickState struct {
	ctx    context.Context
	load   int
	report *MemoryReport
}

// Option configures a Controller.
type Option func(*Controller)

// WithReader replaces the telemetry reader.
func WithReader(r *memory.Reader) Option {
	return func(c *Controller) { c.reader = r }
}

// WithEngine replaces the reclamation engine.
func WithEngine(e *reclaim.Engine) Option {
	return func(c *Controller) { c.engine = e }
}

// WithDiskCleaner replaces the disk cleaner.
func WithDiskCleaner(d *clean.Cleaner) Option {
	return func(c *Controller) { c.disk = d }
}

// WithClock sets the clock used for scheduling and report timestamps.
func WithClock(clock schedule.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithObserver registers a receiver for controller events.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a Controller. Components not supplied through options are
// built from the host's native implementations.
func New(opts ...Option) *Controller {
	c := &Controller{
		clock:  schedule.SystemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.reader == nil {
		c.reader = memory.NewReader(memory.WithLogger(c.logger))
	}
	if c.engine == nil {
		c.engine = reclaim.NewEngine(process.NewSystemCatalog(c.logger), nil, reclaim.WithLogger(c.logger))
	}
	if c.disk == nil {
		c.disk = clean.New(config.DefaultDirs(), clean.WithLogger(c.logger))
	}
	c.scheduler = schedule.New(c.clock, c.scheduledClean)
	return c
}

// Elevated reports whether privileged operations (cache flush) are enabled.
func (c *Controller) Elevated() bool { return c.engine.Elevated() }

// ─── Memory ──────────────────────────────────────────────────────────────────

// ReadMemorySnapshot returns current memory telemetry.
func (c *Controller) ReadMemorySnapshot(ctx context.Context) memory.Snapshot {
	return c.reader.Read(ctx)
}

// CleanMemory runs a manual clean and reports the estimated savings.
func (c *Controller) CleanMemory(ctx context.Context) MemoryReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cleanLocked(ctx, schedule.TriggerManual)
}

// cleanLocked brackets one engine pass with before/after snapshots. Callers
// must hold c.mu.
func (c *Controller) cleanLocked(ctx context.Context, trigger schedule.Trigger) MemoryReport {
	started := c.clock.Now()
	before := c.reader.Read(ctx)
	res := c.engine.CleanMemory(ctx)
	after := c.reader.Read(ctx)

	report := MemoryReport{
		Trigger:          trigger,
		TriggerName:      trigger.String(),
		Before:           before,
		After:            after,
		FreedBytes:       memory.FreedBytes(before, after),
		ProcessesTrimmed: res.ProcessesTrimmed,
		Engine:           res,
		Started:          started,
		Duration:         c.clock.Now().Sub(started),
	}

	c.logger.Info("memory cleaned",
		"trigger", report.TriggerName,
		"freed_bytes", report.FreedBytes,
		"trimmed", report.ProcessesTrimmed,
		"flush", res.Flush.String())

	c.emit(Event{Kind: EventCleaned, Message: report.Summary(), Report: &report})
	if trigger == schedule.TriggerManual || report.FreedBytes > 0 {
		c.emit(Event{
			Kind:    EventNotify,
			Message: fmt.Sprintf("Successfully freed %s of RAM.", core.FormatMB(report.FreedBytes)),
			Report:  &report,
		})
	}
	return report
}

// ─── Processes & Whitelist ───────────────────────────────────────────────────

// ListProcesses returns every running process with its exclusion class.
func (c *Controller) ListProcesses(ctx context.Context) []reclaim.ClassifiedProcess {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Processes(ctx)
}

// ListEligibleProcesses returns the processes a clean would try to trim.
func (c *Controller) ListEligibleProcesses(ctx context.Context) []process.Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.EligibleProcesses(ctx)
}

// ListWhitelist returns the whitelisted names.
func (c *Controller) ListWhitelist() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Whitelist().List()
}

// AddToWhitelist protects name from trimming. It reports whether the
// whitelist changed.
func (c *Controller) AddToWhitelist(name string) bool {
	c.mu.Lock()
	added := c.engine.Whitelist().Add(name)
	c.mu.Unlock()

	if added {
		c.emit(Event{Kind: EventWhitelist, Message: fmt.Sprintf("Whitelisted %s", name)})
	}
	return added
}

// RemoveFromWhitelist drops name from the whitelist. It reports whether the
// whitelist changed.
func (c *Controller) RemoveFromWhitelist(name string) bool {
	c.mu.Lock()
	removed := c.engine.Whitelist().Remove(name)
	c.mu.Unlock()

	if removed {
		c.emit(Event{Kind: EventWhitelist, Message: fmt.Sprintf("Removed %s from whitelist", name)})
	}
	return removed
}

// ─── Scheduler ───────────────────────────────────────────────────────────────

// Policy returns the auto-clean state.
func (c *Controller) Policy() schedule.Policy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scheduler.State()
}

// SetThresholdTrigger enables or disables the usage-threshold arm.
func (c *Controller) SetThresholdTrigger(enabled bool, percent int) {
	c.mu.Lock()
	was := c.scheduler.State().ThresholdEnabled
	c.scheduler.SetThresholdTrigger(enabled, percent)
	c.mu.Unlock()

	if was != enabled {
		c.emit(Event{Kind: EventPolicy, Message: toggleMessage("Auto-Clean (Percent)", enabled)})
	}
}

// SetIntervalTrigger enables or disables the fixed-interval arm.
func (c *Controller) SetIntervalTrigger(enabled bool, minutes int) {
	c.mu.Lock()
	was := c.scheduler.State().IntervalEnabled
	c.scheduler.SetIntervalTrigger(enabled, minutes)
	c.mu.Unlock()

	if was != enabled {
		c.emit(Event{Kind: EventPolicy, Message: toggleMessage("Auto-Clean (Timer)", enabled)})
	}
}

// ToggleThresholdTrigger flips the usage-threshold arm, keeping its percent,
// and returns the new state.
func (c *Controller) ToggleThresholdTrigger() bool {
	c.mu.Lock()
	p := c.scheduler.State()
	enabled := !p.ThresholdEnabled
	c.scheduler.SetThresholdTrigger(enabled, p.ThresholdPercent)
	c.mu.Unlock()

	c.emit(Event{Kind: EventPolicy, Message: toggleMessage("Auto-Clean (Percent)", enabled)})
	return enabled
}

// ToggleIntervalTrigger flips the fixed-interval arm, keeping its period,
// and returns the new state.
func (c *Controller) ToggleIntervalTrigger() bool {
	c.mu.Lock()
	p := c.scheduler.State()
	enabled := !p.IntervalEnabled
	c.scheduler.SetIntervalTrigger(enabled, p.IntervalMinutes)
	c.mu.Unlock()

	c.emit(Event{Kind: EventPolicy, Message: toggleMessage("Auto-Clean (Timer)", enabled)})
	return enabled
}

// AdjustThresholdPercent moves the usage threshold by delta, clamped to
// 1..100, and returns the new percent.
func (c *Controller) AdjustThresholdPercent(delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.scheduler.State()
	c.scheduler.SetThresholdTrigger(p.ThresholdEnabled, p.ThresholdPercent+delta)
	return c.scheduler.State().ThresholdPercent
}

// OnTick feeds one sampling tick to the scheduler. When an arm fires the
// clean runs synchronously and its report is returned.
func (c *Controller) OnTick(ctx context.Context, loadPercent int) (MemoryReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick = tickState{ctx: ctx, load: loadPercent}
	trigger := c.scheduler.OnTick(loadPercent)
	report := c.tick.report
	c.tick = tickState{}

	if trigger == schedule.TriggerNone || report == nil {
		return MemoryReport{}, false
	}
	return *report, true
}

// scheduledClean is the scheduler's clean callback. It runs inside OnTick
// with c.mu held.
func (c *Controller) scheduledClean(t schedule.Trigger) {
	ctx := c.tick.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	c.emit(Event{Kind: EventTrigger, Message: c.scheduler.State().Describe(t, c.tick.load)})
	report := c.cleanLocked(ctx, t)
	c.tick.report = &report
}

// ─── Disk ────────────────────────────────────────────────────────────────────

// MeasureDiskCategory returns the category's size in bytes.
func (c *Controller) MeasureDiskCategory(cat config.Category) int64 {
	return c.disk.Measure(cat)
}

// InspectDiskCategory measures a category with its resolved path and any error.
func (c *Controller) InspectDiskCategory(cat config.Category) clean.Usage {
	return c.disk.Inspect(cat)
}

// CleanDiskCategory deletes the category's files.
func (c *Controller) CleanDiskCategory(cat config.Category) clean.Result {
	res := c.disk.Clean(cat)
	c.logger.Info("disk category cleaned",
		"category", res.ID,
		"files", res.FilesCleaned,
		"bytes", res.BytesCleaned,
		"error", res.Error)
	return res
}

// ScanDisk measures cats on a background goroutine, sending each usage as it
// completes. The channel is closed when all categories are done or ctx ends.
func (c *Controller) ScanDisk(ctx context.Context, cats []config.Category) <-chan clean.Usage {
	out := make(chan clean.Usage, len(cats))
	go func() {
		defer close(out)
		for _, cat := range cats {
			if ctx.Err() != nil {
				return
			}
			out <- c.disk.Inspect(cat)
		}
	}()
	return out
}

// CleanDisk cleans cats on a background goroutine. Once a category has
// started it runs to completion; ctx is checked only between categories.
func (c *Controller) CleanDisk(ctx context.Context, cats []config.Category) <-chan clean.Result {
	out := make(chan clean.Result, len(cats))
	go func() {
		defer close(out)
		for _, cat := range cats {
			if ctx.Err() != nil {
				return
			}
			res := c.CleanDiskCategory(cat)
			c.emit(Event{Kind: EventDisk, Message: diskMessage(res)})
			out <- res
		}
	}()
	return out
}

func (c *Controller) emit(e Event) {
	if c.observer == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = c.clock.Now()
	}
	c.observer(e)
}

func toggleMessage(name string, enabled bool) string {
	if enabled {
		return name + " ENABLED."
	}
	return name + " DISABLED."
}

func diskMessage(res clean.Result) string {
	if res.Error != "" {
		return fmt.Sprintf("%s: %s", res.ID, res.Error)
	}
	return fmt.Sprintf("%s: removed %d files (%s)", res.ID, res.FilesCleaned, core.FormatSize(res.BytesCleaned))
}
