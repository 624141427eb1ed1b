// Package monitor is the live dashboard: a once-per-second sampling loop that
// feeds the auto-clean scheduler, rendered with bubbletea or logged headless.
package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/ramsweep/internal/clean"
	"github.com/lakshaymaurya-felt/ramsweep/internal/config"
	"github.com/lakshaymaurya-felt/ramsweep/internal/control"
	"github.com/lakshaymaurya-felt/ramsweep/internal/memory"
	"github.com/lakshaymaurya-felt/ramsweep/internal/schedule"
)

// DefaultRefresh is the sampling period.
const DefaultRefresh = time.Second

// thresholdStep is how far +/- move the usage threshold.
const thresholdStep = 5

// ─── Messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type sampleMsg struct {
	snapshot memory.Snapshot
	report   control.MemoryReport
	fired    bool
}

type cleanedMsg struct {
	report control.MemoryReport
}

type policyMsg struct {
	policy schedule.Policy
}

type diskMsg struct {
	usage []clean.Usage
}

type eventMsg control.Event

type eventsClosedMsg struct{}

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the bubbletea model for the memory dashboard.
type Model struct {
	ctx     context.Context
	ctrl    *control.Controller
	events  <-chan control.Event
	refresh time.Duration

	Snapshot memory.Snapshot
	Policy   schedule.Policy
	Disk     []clean.Usage
	Activity *ActivityLog

	// Status is the summary of the most recent clean.
	Status string

	cleaning bool
	scanning bool
	bar      progress.Model
	Width    int
	Height   int
	quitting bool
}

// NewModel creates a dashboard over ctrl. events may be nil.
func NewModel(ctx context.Context, ctrl *control.Controller, events <-chan control.Event, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		events:   events,
		refresh:  refresh,
		Policy:   ctrl.Policy(),
		Activity: &ActivityLog{},
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(32), progress.WithoutPercentage()),
		Width:    80,
		Height:   24,
	}
}

func (m Model) doTick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// sample reads telemetry and feeds it to the scheduler, which may run a clean.
func (m Model) sample() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		snap := ctrl.ReadMemorySnapshot(ctx)
		report, fired := ctrl.OnTick(ctx, snap.LoadPercent)
		if fired {
			snap = report.After
		}
		return sampleMsg{snapshot: snap, report: report, fired: fired}
	}
}

func (m Model) cleanNow() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return cleanedMsg{report: ctrl.CleanMemory(ctx)}
	}
}

// setPolicy runs fn against the controller off the update loop, since it
// waits for any clean in progress. fn must derive the new state from the
// controller, not from m.Policy, which may be stale.
func (m Model) setPolicy(fn func(*control.Controller)) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		fn(ctrl)
		return policyMsg{policy: ctrl.Policy()}
	}
}

func (m Model) scanDisk() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		var usage []clean.Usage
		for u := range ctrl.ScanDisk(ctx, config.AllCategories()) {
			usage = append(usage, u)
		}
		return diskMsg{usage: usage}
	}
}

func (m Model) listen() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(e)
	}
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	// Sample first; the sampleMsg starts the tick loop so sampling and
	// display stay sequential.
	return tea.Batch(m.sample(), m.listen())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m, m.sample()

	case sampleMsg:
		m.Snapshot = msg.snapshot
		if msg.fired {
			m.Status = msg.report.Summary()
		}
		m.Policy = m.ctrl.Policy()
		return m, m.doTick()

	case cleanedMsg:
		m.cleaning = false
		m.Snapshot = msg.report.After
		m.Status = msg.report.Summary()
		return m, nil

	case policyMsg:
		m.Policy = msg.policy
		return m, nil

	case diskMsg:
		m.scanning = false
		m.Disk = msg.usage
		return m, nil

	case eventMsg:
		m.Activity.Add(msg.Time, msg.Message)
		return m, m.listen()

	case eventsClosedMsg:
		m.events = nil
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "c":
		if m.cleaning {
			return m, nil
		}
		m.cleaning = true
		m.Status = "Cleaning..."
		return m, m.cleanNow()

	case "t":
		return m, m.setPolicy(func(c *control.Controller) { c.ToggleThresholdTrigger() })

	case "i":
		return m, m.setPolicy(func(c *control.Controller) { c.ToggleIntervalTrigger() })

	case "+", "=":
		return m, m.setPolicy(func(c *control.Controller) { c.AdjustThresholdPercent(thresholdStep) })

	case "-", "_":
		return m, m.setPolicy(func(c *control.Controller) { c.AdjustThresholdPercent(-thresholdStep) })

	case "d":
		if m.scanning {
			return m, nil
		}
		m.scanning = true
		return m, m.scanDisk()
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}
