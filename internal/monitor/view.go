package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/ramsweep/internal/core"
	"github.com/lakshaymaurya-felt/ramsweep/internal/ui"
)

var (
	clrGreen  = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	clrYellow = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	clrOrange = lipgloss.AdaptiveColor{Light: "#ea580c", Dark: "#fb923c"}
	clrRed    = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
)

// ─── Top-level renderer ─────────────────────────────────────────────────────

func (m Model) renderView() string {
	w := m.Width
	if w < 50 {
		w = 50
	}

	sections := []string{
		m.renderHeader(w),
		m.renderMemory(),
		m.renderPolicy(),
	}
	if len(m.Disk) > 0 || m.scanning {
		sections = append(sections, m.renderDisk())
	}
	sections = append(sections, m.renderActivity(), m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Model) renderHeader(w int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Render("  " + ui.IconDiamond + " ramsweep")

	mode := ui.Muted("standard")
	if m.ctrl.Elevated() {
		mode = lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render("administrator")
	}

	divider := ui.Muted(strings.Repeat("─", w))
	return title + "  " + mode + "\n" + divider
}

// ─── Memory ──────────────────────────────────────────────────────────────────

func (m Model) renderMemory() string {
	s := m.Snapshot
	if s.TotalPhysical == 0 && s.PhysicalErr == nil {
		return lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  Collecting metrics…")
	}

	lines := []string{
		"",
		fmt.Sprintf("  Load       %s  %s", m.bar.ViewAs(float64(s.LoadPercent)/100), loadLabel(s.LoadPercent)),
		"",
		fmt.Sprintf("  Used       %s / %s", core.FormatSize(int64(s.UsedPhysical)), core.FormatSize(int64(s.TotalPhysical))),
		fmt.Sprintf("  Available  %s", core.FormatSize(int64(s.AvailablePhysical))),
	}
	if s.PhysicalErr != nil {
		lines = append(lines, errLine("memory query failed: "+s.PhysicalErr.Error()))
	}

	if s.PagingErr == nil {
		lines = append(lines, fmt.Sprintf("  Cached     %s", core.FormatSize(int64(s.Cached))))
		if s.CommitLimit > 0 {
			pct := float64(s.Committed) / float64(s.CommitLimit) * 100
			lines = append(lines, fmt.Sprintf("  Committed  %s  %s / %s",
				colorBar(pct, 20), core.FormatSize(int64(s.Committed)), core.FormatSize(int64(s.CommitLimit))))
		}
	}

	if m.Status != "" {
		lines = append(lines, "", lipgloss.NewStyle().Bold(true).Foreground(ui.ColorSuccess).Render("  "+m.Status))
	}
	return strings.Join(lines, "\n")
}

func loadLabel(pct int) string {
	return lipgloss.NewStyle().Bold(true).Foreground(severity(float64(pct))).Render(fmt.Sprintf("%3d%%", pct))
}

// ─── Auto-clean ──────────────────────────────────────────────────────────────

func (m Model) renderPolicy() string {
	p := m.Policy
	lines := []string{
		fmt.Sprintf("  Threshold  %s  at %d%% usage", ui.OnOff(p.ThresholdEnabled), p.ThresholdPercent),
		fmt.Sprintf("  Timer      %s  every %d min", ui.OnOff(p.IntervalEnabled), p.IntervalMinutes),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorSecondary).
		Padding(0, 1).
		MarginTop(1).
		Render(ui.Title("Auto-Clean") + "\n" + strings.Join(lines, "\n"))
}

// ─── Disk ────────────────────────────────────────────────────────────────────

func (m Model) renderDisk() string {
	if m.scanning && len(m.Disk) == 0 {
		return ui.Muted("\n  Scanning disk…")
	}

	lines := []string{"", ui.Title("  Disk")}
	var total int64
	for _, u := range m.Disk {
		size := core.FormatSize(u.Bytes)
		if u.Err != nil {
			size = lipgloss.NewStyle().Foreground(ui.ColorError).Render(ui.IconError + " unreadable")
		}
		lines = append(lines, fmt.Sprintf("  %-16s %10s", u.ID, size))
		total += u.Bytes
	}
	lines = append(lines, ui.Muted(fmt.Sprintf("  %-16s %10s", "total", core.FormatSize(total))))
	return strings.Join(lines, "\n")
}

// ─── Activity ────────────────────────────────────────────────────────────────

func (m Model) renderActivity() string {
	// Header, memory, policy and footer take roughly 18 rows.
	rows := m.Height - 18
	if len(m.Disk) > 0 {
		rows -= len(m.Disk) + 3
	}
	if rows < 3 {
		rows = 3
	}

	lines := []string{"", ui.Title("  Activity")}
	entries := m.Activity.Entries(rows)
	if len(entries) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).Render("  (no activity yet)"))
	}
	for _, e := range entries {
		lines = append(lines, "  "+e.String())
	}
	return strings.Join(lines, "\n")
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m Model) renderFooter() string {
	p := " " + ui.IconPipe + " "
	hints := "\n  c clean" + p + "t threshold" + p + "+/- adjust" + p + "i timer" + p + "d disk" + p + "q quit"
	return lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Italic(true).
		Render(hints)
}

// ─── Drawing primitives ─────────────────────────────────────────────────────

func errLine(msg string) string {
	return lipgloss.NewStyle().Foreground(ui.ColorError).Render("  " + ui.IconError + " " + msg)
}

func severity(pct float64) lipgloss.AdaptiveColor {
	switch {
	case pct >= 90:
		return clrRed
	case pct >= 75:
		return clrOrange
	case pct >= 50:
		return clrYellow
	}
	return clrGreen
}

// colorBar renders a ████░░░░ bar colored by severity.
func colorBar(pct float64, width int) string {
	pct = max(0, min(pct, 100))
	filled := min(int(pct/100*float64(width)), width)

	fStr := lipgloss.NewStyle().Foreground(severity(pct)).Render(strings.Repeat("█", filled))
	eStr := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(strings.Repeat("░", width-filled))
	return fStr + eStr
}
