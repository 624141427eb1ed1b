package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/ramsweep/internal/reclaim"
	"github.com/lakshaymaurya-felt/ramsweep/internal/ui"
)

var (
	processesAll  bool
	processesJSON bool
)

var processesCmd = &cobra.Command{
	Use:     "processes",
	Aliases: []string{"ps"},
	Short:   "List the processes a clean would trim",
	Long:    "List eligible processes. With --all, list every process with the reason it is or is not trimmed.",
	Args:    cobra.NoArgs,
	RunE:    runProcesses,
}

func init() {
	processesCmd.Flags().BoolVar(&processesAll, "all", false, "Include protected processes")
	processesCmd.Flags().BoolVar(&processesJSON, "json", false, "Output as JSON")
}

func runProcesses(cmd *cobra.Command, args []string) error {
	ctrl, err := loadController()
	if err != nil {
		return err
	}

	var procs []reclaim.ClassifiedProcess
	if processesAll {
		procs = ctrl.ListProcesses(cmd.Context())
	} else {
		for _, d := range ctrl.ListEligibleProcesses(cmd.Context()) {
			procs = append(procs, reclaim.ClassifiedProcess{Descriptor: d})
		}
	}
	if processesJSON {
		return printJSON(cmd.OutOrStdout(), procs)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderProcessTable(procs))
	fmt.Fprintln(cmd.OutOrStdout(), ui.Muted(fmt.Sprintf("  %d processes", len(procs))))
	return nil
}

func renderProcessTable(procs []reclaim.ClassifiedProcess) string {
	rows := make([]table.Row, 0, len(procs))
	for _, p := range procs {
		rows = append(rows, table.Row{strconv.Itoa(int(p.PID)), p.Name, p.Class.String()})
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "PID", Width: 8},
			{Title: "Name", Width: 36},
			{Title: "Class", Width: 12},
		}),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		Foreground(ui.ColorPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		BorderBottom(true)
	// Static output: no row is selected.
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	return t.View()
}
