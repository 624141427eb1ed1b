package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/ramsweep/internal/core"
	"github.com/lakshaymaurya-felt/ramsweep/internal/memory"
	"github.com/lakshaymaurya-felt/ramsweep/internal/schedule"
	"github.com/lakshaymaurya-felt/ramsweep/internal/ui"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show memory usage",
	Long:  "Print physical memory, system cache and commit charge, plus the saved auto-clean policy.",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
}

type statusOutput struct {
	Host   core.HostInfo   `json:"host"`
	Memory memory.Snapshot `json:"memory"`
	Policy schedule.Policy `json:"auto_clean"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctrl, err := loadController()
	if err != nil {
		return err
	}

	out := statusOutput{
		Host:   core.Host(),
		Memory: ctrl.ReadMemorySnapshot(cmd.Context()),
		Policy: ctrl.Policy(),
	}
	if statusJSON {
		return printJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	s := out.Memory
	fmt.Fprintln(w, ui.Title("Memory"))
	if s.PhysicalErr != nil {
		fmt.Fprintln(w, failure("memory query failed: "+s.PhysicalErr.Error()))
	} else {
		fmt.Fprintln(w, row("Load", fmt.Sprintf("%d%%", s.LoadPercent)))
		fmt.Fprintln(w, row("Used", core.FormatSize(int64(s.UsedPhysical))+" / "+core.FormatSize(int64(s.TotalPhysical))))
		fmt.Fprintln(w, row("Available", core.FormatSize(int64(s.AvailablePhysical))))
	}
	if s.PagingErr == nil {
		fmt.Fprintln(w, row("Cached", core.FormatSize(int64(s.Cached))))
		fmt.Fprintln(w, row("Committed", core.FormatSize(int64(s.Committed))+" / "+core.FormatSize(int64(s.CommitLimit))))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Title("Auto-Clean"))
	fmt.Fprintln(w, row("Threshold", fmt.Sprintf("%s at %d%%", ui.OnOff(out.Policy.ThresholdEnabled), out.Policy.ThresholdPercent)))
	fmt.Fprintln(w, row("Timer", fmt.Sprintf("%s every %d min", ui.OnOff(out.Policy.IntervalEnabled), out.Policy.IntervalMinutes)))

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Muted(out.Host.String()))
	if !out.Host.Elevated {
		fmt.Fprintln(w, ui.Muted("Not elevated: the system file cache will not be flushed."))
	}
	return nil
}
