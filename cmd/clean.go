package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/ramsweep/internal/core"
	"github.com/lakshaymaurya-felt/ramsweep/internal/reclaim"
)

var cleanJSON bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Free up memory now",
	Long: `Trim the working set of every eligible process and, when running as
administrator, flush the system file cache. Critical system processes and
whitelisted applications are never touched.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanJSON, "json", false, "Output the report as JSON")
}

func runClean(cmd *cobra.Command, args []string) error {
	ctrl, err := loadController()
	if err != nil {
		return err
	}

	report := ctrl.CleanMemory(cmd.Context())
	if cleanJSON {
		return printJSON(cmd.OutOrStdout(), report)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, success(report.Summary()))
	fmt.Fprintln(w, row("Available", core.FormatSize(int64(report.Before.AvailablePhysical))+" -> "+core.FormatSize(int64(report.After.AvailablePhysical))))
	fmt.Fprintln(w, row("Skipped", skippedSummary(report.Engine)))
	fmt.Fprintln(w, row("Protected", fmt.Sprintf("%d", report.Engine.ProcessesExcluded)))
	fmt.Fprintln(w, row("Cache flush", report.Engine.Flush.String()))
	if !ctrl.Elevated() {
		fmt.Fprintln(w, warning("Run as administrator to also flush the system file cache."))
	}
	return nil
}

// skippedSummary renders the skipped count with its per-reason breakdown,
// for example "3 (1 exited, 2 access denied)".
func skippedSummary(res reclaim.Result) string {
	if res.ProcessesSkipped == 0 {
		return "0"
	}
	reasons := make([]reclaim.Reason, 0, len(res.SkippedBy))
	for r := range res.SkippedBy {
		reasons = append(reasons, r)
	}
	slices.Sort(reasons)

	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, fmt.Sprintf("%d %s", res.SkippedBy[r], r))
	}
	return fmt.Sprintf("%d (%s)", res.ProcessesSkipped, strings.Join(parts, ", "))
}
