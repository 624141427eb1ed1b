package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/ramsweep/internal/clean"
	"github.com/lakshaymaurya-felt/ramsweep/internal/config"
	"github.com/lakshaymaurya-felt/ramsweep/internal/core"
	"github.com/lakshaymaurya-felt/ramsweep/internal/ui"
)

var (
	diskJSON   bool
	diskAll    bool
	diskDryRun bool
)

var diskCmd = &cobra.Command{
	Use:   "disk",
	Short: "Measure and clean temp files and browser data",
}

var diskScanCmd = &cobra.Command{
	Use:               "scan [category...]",
	Short:             "Show how much space each category uses",
	Long:              "Measure each category. With no arguments every category is measured.\n\n" + categoryHelp(),
	ValidArgsFunction: completeCategories,
	RunE:              runDiskScan,
}

var diskCleanCmd = &cobra.Command{
	Use:   "clean [category...]",
	Short: "Delete temp files, browser caches or cookies",
	Long: "Delete the files of the named categories. Files in use are skipped.\n" +
		"Cookie categories sign you out of websites in that browser.\n\n" + categoryHelp(),
	ValidArgsFunction: completeCategories,
	RunE:              runDiskClean,
}

func init() {
	diskScanCmd.Flags().BoolVar(&diskJSON, "json", false, "Output as JSON")
	diskCleanCmd.Flags().BoolVar(&diskJSON, "json", false, "Output as JSON")
	diskCleanCmd.Flags().BoolVar(&diskAll, "all", false, "Clean every category, including cookies")
	diskCleanCmd.Flags().BoolVar(&diskDryRun, "dry-run", false, "Preview the cleanup plan without deleting")

	diskCmd.AddCommand(diskScanCmd)
	diskCmd.AddCommand(diskCleanCmd)
}

func categoryHelp() string {
	var b strings.Builder
	b.WriteString("Categories:\n")
	for _, c := range config.AllCategories() {
		fmt.Fprintf(&b, "  %-16s %s\n", c.String(), c.Description())
	}
	return b.String()
}

func completeCategories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, c := range config.AllCategories() {
		if strings.HasPrefix(c.String(), toComplete) {
			out = append(out, c.String()+"\t"+c.Description())
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func parseCategories(args []string) ([]config.Category, error) {
	cats := make([]config.Category, 0, len(args))
	seen := make(map[config.Category]bool, len(args))
	for _, a := range args {
		c, err := config.ParseCategory(a)
		if err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	return cats, nil
}

func runDiskScan(cmd *cobra.Command, args []string) error {
	cats, err := parseCategories(args)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		cats = config.AllCategories()
	}

	ctrl, err := loadController()
	if err != nil {
		return err
	}

	var usage []clean.Usage
	for u := range ctrl.ScanDisk(cmd.Context(), cats) {
		usage = append(usage, u)
	}
	if diskJSON {
		return printJSON(cmd.OutOrStdout(), usage)
	}

	w := cmd.OutOrStdout()
	var total int64
	for _, u := range usage {
		size := core.FormatSize(u.Bytes)
		if u.Err != nil {
			size = failure(u.Err.Error())
		}
		fmt.Fprintf(w, "  %-16s %10s  %s\n", u.ID, size, ui.Muted(u.Path))
		total += u.Bytes
	}
	fmt.Fprintf(w, "  %-16s %10s\n", "total", core.FormatSize(total))
	return nil
}

func runDiskClean(cmd *cobra.Command, args []string) error {
	cats, err := parseCategories(args)
	if err != nil {
		return err
	}
	switch {
	case diskAll:
		cats = config.AllCategories()
	case len(cats) == 0:
		return errors.New("name at least one category or pass --all")
	}

	ctrl, err := loadController()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if diskDryRun {
		var usage []clean.Usage
		for u := range ctrl.ScanDisk(cmd.Context(), cats) {
			usage = append(usage, u)
		}
		if diskJSON {
			return printJSON(w, usage)
		}
		for _, u := range usage {
			fmt.Fprintf(w, "  would clean %-16s %10s\n", u.ID, core.FormatSize(u.Bytes))
		}
		return nil
	}

	var results []clean.Result
	var failed int
	for res := range ctrl.CleanDisk(cmd.Context(), cats) {
		results = append(results, res)
		if res.Error != "" {
			failed++
		}
	}
	if diskJSON {
		if err := printJSON(w, results); err != nil {
			return err
		}
	} else {
		var total int64
		for _, res := range results {
			if res.Error != "" {
				fmt.Fprintln(w, failure(fmt.Sprintf("%-16s %s", res.ID, res.Error)))
				continue
			}
			line := fmt.Sprintf("%-16s %10s  %d files", res.ID, core.FormatSize(res.BytesCleaned), res.FilesCleaned)
			if res.FilesSkipped > 0 {
				line += fmt.Sprintf(", %d in use", res.FilesSkipped)
			}
			fmt.Fprintln(w, success(line))
			total += res.BytesCleaned
		}
		fmt.Fprintln(w, row("Freed", core.FormatSize(total)))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d categories failed", failed, len(results))
	}
	return nil
}
