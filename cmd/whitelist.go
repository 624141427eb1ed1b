package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/ramsweep/internal/ui"
)

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Manage applications that are never trimmed",
	Long:  "Whitelisted process names are matched case-insensitively, with or without .exe.",
	Args:  cobra.NoArgs,
	RunE:  runWhitelistList,
}

var whitelistAddCmd = &cobra.Command{
	Use:   "add <name>...",
	Short: "Protect applications from trimming",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editWhitelist(cmd, args, true)
	},
}

var whitelistRemoveCmd = &cobra.Command{
	Use:     "remove <name>...",
	Aliases: []string{"rm"},
	Short:   "Stop protecting applications",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editWhitelist(cmd, args, false)
	},
}

func init() {
	whitelistCmd.AddCommand(whitelistAddCmd)
	whitelistCmd.AddCommand(whitelistRemoveCmd)
}

func runWhitelistList(cmd *cobra.Command, args []string) error {
	ctrl, err := loadController()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	names := ctrl.ListWhitelist()
	if len(names) == 0 {
		fmt.Fprintln(w, ui.Muted("Whitelist is empty."))
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(w, "  "+ui.IconDot+" "+n)
	}
	return nil
}

func editWhitelist(cmd *cobra.Command, names []string, add bool) error {
	ctrl, err := loadController()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	changed := false
	for _, n := range names {
		switch {
		case add && ctrl.AddToWhitelist(n):
			fmt.Fprintln(w, success("Whitelisted "+n))
			changed = true
		case add:
			fmt.Fprintln(w, ui.Muted(n+" is already whitelisted"))
		case ctrl.RemoveFromWhitelist(n):
			fmt.Fprintln(w, success("Removed "+n))
			changed = true
		default:
			fmt.Fprintln(w, ui.Muted(n+" is not whitelisted"))
		}
	}

	if !changed {
		return nil
	}
	return saveController(ctrl)
}
