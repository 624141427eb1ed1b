package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/ramsweep/internal/ui"
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Delete saved settings",
	Long:  "Delete the settings file (whitelist and auto-clean policy) and its directory if empty.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsFile()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(w, ui.Muted("No settings at "+path))
				return nil
			}
			return fmt.Errorf("failed to remove settings: %w", err)
		}
		// Only succeeds when nothing else lives there.
		_ = os.Remove(filepath.Dir(path))

		fmt.Fprintln(w, success("Removed "+path))
		return nil
	},
}
