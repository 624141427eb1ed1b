package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/ramsweep/internal/control"
	"github.com/lakshaymaurya-felt/ramsweep/internal/settings"
)

var (
	// Global flags
	debug      bool
	logFile    string
	configPath string

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"

	// logCloser is the open --log-file handle, closed by Execute.
	logCloser io.Closer
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "ramsweep",
	Short: "Reclaim memory and clear browser junk",
	Long: `ramsweep - Reclaim memory and clear browser junk.

Trims the working sets of running applications, flushes the system
file cache when run as administrator, cleans temp files and browser
caches, and can clean automatically when memory usage gets high.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. The --log-file handle is closed afterwards
// whether or not the command failed.
func Execute() error {
	err := rootCmd.Execute()
	closeLog()
	return err
}

func closeLog() {
	if logCloser == nil {
		return
	}
	if err := logCloser.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
	}
	logCloser = nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default <config dir>/ramsweep/settings.yaml)")

	// Register all subcommands
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(diskCmd)
	rootCmd.AddCommand(processesCmd)
	rootCmd.AddCommand(whitelistCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogging installs the default slog logger. Warnings go to stderr unless
// --debug or --log-file ask for more.
func setupLogging(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	var out io.Writer = cmd.ErrOrStderr()
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out, logCloser = f, f
		if !debug {
			level = slog.LevelInfo
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
	return nil
}

// settingsFile returns --config or the default settings location.
func settingsFile() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return settings.DefaultPath()
}

// loadController builds a controller with the saved settings applied.
func loadController(opts ...control.Option) (*control.Controller, error) {
	path, err := settingsFile()
	if err != nil {
		return nil, err
	}
	f, err := settings.Load(path)
	if err != nil {
		return nil, err
	}

	ctrl := control.New(append([]control.Option{control.WithLogger(slog.Default())}, opts...)...)
	settings.Apply(ctrl, f)
	slog.Debug("settings loaded", "path", path, "whitelist", len(f.Whitelist))
	return ctrl, nil
}

// saveController persists the controller's whitelist and policy.
func saveController(ctrl *control.Controller) error {
	path, err := settingsFile()
	if err != nil {
		return err
	}
	if err := settings.Save(path, settings.Capture(ctrl)); err != nil {
		return err
	}
	slog.Debug("settings saved", "path", path)
	return nil
}
