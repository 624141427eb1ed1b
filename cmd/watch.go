package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/ramsweep/internal/control"
	"github.com/lakshaymaurya-felt/ramsweep/internal/monitor"
)

var (
	watchRefresh   time.Duration
	watchThreshold int
	watchInterval  int
	watchNoTUI     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor memory and clean automatically",
	Long: `Sample memory once per refresh period and run the auto-clean policy.

Shows a live dashboard on a terminal; otherwise (or with --no-tui) logs
each automatic clean. Policy changes made in the dashboard or with
--threshold/--interval are saved on exit.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchRefresh, "refresh", monitor.DefaultRefresh, "Sampling period")
	watchCmd.Flags().IntVar(&watchThreshold, "threshold", 0, "Enable the usage trigger at this percent")
	watchCmd.Flags().IntVar(&watchInterval, "interval", 0, "Enable the timer trigger every N minutes")
	watchCmd.Flags().BoolVar(&watchNoTUI, "no-tui", false, "Log instead of showing the dashboard")
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tui := !watchNoTUI && isTerminal(os.Stdout)

	var (
		ctrl *control.Controller
		sink *monitor.EventSink
		err  error
	)
	if tui {
		// The dashboard owns the screen.
		if logFile == "" {
			slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		}
		sink = monitor.NewEventSink(64)
		ctrl, err = loadController(control.WithObserver(sink.Observe))
	} else {
		ctrl, err = loadController(control.WithObserver(monitor.LogObserver(slog.Default())))
	}
	if err != nil {
		return err
	}

	if watchThreshold > 0 {
		ctrl.SetThresholdTrigger(true, watchThreshold)
	}
	if watchInterval > 0 {
		ctrl.SetIntervalTrigger(true, watchInterval)
	}

	if tui {
		err = runDashboard(ctx, ctrl, sink)
	} else {
		err = monitor.RunHeadless(ctx, ctrl, watchRefresh, slog.Default())
	}
	if err != nil {
		return err
	}
	return saveController(ctrl)
}

func runDashboard(ctx context.Context, ctrl *control.Controller, sink *monitor.EventSink) error {
	model := monitor.NewModel(ctx, ctrl, sink.Events(), watchRefresh)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}
