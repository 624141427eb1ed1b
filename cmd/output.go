package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/ramsweep/internal/ui"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func success(msg string) string {
	return lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render(ui.IconSuccess + " " + msg)
}

func warning(msg string) string {
	return lipgloss.NewStyle().Foreground(ui.ColorWarning).Render("! " + msg)
}

func failure(msg string) string {
	return lipgloss.NewStyle().Foreground(ui.ColorError).Render(ui.IconError + " " + msg)
}

// row renders an aligned "label  value" line.
func row(label, value string) string {
	return fmt.Sprintf("  %-12s %s", label, value)
}
