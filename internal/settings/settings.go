// Package settings persists the whitelist and auto-clean policy between runs.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lakshaymaurya-felt/ramsweep/internal/control"
	"github.com/lakshaymaurya-felt/ramsweep/internal/schedule"
)

const (
	appDir   = "ramsweep"
	fileName = "settings.yaml"
)

// File is the on-disk settings document.
type File struct {
	Whitelist []string  `yaml:"whitelist"`
	AutoClean AutoClean `yaml:"auto_clean"`
}

// AutoClean holds both auto-clean arms.
type AutoClean struct {
	Threshold Threshold `yaml:"threshold"`
	Interval  Interval  `yaml:"interval"`
}

// Threshold is the usage-threshold arm.
type Threshold struct {
	Enabled bool `yaml:"enabled"`
	Percent int  `yaml:"percent"`
}

// Interval is the fixed-interval arm.
type Interval struct {
	Enabled bool `yaml:"enabled"`
	Minutes int  `yaml:"minutes"`
}

// Default returns settings with both arms off and an empty whitelist.
func Default() File {
	return File{
		AutoClean: AutoClean{
			Threshold: Threshold{Percent: schedule.DefaultThresholdPercent},
			Interval:  Interval{Minutes: schedule.DefaultIntervalMinutes},
		},
	}
}

// DefaultPath returns <UserConfigDir>/ramsweep/settings.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Load reads settings from path. A missing file yields Default. Zero or
// out-of-range numbers fall back to the defaults.
func Load(path string) (File, error) {
	f := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return f, nil
		}
		return f, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Default(), fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	if f.AutoClean.Threshold.Percent < 1 || f.AutoClean.Threshold.Percent > 100 {
		f.AutoClean.Threshold.Percent = schedule.DefaultThresholdPercent
	}
	if f.AutoClean.Interval.Minutes < 1 {
		f.AutoClean.Interval.Minutes = schedule.DefaultIntervalMinutes
	}
	return f, nil
}

// Save writes f to path, creating the parent directory. The write goes to a
// temporary file that is renamed into place.
func Save(path string, f File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, fileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}

// Apply pushes f into ctrl.
func Apply(ctrl *control.Controller, f File) {
	for _, name := range f.Whitelist {
		ctrl.AddToWhitelist(name)
	}
	ctrl.SetThresholdTrigger(f.AutoClean.Threshold.Enabled, f.AutoClean.Threshold.Percent)
	ctrl.SetIntervalTrigger(f.AutoClean.Interval.Enabled, f.AutoClean.Interval.Minutes)
}

// Capture reads the persistable state back out of ctrl.
func Capture(ctrl *control.Controller) File {
	p := ctrl.Policy()
	return File{
		Whitelist: ctrl.ListWhitelist(),
		AutoClean: AutoClean{
			Threshold: Threshold{Enabled: p.ThresholdEnabled, Percent: p.ThresholdPercent},
			Interval:  Interval{Enabled: p.IntervalEnabled, Minutes: p.IntervalMinutes},
		},
	}
}
