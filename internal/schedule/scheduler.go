// Package schedule decides when automatic memory cleans run.
package schedule

import (
	"fmt"
	"time"
)

const (
	// ThresholdCooldown is the minimum gap between two threshold-triggered cleans.
	ThresholdCooldown = 60 * time.Second

	DefaultThresholdPercent = 80
	DefaultIntervalMinutes  = 30
)

// Trigger identifies what caused a clean.
type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerThreshold
	TriggerInterval
	TriggerManual
)

func (t Trigger) String() string {
	switch t {
	case TriggerNone:
		return "none"
	case TriggerThreshold:
		return "threshold"
	case TriggerInterval:
		return "interval"
	case TriggerManual:
		return "manual"
	}
	return "unknown"
}

// Policy is the auto-clean state. The two Last* stamps never move backwards.
type Policy struct {
	ThresholdEnabled   bool      `json:"threshold_enabled"`
	ThresholdPercent   int       `json:"threshold_percent"`
	LastThresholdClean time.Time `json:"last_threshold_clean"`

	IntervalEnabled   bool      `json:"interval_enabled"`
	IntervalMinutes   int       `json:"interval_minutes"`
	LastIntervalClean time.Time `json:"last_interval_clean"`
}

// Describe renders the trigger reason for the activity log.
func (p Policy) Describe(t Trigger, loadPercent int) string {
	switch t {
	case TriggerThreshold:
		return fmt.Sprintf("Trigger: Usage %d%% >= %d%%", loadPercent, p.ThresholdPercent)
	case TriggerInterval:
		return fmt.Sprintf("Trigger: Timer (%d min elapsed)", p.IntervalMinutes)
	case TriggerManual:
		return "Trigger: Manual"
	}
	return ""
}

// CleanFunc performs a memory clean on behalf of the scheduler.
type CleanFunc func(Trigger)

// Scheduler evaluates the threshold and interval arms once per sampling tick.
// It expects a single caller and does no locking.
type Scheduler struct {
	policy Policy
	clock  Clock
	clean  CleanFunc
}

// New creates a scheduler with both arms disabled. The interval reference
// starts at construction time so the first interval clean is a full period away.
func New(clock Clock, clean CleanFunc) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{
		clock: clock,
		clean: clean,
		policy: Policy{
			ThresholdPercent:  DefaultThresholdPercent,
			IntervalMinutes:   DefaultIntervalMinutes,
			LastIntervalClean: clock.Now(),
		},
	}
}

// State returns a copy of the policy.
func (s *Scheduler) State() Policy { return s.policy }

// SetThresholdTrigger configures the usage-threshold arm. Cooldown history is
// kept, so re-enabling within the cooldown does not clean immediately.
func (s *Scheduler) SetThresholdTrigger(enabled bool, percent int) {
	s.policy.ThresholdEnabled = enabled
	s.policy.ThresholdPercent = clamp(percent, 1, 100)
}

// SetIntervalTrigger configures the fixed-interval arm. Turning it on resets
// the interval reference to now.
func (s *Scheduler) SetIntervalTrigger(enabled bool, minutes int) {
	if enabled && !s.policy.IntervalEnabled {
		s.stamp(&s.policy.LastIntervalClean)
	}
	s.policy.IntervalEnabled = enabled
	if minutes < 1 {
		minutes = 1
	}
	s.policy.IntervalMinutes = minutes
}

// OnTick evaluates both arms against the current load and runs at most one
// clean. It returns the arm that fired.
func (s *Scheduler) OnTick(loadPercent int) Trigger {
	now := s.clock.Now()

	if s.policy.ThresholdEnabled &&
		loadPercent >= s.policy.ThresholdPercent &&
		now.Sub(s.policy.LastThresholdClean) > ThresholdCooldown {
		s.fire(TriggerThreshold)
		s.stamp(&s.policy.LastThresholdClean)
		return TriggerThreshold
	}

	if s.policy.IntervalEnabled &&
		now.Sub(s.policy.LastIntervalClean) >= time.Duration(s.policy.IntervalMinutes)*time.Minute {
		s.fire(TriggerInterval)
		s.stamp(&s.policy.LastIntervalClean)
		return TriggerInterval
	}

	return TriggerNone
}

func (s *Scheduler) fire(t Trigger) {
	if s.clean != nil {
		s.clean(t)
	}
}

// stamp sets *at to now unless that would move it backwards.
func (s *Scheduler) stamp(at *time.Time) {
	if now := s.clock.Now(); now.After(*at) {
		*at = now
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
