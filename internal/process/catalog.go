// Package process enumerates running processes and decides which of them
// may have their working sets trimmed.
package process

import (
	"context"
	"iter"
	"log/slog"

	psproc "github.com/shirou/gopsutil/v4/process"
)

// Descriptor identifies one running process.
type Descriptor struct {
	PID  int32  `json:"pid"`
	Name string `json:"name"`
}

// Class is the result of classifying a process against the exclusion rules.
type Class int

const (
	ClassEligible Class = iota
	ClassReserved
	ClassCritical
	ClassWhitelisted
)

// String returns a short label for display.
func (c Class) String() string {
	switch c {
	case ClassEligible:
		return "eligible"
	case ClassReserved:
		return "reserved"
	case ClassCritical:
		return "critical"
	case ClassWhitelisted:
		return "whitelisted"
	}
	return "unknown"
}

// MarshalText encodes the class by its label.
func (c Class) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Catalog enumerates the process table.
type Catalog interface {
	Enumerate(ctx context.Context) iter.Seq[Descriptor]
}

// SystemCatalog reads the live process table through gopsutil.
type SystemCatalog struct {
	logger *slog.Logger
}

// NewSystemCatalog creates a catalog over the host's process table.
func NewSystemCatalog(logger *slog.Logger) *SystemCatalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &SystemCatalog{logger: logger}
}

// Enumerate lists PIDs once and then resolves names lazily as the sequence
// is consumed. Processes that exit before their name is read are skipped.
func (c *SystemCatalog) Enumerate(ctx context.Context) iter.Seq[Descriptor] {
	return func(yield func(Descriptor) bool) {
		pids, err := psproc.PidsWithContext(ctx)
		if err != nil {
			c.logger.Debug("process enumeration failed", "error", err)
			return
		}

		for _, pid := range pids {
			if ctx.Err() != nil {
				return
			}
			d := Descriptor{PID: pid}
			if !isReservedPID(pid) {
				p, err := psproc.NewProcessWithContext(ctx, pid)
				if err != nil {
					continue // exited mid-enumeration
				}
				name, err := p.NameWithContext(ctx)
				if err != nil || name == "" {
					continue
				}
				d.Name = name
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Classify applies the exclusion rules in order: reserved PID, critical
// image name, whitelisted name. Anything else is eligible.
func Classify(d Descriptor, wl *Whitelist) Class {
	switch {
	case isReservedPID(d.PID):
		return ClassReserved
	case IsCritical(d.Name):
		return ClassCritical
	case wl != nil && wl.Contains(d.Name):
		return ClassWhitelisted
	}
	return ClassEligible
}

// Eligible filters a descriptor sequence down to trimmable processes.
func Eligible(seq iter.Seq[Descriptor], wl *Whitelist) iter.Seq[Descriptor] {
	return func(yield func(Descriptor) bool) {
		for d := range seq {
			if Classify(d, wl) != ClassEligible {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}
