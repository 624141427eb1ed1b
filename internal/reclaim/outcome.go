// Package reclaim trims process working sets and flushes the system file
// cache.
package reclaim

// Status is whether a trim request took effect.
type Status int

const (
	StatusSkipped Status = iota
	StatusTrimmed
)

// Reason explains why a trim was skipped.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonExited means the process was gone before a handle could be opened.
	ReasonExited
	// ReasonAccessDenied means the OS refused a handle (protected process or
	// insufficient rights).
	ReasonAccessDenied
	// ReasonRejected means the handle was opened but the OS reported failure.
	ReasonRejected
	// ReasonUnsupported means the platform cannot trim another process.
	ReasonUnsupported
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonExited:
		return "exited"
	case ReasonAccessDenied:
		return "access denied"
	case ReasonRejected:
		return "rejected"
	case ReasonUnsupported:
		return "unsupported"
	}
	return "unknown"
}

// MarshalText encodes the reason by its label.
func (r Reason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Outcome is the result of one trim attempt.
type Outcome struct {
	Status Status
	Reason Reason
}

// Trimmed reports whether the working set was released.
func (o Outcome) Trimmed() bool { return o.Status == StatusTrimmed }

func trimmed() Outcome { return Outcome{Status: StatusTrimmed} }

func skipped(r Reason) Outcome { return Outcome{Status: StatusSkipped, Reason: r} }

// FlushOutcome is the result of a cache flush.
type FlushOutcome int

const (
	// FlushSkipped means the caller lacks the privilege and nothing was attempted.
	FlushSkipped FlushOutcome = iota
	// FlushFailed means the request was issued and the OS refused it.
	FlushFailed
	// FlushIssued means the cap-and-release sequence was issued. It does not
	// confirm any pages were evicted.
	FlushIssued
)

func (f FlushOutcome) String() string {
	switch f {
	case FlushSkipped:
		return "skipped"
	case FlushFailed:
		return "failed"
	case FlushIssued:
		return "issued"
	}
	return "unknown"
}

// MarshalText encodes the outcome by its label.
func (f FlushOutcome) MarshalText() ([]byte, error) { return []byte(f.String()), nil }
