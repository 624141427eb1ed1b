package control

import "time"

// EventKind classifies controller events.
type EventKind int

const (
	// EventTrigger is emitted when an auto-clean arm fires, before the clean.
	EventTrigger EventKind = iota
	// EventCleaned is emitted after every memory clean.
	EventCleaned
	// EventNotify is emitted when a clean is worth a user notification:
	// always for manual cleans, otherwise only when memory was freed.
	EventNotify
	// EventPolicy is emitted when an auto-clean arm is toggled.
	EventPolicy
	// EventWhitelist is emitted when the whitelist changes.
	EventWhitelist
	// EventDisk is emitted after each category of an asynchronous disk clean.
	EventDisk
)

func (k EventKind) String() string {
	switch k {
	case EventTrigger:
		return "trigger"
	case EventCleaned:
		return "cleaned"
	case EventNotify:
		return "notify"
	case EventPolicy:
		return "policy"
	case EventWhitelist:
		return "whitelist"
	case EventDisk:
		return "disk"
	}
	return "unknown"
}

// Event is something the controller reports to its observer.
type Event struct {
	Time    time.Time
	Kind    EventKind
	Message string

	// Report is set for EventCleaned and EventNotify.
	Report *MemoryReport
}

// Observer receives controller events. It may be called with the
// controller's lock held and from background goroutines, so it must not call
// back into the Controller and should return quickly.
type Observer func(Event)
