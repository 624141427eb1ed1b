package monitor

import "github.com/lakshaymaurya-felt/ramsweep/internal/control"

// EventSink buffers controller events for the dashboard. Register its
// Observe method with control.WithObserver.
type EventSink struct {
	ch chan control.Event
}

// NewEventSink creates a sink holding up to size undelivered events.
func NewEventSink(size int) *EventSink {
	if size < 1 {
		size = 1
	}
	return &EventSink{ch: make(chan control.Event, size)}
}

// Observe queues e. When the buffer is full the event is dropped so the
// controller never blocks on a slow renderer.
func (s *EventSink) Observe(e control.Event) {
	select {
	case s.ch <- e:
	default:
	}
}

// Events returns the receive side of the sink.
func (s *EventSink) Events() <-chan control.Event { return s.ch }
