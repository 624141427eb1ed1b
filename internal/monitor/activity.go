package monitor

import (
	"fmt"
	"sync"
	"time"
)

// MaxActivity is the number of entries the activity log keeps.
const MaxActivity = 100

// Entry is one line of the activity log.
type Entry struct {
	Time    time.Time
	Message string
}

// String renders the entry as "[15:04:05] message".
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format("15:04:05"), e.Message)
}

// ActivityLog keeps the most recent entries, newest first.
type ActivityLog struct {
	mu      sync.Mutex
	entries []Entry
}

// Add records a message. The oldest entry is dropped once the log is full.
func (l *ActivityLog) Add(at time.Time, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = Entry{Time: at, Message: msg}
	if len(l.entries) > MaxActivity {
		l.entries = l.entries[:MaxActivity]
	}
}

// Entries returns up to n entries, newest first. n <= 0 returns all.
func (l *ActivityLog) Entries(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[:n])
	return out
}

// Len returns the number of entries held.
func (l *ActivityLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
