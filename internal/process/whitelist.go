package process

import (
	"sort"
	"strings"
)

// Whitelist is a user-maintained set of process names that must not be
// trimmed. Matching is case-insensitive; the first spelling added is kept
// for display. Not safe for concurrent mutation.
type Whitelist struct {
	names map[string]string
}

// NewWhitelist creates a whitelist seeded with names.
func NewWhitelist(names ...string) *Whitelist {
	wl := &Whitelist{names: make(map[string]string, len(names))}
	for _, n := range names {
		wl.Add(n)
	}
	return wl
}

// Add inserts name. It reports false when the name is blank or already present.
func (w *Whitelist) Add(name string) bool {
	name = strings.TrimSpace(name)
	key := normalizeName(name)
	if key == "" {
		return false
	}
	if _, ok := w.names[key]; ok {
		return false
	}
	w.names[key] = name
	return true
}

// Remove deletes name. It reports whether anything was removed.
func (w *Whitelist) Remove(name string) bool {
	key := normalizeName(name)
	if _, ok := w.names[key]; !ok {
		return false
	}
	delete(w.names, key)
	return true
}

// Contains reports whether name is whitelisted.
func (w *Whitelist) Contains(name string) bool {
	_, ok := w.names[normalizeName(name)]
	return ok
}

// List returns the whitelisted names sorted case-insensitively.
func (w *Whitelist) List() []string {
	out := make([]string, 0, len(w.names))
	for _, n := range w.names {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Len returns the number of entries.
func (w *Whitelist) Len() int {
	return len(w.names)
}
