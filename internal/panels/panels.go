// Package panels tracks which content items show their detail.
//
// Pointer devices disclose on hover and may show several items at once.
// Touch devices have no hover, so a tap toggles an item and closes the
// previous one.
package panels

import (
	"sort"
	"sync"
)

type Mode int

const (
	Hover Mode = iota
	Touch
)

func (m Mode) String() string {
	if m == Touch {
		return "touch"
	}
	return "hover"
}

// ModeFor picks the disclosure mode for a viewport.
func ModeFor(touch bool) Mode {
	if touch {
		return Touch
	}
	return Hover
}

type Set struct {
	mu      sync.Mutex
	mode    Mode
	hovered map[string]bool
	active  string
}

func New(mode Mode) *Set {
	return &Set{mode: mode, hovered: make(map[string]bool)}
}

func (s *Set) Mode() Mode { return s.mode }

// Hover opens id in hover mode. Ignored in touch mode.
func (s *Set) Hover(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == Hover {
		s.hovered[id] = true
	}
}

// Leave closes id in hover mode. Ignored in touch mode.
func (s *Set) Leave(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == Hover {
		delete(s.hovered, id)
	}
}

// LeaveAll closes every hovered id.
func (s *Set) LeaveAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.hovered)
}

// Tap toggles id in touch mode. Opening id closes whatever was open.
// Ignored in hover mode.
func (s *Set) Tap(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != Touch {
		return
	}
	if s.active == id {
		s.active = ""
		return
	}
	s.active = id
}

func (s *Set) Expanded(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == Touch {
		return id != "" && s.active == id
	}
	return s.hovered[id]
}

// Open returns the expanded ids, sorted.
func (s *Set) Open() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == Touch {
		if s.active == "" {
			return nil
		}
		return []string{s.active}
	}
	out := make([]string, 0, len(s.hovered))
	for id := range s.hovered {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
