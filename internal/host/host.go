// Package host models the surface a backdrop is mounted into: a viewport
// that emits pointer and resize events to registered listeners.
//
// Front ends (terminal, window) translate their native input into [Event]
// values and call [Host.Emit]. Components subscribe with [Host.On] and must
// call the returned cancel func when they unmount.
package host

import (
	"sync"
)

// Kind identifies an event stream.
type Kind int

const (
	PointerMove Kind = iota
	PointerLeave
	Resize
)

func (k Kind) String() string {
	switch k {
	case PointerMove:
		return "pointermove"
	case PointerLeave:
		return "pointerleave"
	case Resize:
		return "resize"
	default:
		return "unknown"
	}
}

// Event carries pointer coordinates (pixels) or the new viewport size.
type Event struct {
	Kind          Kind
	X, Y          int
	Width, Height int
}

type Handler func(Event)

// Host is a listener registry plus the current viewport size. Safe for
// concurrent use.
type Host struct {
	mu        sync.Mutex
	listeners map[Kind]map[int]Handler
	nextID    int
	width     int
	height    int
}

func New(width, height int) *Host {
	return &Host{
		listeners: make(map[Kind]map[int]Handler),
		width:     width,
		height:    height,
	}
}

// On registers h for events of kind k. The returned func removes it and is
// safe to call more than once.
func (h *Host) On(k Kind, fn Handler) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.listeners[k] == nil {
		h.listeners[k] = make(map[int]Handler)
	}
	id := h.nextID
	h.nextID++
	h.listeners[k][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners[k], id)
			h.mu.Unlock()
		})
	}
}

// Emit delivers e to every listener of its kind. Resize events also update
// the stored viewport size. Handlers run outside the lock.
func (h *Host) Emit(e Event) {
	h.mu.Lock()
	if e.Kind == Resize {
		h.width, h.height = e.Width, e.Height
	}
	handlers := make([]Handler, 0, len(h.listeners[e.Kind]))
	for _, fn := range h.listeners[e.Kind] {
		handlers = append(handlers, fn)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(e)
	}
}

// Size returns the current viewport size in pixels.
func (h *Host) Size() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

// ListenerCount reports registered listeners for the given kinds, or for
// all kinds when none are given.
func (h *Host) ListenerCount(kinds ...Kind) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(kinds) == 0 {
		n := 0
		for _, m := range h.listeners {
			n += len(m)
		}
		return n
	}
	n := 0
	for _, k := range kinds {
		n += len(h.listeners[k])
	}
	return n
}
