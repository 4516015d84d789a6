// Package telemetry keeps an optional local log of boot and visit events.
// Client addresses are stored only as salted hashes.
package telemetry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type Kind string

const (
	BootStarted  Kind = "boot_started"
	BootSkipped  Kind = "boot_skipped"
	BootRevealed Kind = "boot_revealed"
	Visit        Kind = "visit"
)

type Event struct {
	Kind      Kind      `json:"kind"`
	At        time.Time `json:"at"`
	HashedIP  string    `json:"hashed_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Path      string    `json:"path,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }

// Memory keeps events in a slice. Safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Record(_ context.Context, e Event) error {
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Count returns how many events of kind k were recorded.
func (m *Memory) Count(k Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// HashIP returns a truncated salted SHA-256 of ip. The same ip and salt
// always hash the same.
func HashIP(ip, salt string) string {
	h := sha256.New()
	h.Write([]byte(ip + salt))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
