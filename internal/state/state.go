// Package state owns the mutable session: simulation clock, observer
// location and the entry state machine. Commands mutate it between frames;
// each frame reads one Snapshot.
package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/litescript/antikythera/internal/astro"
	"github.com/litescript/antikythera/internal/clock"
	"github.com/litescript/antikythera/internal/metrics"
	"github.com/litescript/antikythera/internal/observer"
)

// ErrUnknownCommand is returned for a command kind the session does not handle.
var ErrUnknownCommand = errors.New("unknown command")

// EventType represents the type of session event.
type EventType string

const (
	EventLatitudeSet    EventType = "LATITUDE_SET"
	EventLongitudeSet   EventType = "LONGITUDE_SET"
	EventEntryRejected  EventType = "ENTRY_REJECTED"
	EventEntryCancelled EventType = "ENTRY_CANCELLED"
	EventRateChanged    EventType = "RATE_CHANGED"
	EventPaused         EventType = "PAUSED"
	EventResumed        EventType = "RESUMED"
	EventReset          EventType = "RESET"
)

// Event records a user-visible session change.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Epoch     float64   `json:"epoch"`
	Detail    string    `json:"detail,omitempty"`
}

// Config holds configuration for the session.
type Config struct {
	Latitude  float64 // radians
	Longitude float64 // radians
	Start     time.Time
	Rate      float64
	MaxEvents int
	Now       func() time.Time
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Rate:      1,
		MaxEvents: 50, // Last 50 events
		Now:       time.Now,
	}
}

// Session handles all mutable application state.
type Session struct {
	mu sync.RWMutex

	clock    *clock.EpochClock
	observer *observer.State
	entry    observer.Entry
	now      func() time.Time

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// NewSession validates the configured location and creates a session. A
// zero Start means wall-clock now.
func NewSession(cfg Config) (*Session, error) {
	obs, err := observer.New(cfg.Latitude, cfg.Longitude)
	if err != nil {
		return nil, fmt.Errorf("observer location: %w", err)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	start := cfg.Start
	if start.IsZero() {
		start = now()
	}
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}

	clk := clock.NewAt(start)
	if cfg.Rate != 0 {
		clk.SetRate(cfg.Rate)
	}

	return &Session{
		clock:     clk,
		observer:  obs,
		now:       now,
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}, nil
}

// Apply executes one command. Validation failures are recovered here:
// the entry is discarded, the location is kept, an event is recorded and
// the error is returned for display. They are never fatal.
func (s *Session) Apply(cmd Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.apply(cmd)
	if cmd.Kind != CmdAdvanceTime {
		metrics.RecordCommand(cmd.Kind.String(), err == nil)
	}
	return err
}

func (s *Session) apply(cmd Command) error {
	switch cmd.Kind {
	case CmdAdvanceTime:
		s.clock.Advance(cmd.Delta)

	case CmdBeginLatitudeEntry:
		s.entry = s.entry.BeginLatitude()

	case CmdBeginLongitudeEntry:
		s.entry = s.entry.BeginLongitude()

	case CmdEnterDigit:
		var ok bool
		s.entry, ok = s.entry.Digit(cmd.Digit)
		if !ok {
			return fmt.Errorf("%q: %w", cmd.Digit, observer.ErrMalformed)
		}

	case CmdBackspace:
		s.entry = s.entry.Backspace()

	case CmdCancelEntry:
		if s.entry.Active() {
			s.addEvent(EventEntryCancelled, s.entry.Mode().String())
		}
		s.entry = s.entry.Cancel()

	case CmdCommitEntry:
		return s.commit()

	case CmdSetRate:
		s.clock.SetRate(cmd.Rate)
		s.addEvent(EventRateChanged, fmt.Sprintf("x%g", s.clock.Rate()))

	case CmdTogglePause:
		paused := !s.clock.Paused()
		s.clock.SetPaused(paused)
		if paused {
			s.addEvent(EventPaused, "")
		} else {
			s.addEvent(EventResumed, "")
		}

	case CmdResetToNow:
		s.clock.Set(clock.FromTime(s.now()))
		s.addEvent(EventReset, s.clock.Time().Format(time.RFC3339))

	default:
		return fmt.Errorf("%w: %v", ErrUnknownCommand, cmd.Kind)
	}
	return nil
}

// commit applies the buffered entry and records the outcome.
func (s *Session) commit() error {
	mode := s.entry.Mode()
	buf := s.entry.Buffer()

	var err error
	s.entry, err = s.entry.Commit(s.observer)
	if err != nil {
		s.addEvent(EventEntryRejected, fmt.Sprintf("%s %q: %v", mode, buf, err))
		return err
	}

	loc := s.observer.Location()
	switch mode {
	case observer.EnteringLatitude:
		s.addEvent(EventLatitudeSet, fmt.Sprintf("%.4f°", astro.RadToDeg(loc.Lat)))
	case observer.EnteringLongitude:
		s.addEvent(EventLongitudeSet, fmt.Sprintf("%.4f°", astro.RadToDeg(loc.Lon)))
	}
	return nil
}

// Tick advances the clock by elapsed wall time at the playback rate.
func (s *Session) Tick(elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.Tick(elapsed)
}

// addEvent adds an event to the ring buffer.
func (s *Session) addEvent(t EventType, detail string) {
	e := Event{
		Type:      t,
		Timestamp: s.now(),
		Epoch:     s.clock.Epoch(),
		Detail:    detail,
	}
	if len(s.events) < s.maxEvents {
		s.events = append(s.events, e)
	} else {
		s.events[s.eventWriteAt] = e
		s.eventWriteAt = (s.eventWriteAt + 1) % s.maxEvents
	}
}

// Snapshot represents an immutable snapshot of the session, read at one
// instant so every body in a frame sees the same epoch and location.
type Snapshot struct {
	Epoch    float64
	Observer astro.Observer
	Entry    observer.Entry
	Rate     float64
	Paused   bool
	Events   []Event
}

// Time returns the snapshot epoch as a UTC time.
func (s Snapshot) Time() time.Time {
	return clock.ToTime(s.Epoch)
}

// Snapshot returns a consistent snapshot of current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Epoch:    s.clock.Epoch(),
		Observer: s.observer.Location(),
		Entry:    s.entry,
		Rate:     s.clock.Rate(),
		Paused:   s.clock.Paused(),
		Events:   s.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (s *Session) getEventsOrdered() []Event {
	if len(s.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(s.events) < s.maxEvents {
		result := make([]Event, len(s.events))
		copy(result, s.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, s.maxEvents)
	for i := 0; i < s.maxEvents; i++ {
		idx := (s.eventWriteAt + i) % s.maxEvents
		result[i] = s.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (s *Session) RecentEvents(n int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}
