package observer

import (
	"strconv"
	"strings"
)

// Mode is the tag of the entry state machine.
type Mode int

const (
	Idle Mode = iota
	EnteringLatitude
	EnteringLongitude
)

// String returns a short name for the mode.
func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case EnteringLatitude:
		return "latitude"
	case EnteringLongitude:
		return "longitude"
	default:
		return "unknown"
	}
}

// maxBuffer bounds the number of characters an entry can hold.
const maxBuffer = 12

// Entry is the keyboard entry state: a mode plus the degrees typed so far.
// The zero value is Idle. Transitions return a new Entry.
type Entry struct {
	mode Mode
	buf  string
}

// Mode returns the current state tag.
func (e Entry) Mode() Mode {
	return e.mode
}

// Buffer returns the characters typed so far.
func (e Entry) Buffer() string {
	return e.buf
}

// Active reports whether an entry is in progress.
func (e Entry) Active() bool {
	return e.mode != Idle
}

// BeginLatitude starts a latitude entry with an empty buffer, abandoning
// any entry in progress.
func (e Entry) BeginLatitude() Entry {
	return Entry{mode: EnteringLatitude}
}

// BeginLongitude starts a longitude entry with an empty buffer, abandoning
// any entry in progress.
func (e Entry) BeginLongitude() Entry {
	return Entry{mode: EnteringLongitude}
}

// Digit appends a character to the buffer. Accepted characters are the
// digits, a '-' as the first character, and a single '.'. The second result
// reports whether the character was taken; Idle takes nothing.
func (e Entry) Digit(r rune) (Entry, bool) {
	if e.mode == Idle || len(e.buf) >= maxBuffer {
		return e, false
	}
	switch {
	case r >= '0' && r <= '9':
	case r == '-' && e.buf == "":
	case r == '.' && !strings.Contains(e.buf, "."):
	default:
		return e, false
	}
	e.buf += string(r)
	return e, true
}

// Backspace removes the last character, if any.
func (e Entry) Backspace() Entry {
	if e.buf != "" {
		e.buf = e.buf[:len(e.buf)-1]
	}
	return e
}

// Cancel returns to Idle without touching the location.
func (e Entry) Cancel() Entry {
	return Entry{}
}

// Commit parses the buffer as degrees and applies it to the matching
// coordinate of s. The result is always Idle. A malformed or out-of-range
// buffer leaves s unchanged and is reported as an error. Committing while
// Idle does nothing.
func (e Entry) Commit(s *State) (Entry, error) {
	switch e.mode {
	case EnteringLatitude:
		deg, err := parseDegrees(e.buf)
		if err != nil {
			return Entry{}, err
		}
		return Entry{}, s.SetLatitudeDegrees(deg)
	case EnteringLongitude:
		deg, err := parseDegrees(e.buf)
		if err != nil {
			return Entry{}, err
		}
		return Entry{}, s.SetLongitudeDegrees(deg)
	default:
		return Entry{}, nil
	}
}

func parseDegrees(buf string) (float64, error) {
	v, err := strconv.ParseFloat(buf, 64)
	if err != nil {
		return 0, &MalformedError{Buffer: buf}
	}
	return v, nil
}

// MalformedError reports a buffer that does not parse as a number.
type MalformedError struct {
	Buffer string
}

func (e *MalformedError) Error() string {
	return strconv.Quote(e.Buffer) + " is not a number"
}

// Is makes MalformedError match ErrMalformed.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}
