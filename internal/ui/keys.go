package ui

import (
	"math"
	"unicode/utf8"

	"github.com/litescript/antikythera/internal/clock"
	"github.com/litescript/antikythera/internal/state"
)

// Time jumps, seconds.
const (
	stepHour = 3600
	stepDay  = 86400
)

// rateFactor is the multiplier applied by the faster/slower keys.
const rateFactor = 10

// KeyMap decodes key presses into session commands.
type KeyMap struct {
	// Year is the jump for the year keys, normally the sidereal year.
	Year float64
}

// Decode maps a key to a session command. While an entry is active every
// printable key goes to the entry buffer; the state machine decides what
// it accepts. The second result is false for keys that are not commands.
func (k KeyMap) Decode(key string, entryActive bool, rate float64) (state.Command, bool) {
	if entryActive {
		switch key {
		case "enter":
			return state.CommitEntry(), true
		case "backspace":
			return state.Backspace(), true
		case "esc":
			return state.CancelEntry(), true
		}
		if r, size := utf8.DecodeRuneInString(key); size == len(key) && r != utf8.RuneError {
			return state.EnterDigit(r), true
		}
		return state.Command{}, false
	}

	switch key {
	case "a":
		return state.BeginLatitudeEntry(), true
	case "o":
		return state.BeginLongitudeEntry(), true

	case "right", ".":
		return state.AdvanceTime(stepHour), true
	case "left", ",":
		return state.AdvanceTime(-stepHour), true
	case "]":
		return state.AdvanceTime(stepDay), true
	case "[":
		return state.AdvanceTime(-stepDay), true
	case "}":
		return state.AdvanceTime(k.Year), true
	case "{":
		return state.AdvanceTime(-k.Year), true

	case "+", "=":
		return state.SetRate(stepRate(rate, rateFactor)), true
	case "-", "_":
		return state.SetRate(stepRate(rate, 1.0/rateFactor)), true
	case "r":
		return state.SetRate(-rate), true
	case " ", "space":
		return state.TogglePause(), true
	case "n":
		return state.ResetToNow(), true
	}
	return state.Command{}, false
}

// stepRate scales the playback rate, restarting from ±1 when the rate is
// zero and clamping at the clock limits.
func stepRate(rate, factor float64) float64 {
	if rate == 0 {
		return 1
	}
	next := rate * factor
	if math.Abs(next) < 1 && math.Abs(rate) >= 1 && factor < 1 {
		// Slowing below real time stays at real time; use pause to stop.
		return math.Copysign(1, rate)
	}
	return math.Max(clock.MinRate, math.Min(clock.MaxRate, next))
}
