package ui

import (
	"testing"

	"github.com/litescript/antikythera/internal/state"
)

func TestDecodeIdle(t *testing.T) {
	keys := KeyMap{Year: 31558144}

	tests := []struct {
		key  string
		rate float64
		want state.Command
	}{
		{"a", 1, state.BeginLatitudeEntry()},
		{"o", 1, state.BeginLongitudeEntry()},
		{"right", 1, state.AdvanceTime(3600)},
		{",", 1, state.AdvanceTime(-3600)},
		{"]", 1, state.AdvanceTime(86400)},
		{"[", 1, state.AdvanceTime(-86400)},
		{"}", 1, state.AdvanceTime(31558144)},
		{"{", 1, state.AdvanceTime(-31558144)},
		{"+", 10, state.SetRate(100)},
		{"-", 100, state.SetRate(10)},
		{"-", 1, state.SetRate(1)},
		{"-", -10, state.SetRate(-1)},
		{"+", 0, state.SetRate(1)},
		{"+", 1e7, state.SetRate(1e7)},
		{"r", 60, state.SetRate(-60)},
		{" ", 1, state.TogglePause()},
		{"n", 1, state.ResetToNow()},
	}
	for _, tt := range tests {
		got, ok := keys.Decode(tt.key, false, tt.rate)
		if !ok || got != tt.want {
			t.Errorf("Decode(%q, rate %v) = %+v, %v; want %+v", tt.key, tt.rate, got, ok, tt.want)
		}
	}

	for _, key := range []string{"x", "enter", "5"} {
		if _, ok := keys.Decode(key, false, 1); ok {
			t.Errorf("Decode(%q) while idle should not be a command", key)
		}
	}
}

func TestDecodeEntry(t *testing.T) {
	keys := KeyMap{Year: 1}

	tests := []struct {
		key  string
		want state.Command
	}{
		{"5", state.EnterDigit('5')},
		{"-", state.EnterDigit('-')},
		{".", state.EnterDigit('.')},
		{"x", state.EnterDigit('x')},
		{"enter", state.CommitEntry()},
		{"backspace", state.Backspace()},
		{"esc", state.CancelEntry()},
	}
	for _, tt := range tests {
		got, ok := keys.Decode(tt.key, true, 1)
		if !ok || got != tt.want {
			t.Errorf("Decode(%q) in entry = %+v, %v; want %+v", tt.key, got, ok, tt.want)
		}
	}

	if _, ok := keys.Decode("ctrl+a", true, 1); ok {
		t.Error("multi-character key names should not reach the buffer")
	}
}
