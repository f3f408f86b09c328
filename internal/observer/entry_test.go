package observer

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/antikythera/internal/astro"
)

func typeString(e Entry, s string) Entry {
	for _, r := range s {
		e, _ = e.Digit(r)
	}
	return e
}

func TestEntryZeroValueIsIdle(t *testing.T) {
	var e Entry
	if e.Mode() != Idle || e.Active() {
		t.Errorf("zero Entry mode = %v", e.Mode())
	}
	if _, ok := e.Digit('5'); ok {
		t.Error("Idle accepted a digit")
	}
}

func TestEntryDigitFilter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"digits", "4512", "4512"},
		{"leading minus", "-33.9", "-33.9"},
		{"minus after digit ignored", "3-3", "33"},
		{"second dot ignored", "1.2.3", "1.23"},
		{"letters ignored", "4a5b", "45"},
		{"second minus ignored", "--7", "-7"},
		{"length capped", "1234567890123456", "123456789012"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := typeString(Entry{}.BeginLatitude(), tt.input)
			if e.Buffer() != tt.want {
				t.Errorf("buffer = %q, want %q", e.Buffer(), tt.want)
			}
		})
	}
}

func TestEntryBeginResetsBuffer(t *testing.T) {
	e := typeString(Entry{}.BeginLatitude(), "12")
	e = e.BeginLongitude()
	if e.Mode() != EnteringLongitude || e.Buffer() != "" {
		t.Errorf("got mode %v buffer %q", e.Mode(), e.Buffer())
	}
}

func TestEntryBackspaceAndCancel(t *testing.T) {
	e := typeString(Entry{}.BeginLongitude(), "-12")
	e = e.Backspace()
	if e.Buffer() != "-1" {
		t.Errorf("buffer = %q, want -1", e.Buffer())
	}
	e = e.Backspace().Backspace().Backspace()
	if e.Buffer() != "" || e.Mode() != EnteringLongitude {
		t.Errorf("buffer = %q mode = %v", e.Buffer(), e.Mode())
	}

	s, _ := New(0, 0)
	e = typeString(e, "45").Cancel()
	if e.Mode() != Idle {
		t.Errorf("mode after cancel = %v", e.Mode())
	}
	if s.Location().Lon != 0 {
		t.Error("cancel mutated location")
	}
}

func TestEntryCommitLatitude(t *testing.T) {
	s, _ := New(0, 0)
	e := typeString(Entry{}.BeginLatitude(), "-33.87")

	e, err := e.Commit(s)
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if e.Mode() != Idle {
		t.Errorf("mode = %v, want idle", e.Mode())
	}
	if got := astro.RadToDeg(s.Location().Lat); math.Abs(got+33.87) > 1e-9 {
		t.Errorf("lat = %v", got)
	}
}

func TestEntryCommitOutOfRangeLatitude(t *testing.T) {
	s, _ := New(astro.DegToRad(40), 0)
	e := typeString(Entry{}.BeginLatitude(), "91")

	e, err := e.Commit(s)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("error = %v, want ErrOutOfRange", err)
	}
	if e.Mode() != Idle {
		t.Errorf("mode = %v, want idle", e.Mode())
	}
	if got := astro.RadToDeg(s.Location().Lat); math.Abs(got-40) > 1e-9 {
		t.Errorf("lat = %v, want 40", got)
	}
}

func TestEntryCommitMalformedLongitude(t *testing.T) {
	for _, buf := range []string{"", "-", ".", "-."} {
		s, _ := New(0, astro.DegToRad(-75))
		e := typeString(Entry{}.BeginLongitude(), buf)

		e, err := e.Commit(s)
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("%q: error = %v, want ErrMalformed", buf, err)
		}
		if e.Mode() != Idle {
			t.Errorf("%q: mode = %v, want idle", buf, e.Mode())
		}
		if got := astro.RadToDeg(s.Location().Lon); math.Abs(got+75) > 1e-9 {
			t.Errorf("%q: lon = %v, want -75", buf, got)
		}
	}
}

func TestEntryCommitIdle(t *testing.T) {
	s, _ := New(0.5, 0.5)
	e, err := Entry{}.Commit(s)
	if err != nil || e.Mode() != Idle {
		t.Errorf("idle commit: mode %v err %v", e.Mode(), err)
	}
	if s.Location() != (astro.Observer{Lat: 0.5, Lon: 0.5}) {
		t.Errorf("location changed: %+v", s.Location())
	}
}
