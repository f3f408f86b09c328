package clock

import (
	"math"
	"testing"
	"time"
)

func TestAdvance(t *testing.T) {
	c := New(1000)

	c.Advance(500)
	if c.Epoch() != 1500 {
		t.Errorf("after +500: %v, want 1500", c.Epoch())
	}

	c.Advance(-3000)
	if c.Epoch() != -1500 {
		t.Errorf("after -3000: %v, want -1500", c.Epoch())
	}

	c.Advance(1e15)
	if c.Epoch() != 1e15-1500 {
		t.Errorf("large jump: %v", c.Epoch())
	}
}

func TestSet(t *testing.T) {
	c := New(0)
	c.Set(42.5)
	if c.Epoch() != 42.5 {
		t.Errorf("Set: %v", c.Epoch())
	}
}

func TestTick(t *testing.T) {
	c := New(0)

	if d := c.Tick(2 * time.Second); d != 2 || c.Epoch() != 2 {
		t.Errorf("rate 1: delta %v epoch %v", d, c.Epoch())
	}

	c.SetRate(-3600)
	c.Tick(time.Second)
	if c.Epoch() != 2-3600 {
		t.Errorf("rate -3600: epoch %v", c.Epoch())
	}

	c.SetPaused(true)
	if d := c.Tick(time.Hour); d != 0 || c.Epoch() != 2-3600 {
		t.Errorf("paused: delta %v epoch %v", d, c.Epoch())
	}
}

func TestSetRate(t *testing.T) {
	c := New(0)

	c.SetRate(1e12)
	if c.Rate() != MaxRate {
		t.Errorf("rate = %v, want %v", c.Rate(), MaxRate)
	}
	c.SetRate(-1e12)
	if c.Rate() != MinRate {
		t.Errorf("rate = %v, want %v", c.Rate(), MinRate)
	}
	c.SetRate(60)
	c.SetRate(math.NaN())
	if c.Rate() != 60 {
		t.Errorf("NaN changed rate to %v", c.Rate())
	}
}

func TestTimeConversion(t *testing.T) {
	tests := []struct {
		name  string
		time  time.Time
		epoch float64
	}{
		{"unix zero", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{"j2000", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 946728000},
		{"before 1970", time.Date(1969, 12, 31, 23, 59, 59, 500000000, time.UTC), -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromTime(tt.time); got != tt.epoch {
				t.Errorf("FromTime() = %v, want %v", got, tt.epoch)
			}
			if got := ToTime(tt.epoch); !got.Equal(tt.time) {
				t.Errorf("ToTime() = %v, want %v", got, tt.time)
			}
		})
	}
}

func TestToTimeSaturates(t *testing.T) {
	if got := ToTime(math.Inf(1)); got.Year() < 2100 {
		t.Errorf("ToTime(+Inf) = %v", got)
	}
	if got := ToTime(math.NaN()); got.Unix() != 0 {
		t.Errorf("ToTime(NaN) = %v", got)
	}
}

func TestNewAt(t *testing.T) {
	at := time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC)
	c := NewAt(at)
	if !c.Time().Equal(at) {
		t.Errorf("Time() = %v, want %v", c.Time(), at)
	}
	if c.Rate() != 1 || c.Paused() {
		t.Errorf("new clock rate %v paused %v", c.Rate(), c.Paused())
	}
}
