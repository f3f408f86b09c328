package astro

import (
	"math"
	"testing"
)

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name string
		a, b Equatorial
		want float64
	}{
		{"same point", Equatorial{1, 0.2}, Equatorial{1, 0.2}, 0},
		{"quarter along equator", Equatorial{0, 0}, Equatorial{math.Pi / 2, 0}, math.Pi / 2},
		{"opposite", Equatorial{0, 0}, Equatorial{math.Pi, 0}, math.Pi},
		{"pole to equator", Equatorial{0, math.Pi / 2}, Equatorial{2, 0}, math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AngularSeparation(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AngularSeparation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVectorSeparation(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want float64
	}{
		{"parallel, different lengths", Vec3{1, 1, 0}, Vec3{3, 3, 0}, 0},
		{"right angle", Vec3{2, 0, 0}, Vec3{0, 0, 5}, math.Pi / 2},
		{"opposite", Vec3{0, 1, 0}, Vec3{0, -4, 0}, math.Pi},
		{"forty-five", Vec3{1, 0, 0}, Vec3{1, 1, 0}, math.Pi / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VectorSeparation(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("VectorSeparation = %v, want %v", got, tt.want)
			}
		})
	}

	if got := VectorSeparation(Vec3{}, Vec3{1, 0, 0}); !math.IsNaN(got) {
		t.Errorf("VectorSeparation(zero) = %v, want NaN", got)
	}
}

func TestIlluminatedFraction(t *testing.T) {
	tests := []struct {
		elongation float64
		want       float64
	}{
		{0, 0},             // new
		{math.Pi / 2, 0.5}, // quarter
		{math.Pi, 1},       // full
	}
	for _, tt := range tests {
		if got := IlluminatedFraction(tt.elongation); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("IlluminatedFraction(%v) = %v, want %v", tt.elongation, got, tt.want)
		}
	}
}
