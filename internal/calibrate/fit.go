package calibrate

import (
	"fmt"
	"math"
)

// Line is an ordinary least squares fit y = MeanY + Slope·(x - MeanX).
// Keeping the centroid instead of an intercept preserves precision when y
// is a Unix timestamp.
type Line struct {
	Slope float64
	MeanX float64
	MeanY float64
	N     int
	RMS   float64 // root mean square residual
}

// At evaluates the line.
func (l Line) At(x float64) float64 {
	return l.MeanY + l.Slope*(x-l.MeanX)
}

// FitLine fits a straight line through the points and returns it with the
// residual of each point.
func FitLine(xs, ys []float64) (Line, []float64, error) {
	if len(xs) != len(ys) {
		return Line{}, nil, fmt.Errorf("%w: %d x values, %d y values", ErrDegenerateFit, len(xs), len(ys))
	}
	n := len(xs)
	if n < 2 {
		return Line{}, nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrDegenerateFit, n)
	}

	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - mx
		sxx += dx * dx
		sxy += dx * (ys[i] - my)
	}
	if sxx == 0 {
		return Line{}, nil, fmt.Errorf("%w: all x values equal", ErrDegenerateFit)
	}

	line := Line{Slope: sxy / sxx, MeanX: mx, MeanY: my, N: n}

	residuals := make([]float64, n)
	var ss float64
	for i := range xs {
		residuals[i] = ys[i] - line.At(xs[i])
		ss += residuals[i] * residuals[i]
	}
	line.RMS = math.Sqrt(ss / float64(n))

	return line, residuals, nil
}
