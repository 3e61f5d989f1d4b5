// Package trendline fits boundary lines to short price windows. Two strategies
// are provided: perceptually important points and an iterated least-squares
// fit. X coordinates are offsets from the first element of the window.
package trendline

// Line is y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// Intersection returns the x where a and b cross. Parallel lines have no
// crossing, so sentinel is returned instead; callers pass a value that falls
// outside any window they care about.
func Intersection(a, b Line, sentinel float64) float64 {
	if a.Slope == b.Slope {
		return sentinel
	}
	return (b.Intercept - a.Intercept) / (a.Slope - b.Slope)
}
