package trendline

import "math"

// FindPIPs reduces data to at most n perceptually important points. The two
// endpoints come first; every further point is the one with the largest
// vertical distance from the segment joining its current neighbours.
// The returned x values are sorted ascending. When n covers the whole slice
// every point is returned; collinear leftovers are never selected.
func FindPIPs(data []float64, n int) ([]int, []float64) {
	if len(data) == 0 || n <= 0 {
		return nil, nil
	}
	if n >= len(data) {
		xs := make([]int, len(data))
		for i := range xs {
			xs[i] = i
		}
		return xs, append([]float64(nil), data...)
	}

	xs := []int{0, len(data) - 1}
	for len(xs) < n {
		best, bestIdx, insertAt := 0.0, -1, -1
		for k := 0; k+1 < len(xs); k++ {
			left, right := xs[k], xs[k+1]
			slope := (data[right] - data[left]) / float64(right-left)
			for i := left + 1; i < right; i++ {
				d := math.Abs(data[left] + slope*float64(i-left) - data[i])
				if d > best {
					best, bestIdx, insertAt = d, i, k+1
				}
			}
		}
		if bestIdx < 0 {
			break
		}
		xs = append(xs, 0)
		copy(xs[insertAt+1:], xs[insertAt:])
		xs[insertAt] = bestIdx
	}

	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = data[x]
	}
	return xs, ys
}
