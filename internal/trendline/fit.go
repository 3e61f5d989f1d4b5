package trendline

// MaxIterations bounds the refit loop in FitSingle.
const MaxIterations = 10

// FitSingle returns a support and a resistance line for data. Each side starts
// from an ordinary least-squares fit; points on the wrong side of the line are
// dropped and the fit repeated until the point set stops shrinking. The final
// line is shifted so that it touches the outermost point, which makes support
// lie on or below every value and resistance on or above.
func FitSingle(data []float64) (support, resist Line) {
	switch len(data) {
	case 0:
		return Line{}, Line{}
	case 1:
		return Line{Intercept: data[0]}, Line{Intercept: data[0]}
	}
	return fitBound(data, false), fitBound(data, true)
}

func fitBound(data []float64, upper bool) Line {
	idx := make([]int, len(data))
	for i := range idx {
		idx[i] = i
	}
	line := leastSquares(data, idx)

	for iter := 0; iter < MaxIterations; iter++ {
		keep := idx[:0:0]
		for _, i := range idx {
			r := data[i] - line.At(float64(i))
			if (upper && r >= 0) || (!upper && r <= 0) {
				keep = append(keep, i)
			}
		}
		if len(keep) < 2 || len(keep) == len(idx) {
			break
		}
		idx = keep
		line = leastSquares(data, idx)
	}

	offset := data[0] - line.At(0)
	for i := 1; i < len(data); i++ {
		r := data[i] - line.At(float64(i))
		if (upper && r > offset) || (!upper && r < offset) {
			offset = r
		}
	}
	line.Intercept += offset
	return line
}

func leastSquares(data []float64, idx []int) Line {
	n := float64(len(idx))
	var sx, sy, sxx, sxy float64
	for _, i := range idx {
		x := float64(i)
		sx += x
		sy += data[i]
		sxx += x * x
		sxy += x * data[i]
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return Line{Intercept: sy / n}
	}
	slope := (n*sxy - sx*sy) / den
	return Line{Slope: slope, Intercept: (sy - slope*sx) / n}
}
