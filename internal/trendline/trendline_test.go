package trendline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPIPs(t *testing.T) {
	data := []float64{0, 1, 2, 3, 10, 3, 2, 1, 0}

	x, y := FindPIPs(data, 3)
	assert.Equal(t, []int{0, 4, 8}, x)
	assert.Equal(t, []float64{0, 10, 0}, y)

	// equal distances on both sides resolve to the earlier segment
	x, _ = FindPIPs(data, 5)
	assert.Equal(t, []int{0, 3, 4, 5, 8}, x)
}

func TestFindPIPs_Degenerate(t *testing.T) {
	x, _ := FindPIPs([]float64{1, 2}, 5)
	assert.Equal(t, []int{0, 1}, x)

	// collinear points carry no extra information
	x, _ = FindPIPs([]float64{1, 2, 3, 4, 5}, 3)
	assert.Equal(t, []int{0, 4}, x)

	x, y := FindPIPs(nil, 5)
	assert.Nil(t, x)
	assert.Nil(t, y)
}

func TestFitSingle_StraightLine(t *testing.T) {
	data := []float64{1, 3, 5, 7, 9}
	sup, res := FitSingle(data)
	assert.InDelta(t, 2, sup.Slope, 1e-9)
	assert.InDelta(t, 1, sup.Intercept, 1e-9)
	assert.InDelta(t, 2, res.Slope, 1e-9)
	assert.InDelta(t, 1, res.Intercept, 1e-9)
}

func TestFitSingle_BoundsData(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for n := 2; n < 40; n++ {
		data := make([]float64, n)
		for i := range data {
			data[i] = 100 + r.NormFloat64()*3 + float64(i)*0.2
		}
		sup, res := FitSingle(data)

		touchSup, touchRes := false, false
		for i, v := range data {
			x := float64(i)
			require.LessOrEqual(t, sup.At(x), v+1e-9, "n=%d i=%d", n, i)
			require.GreaterOrEqual(t, res.At(x), v-1e-9, "n=%d i=%d", n, i)
			if sup.At(x) > v-1e-9 {
				touchSup = true
			}
			if res.At(x) < v+1e-9 {
				touchRes = true
			}
		}
		assert.True(t, touchSup, "support must touch, n=%d", n)
		assert.True(t, touchRes, "resistance must touch, n=%d", n)
	}
}

func TestFitSingle_Short(t *testing.T) {
	sup, res := FitSingle([]float64{4})
	assert.Equal(t, Line{Intercept: 4}, sup)
	assert.Equal(t, Line{Intercept: 4}, res)

	sup, res = FitSingle(nil)
	assert.Equal(t, Line{}, sup)
	assert.Equal(t, Line{}, res)
}

func TestIntersection(t *testing.T) {
	a := Line{Slope: 1, Intercept: 0}
	b := Line{Slope: -1, Intercept: 4}
	assert.InDelta(t, 2, Intersection(a, b, -100), 1e-12)
	assert.InDelta(t, 2, Intersection(b, a, -100), 1e-12)

	assert.Equal(t, -100.0, Intersection(a, Line{Slope: 1, Intercept: 3}, -100))
}
