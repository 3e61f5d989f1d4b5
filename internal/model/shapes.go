package model

// Shape is a plottable segment list: [time, price, time, price, ...].
type Shape struct {
	Points []float64 `json:"points"`
	Type   string    `json:"type"`
}

// HSShape is a head and shoulders polyline plus its neckline.
type HSShape struct {
	Points   [][2]float64 `json:"points"`
	Neckline [][2]float64 `json:"neckline"`
	Type     string       `json:"type"`
}

// LinePoint is one sample of a horizontal level projected over time.
type LinePoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// Shapes is the plottable payload of the geometric detectors.
type Shapes struct {
	SR        []float64              `json:"sr"`
	Flags     []Shape                `json:"flag"`
	HS        []HSShape              `json:"hs"`
	Fibonacci map[string][]LinePoint `json:"fibonacci"`
}
