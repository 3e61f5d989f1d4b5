package hs

const windowSize = 5

type extremum struct {
	index int
	top   bool
}

// window is a fixed-capacity ring holding the most recent extrema, oldest
// first.
type window struct {
	buf  [windowSize]extremum
	head int
	n    int
}

func (w *window) push(e extremum) {
	if w.n < windowSize {
		w.buf[(w.head+w.n)%windowSize] = e
		w.n++
		return
	}
	w.buf[w.head] = e
	w.head = (w.head + 1) % windowSize
}

func (w *window) full() bool { return w.n == windowSize }

// at returns the k-th oldest entry.
func (w *window) at(k int) extremum {
	return w.buf[(w.head+k)%windowSize]
}

func (w *window) last() extremum {
	return w.at(w.n - 1)
}

// alternates reports whether entries [from, from+4) strictly alternate
// between tops and bottoms.
func (w *window) alternates(from int) bool {
	for k := from + 1; k < from+4; k++ {
		if w.at(k).top == w.at(k-1).top {
			return false
		}
	}
	return true
}

// points returns the indices of entries [from, from+4).
func (w *window) points(from int) [4]int {
	var out [4]int
	for k := range out {
		out[k] = w.at(from + k).index
	}
	return out
}
