package hs

import (
	"PatternScout/internal/extrema"
	"PatternScout/pkg/errors"
)

// side is the scan state of one direction. A locked side will not emit again
// until an extremum of the opposite type arrives.
type side struct {
	sign   float64
	locked bool
}

// Find scans data for regular and inverted patterns and returns them in the
// order they were confirmed. With earlyFind a pattern is confirmed once price
// crosses the right shoulder midpoint instead of the neckline.
func Find(data []float64, order int, earlyFind bool) ([]Pattern, error) {
	if order < 1 {
		return nil, errors.Wrapf(errors.ErrInvalidOrder, "hs: order %d is below 1", order)
	}

	var (
		win window
		out []Pattern
	)
	regular, inverted := side{sign: 1}, side{sign: -1}
	for i := range data {
		if extrema.RollingTop(data, i, order) {
			win.push(extremum{index: i - order, top: true})
			inverted.locked = false
		}
		if extrema.RollingBottom(data, i, order) {
			win.push(extremum{index: i - order})
			regular.locked = false
		}
		if !win.full() {
			continue
		}

		// the newest extremum decides which four-point window each side reads
		regFrom, invFrom := 1, 0
		if win.last().top {
			regFrom, invFrom = 0, 1
		}

		for _, sd := range []struct {
			state *side
			from  int
		}{{&regular, regFrom}, {&inverted, invFrom}} {
			if sd.state.locked || !win.alternates(sd.from) {
				continue
			}
			if p, ok := check(data, sd.state.sign, win.points(sd.from), i, earlyFind); ok {
				sd.state.locked = true
				out = append(out, p)
			}
		}
	}
	return out, nil
}

// check validates a candidate at scan index i. It is written for the regular
// top; sign -1 mirrors every comparison for the inverted bottom.
func check(data []float64, sign float64, pts [4]int, i int, earlyFind bool) (Pattern, bool) {
	lS, lA, head, rA := pts[0], pts[1], pts[2], pts[3]
	v := func(k int) float64 { return sign * data[k] }

	if i-rA < 2 {
		return Pattern{}, false
	}

	rS := rA + 1
	for k := rA + 2; k < i; k++ {
		if v(k) > v(rS) {
			rS = k
		}
	}

	if v(head) <= max(v(lS), v(rS)) {
		return Pattern{}, false
	}

	// each shoulder must reach the other's midpoint
	rMid := 0.5 * (v(rS) + v(rA))
	lMid := 0.5 * (v(lS) + v(lA))
	if v(lS) < rMid || v(rS) < lMid {
		return Pattern{}, false
	}

	rToHead, lToHead := float64(rS-head), float64(head-lS)
	if rToHead > 2.5*lToHead || lToHead > 2.5*rToHead {
		return Pattern{}, false
	}

	slope := (v(rA) - v(lA)) / float64(rA-lA)
	neckVal := v(lA) + float64(i-lA)*slope
	if earlyFind {
		if v(i) > rMid {
			return Pattern{}, false
		}
	} else if v(i) > neckVal {
		return Pattern{}, false
	}

	headWidth := rA - lA
	start, neckStart := -1, 0.0
	for j := 1; j < headWidth; j++ {
		if lS-j < 0 {
			return Pattern{}, false
		}
		neck := v(lA) + float64(lS-lA-j)*slope
		if v(lS-j) < neck {
			start, neckStart = lS-j, neck
			break
		}
	}
	if start == -1 {
		return Pattern{}, false
	}

	p := Pattern{
		Inverted:   sign < 0,
		LShoulder:  lS,
		LArmpit:    lA,
		Head:       head,
		RArmpit:    rA,
		RShoulder:  rS,
		LShoulderP: data[lS],
		LArmpitP:   data[lA],
		HeadP:      data[head],
		RArmpitP:   data[rA],
		RShoulderP: data[rS],
		Start:      start,
		Break:      i,
		BreakP:     data[i],
		NeckStart:  sign * neckStart,
		NeckEnd:    sign * neckVal,
		NeckSlope:  sign * slope,
		HeadWidth:  headWidth,
		HeadHeight: v(head) - (v(lA) + float64(head-lA)*slope),
	}
	p.R2 = r2(data, p)
	return p, true
}
