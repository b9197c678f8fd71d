package divclass

import "sort"

const (
	historyDepth = 8
	medianDepth  = 6
)

// rollingHistory tracks confirmed non-special payments within a single
// classification call. It is never shared across tickers or calls.
type rollingHistory struct {
	amounts []float64 // confirmed amounts, oldest first, capped at historyDepth
	gaps    []int     // day gaps between confirmed events, capped at historyDepth
}

func (h *rollingHistory) addAmount(a float64) {
	if a <= 0 {
		return
	}
	h.amounts = append(h.amounts, a)
	if len(h.amounts) > historyDepth {
		h.amounts = h.amounts[len(h.amounts)-historyDepth:]
	}
}

func (h *rollingHistory) addGap(days int) {
	if days <= 0 {
		return
	}
	h.gaps = append(h.gaps, days)
	if len(h.gaps) > historyDepth {
		h.gaps = h.gaps[len(h.gaps)-historyDepth:]
	}
}

// medianAmount returns the median of the last medianDepth confirmed amounts,
// or 0 when none exist.
func (h *rollingHistory) medianAmount() float64 {
	return medianOf(tail(h.amounts, medianDepth))
}

func (h *rollingHistory) lastGap() (int, bool) {
	if len(h.gaps) == 0 {
		return 0, false
	}
	return h.gaps[len(h.gaps)-1], true
}

func tail(xs []float64, n int) []float64 {
	if len(xs) > n {
		return xs[len(xs)-n:]
	}
	return xs
}

func medianOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
