package divclass

import (
	"DivScope/internal/domain/models"
)

// specialFrequencySentinel is the payments/year forced onto special payments
// so downstream annualization can never scale a one-off up.
const specialFrequencySentinel = 1

// majorityShare is the vote share a frequency needs to count as dominant.
const majorityShare = 0.6

// FrequencyFromGap maps an observed gap between ex-dates to canonical
// payments per year. Gaps under five days carry no cadence signal and fall
// through to the monthly default.
func FrequencyFromGap(days int) int {
	switch {
	case days >= 5 && days <= 19:
		return 52
	case days >= 20 && days <= 59:
		return 12
	case days >= 60 && days <= 149:
		return 4
	case days >= 150 && days <= 299:
		return 2
	case days >= 300:
		return 1
	default:
		return 12
	}
}

// unambiguousGap reports whether a gap lands squarely inside one cadence
// band. Such gaps are trusted as-is during frequency inference so a later
// regime change cannot rewrite an event that was already clear.
func unambiguousGap(days int) bool {
	switch {
	case days >= 5 && days <= 10:
		return true
	case days >= 20 && days <= 40:
		return true
	case days >= 60 && days <= 110:
		return true
	case days >= 150 && days <= 210:
		return true
	case days >= 300 && days <= 380:
		return true
	}
	return false
}

// expectedMinGapDays is the shortest plausible gap for a cadence.
func expectedMinGapDays(freq int) int {
	switch {
	case freq >= 52:
		return 5
	case freq >= 12:
		return 20
	case freq >= 4:
		return 60
	case freq >= 2:
		return 150
	default:
		return 300
	}
}

// dominantFrequency returns the frequency holding at least majorityShare of
// the votes across the given gaps, or 0 when no majority exists.
func dominantFrequency(gaps []int) int {
	if len(gaps) == 0 {
		return 0
	}
	counts := make(map[int]int, 4)
	for _, g := range gaps {
		counts[FrequencyFromGap(g)]++
	}
	best, bestN := 0, 0
	for f, n := range counts {
		if n > bestN || (n == bestN && f > best) {
			best, bestN = f, n
		}
	}
	if float64(bestN) >= majorityShare*float64(len(gaps)) {
		return best
	}
	return 0
}

// resolveFrequencies is the second pass: it assigns payments/year to every
// event. Specials are forced to the sentinel. Non-specials trust an
// unambiguous look-back gap, then fall back to the nearest non-special
// neighbor forward, then backward, then the raw look-back gap.
func resolveFrequencies(out []models.ClassifiedDividend) {
	for i := range out {
		if out[i].PaymentType == models.PaymentSpecial {
			f := specialFrequencySentinel
			out[i].FrequencyNumber = &f
			continue
		}
		var freq int
		switch {
		case out[i].DaysSincePrevious != nil && unambiguousGap(*out[i].DaysSincePrevious):
			freq = FrequencyFromGap(*out[i].DaysSincePrevious)
		default:
			if g, ok := nearestGap(out, i, +1); ok {
				freq = FrequencyFromGap(g)
			} else if g, ok := nearestGap(out, i, -1); ok {
				freq = FrequencyFromGap(g)
			} else if out[i].DaysSincePrevious != nil {
				freq = FrequencyFromGap(*out[i].DaysSincePrevious)
			} else {
				// single-event series: nothing to infer from
				continue
			}
		}
		out[i].FrequencyNumber = &freq
	}
}

// nearestGap finds the day gap to the closest non-special event in the given
// direction (+1 forward, -1 backward).
func nearestGap(out []models.ClassifiedDividend, i, dir int) (int, bool) {
	for j := i + dir; j >= 0 && j < len(out); j += dir {
		if out[j].PaymentType == models.PaymentSpecial {
			continue
		}
		if dir > 0 {
			return daysBetween(out[i].ExDate, out[j].ExDate), true
		}
		return daysBetween(out[j].ExDate, out[i].ExDate), true
	}
	return 0, false
}
