package divclass

import (
	"math"
	"time"

	"DivScope/internal/domain/models"
)

// ClassifyCEF labels a closed-end fund's dividend series. CEFs cluster
// capital-gains payouts in December, reset rates in January, and combine
// regular and special amounts in one payment, so the date-gap bias of the
// general classifier is replaced with an amount-first cascade. The cadence
// label is read off the look-back gap (look-ahead would be contaminated by
// December clusters) and specials are decomposed into a run-rate component
// and a one-off component.
func ClassifyCEF(events []models.DividendEvent, opts CEFOptions) []models.ClassifiedDividend {
	out := make([]models.ClassifiedDividend, 0, len(events))
	if len(events) == 0 {
		return out
	}

	evs := sortedCopy(events)
	hist := newCEFHistory()
	var lastConfirmed time.Time
	haveConfirmed := false

	for i, ev := range evs {
		cd := newClassified(ev)
		amt := ev.Amount()

		gapBack := 0
		if i > 0 {
			gapBack = daysBetween(evs[i-1].ExDate, ev.ExDate)
			cd.DaysSincePrevious = &gapBack
		}

		label := hist.cadenceLabel(evs, i, gapBack, amt, opts)

		special := false
		if i == 0 {
			cd.PaymentType = models.PaymentInitial
		} else if sp, forced := hist.isSpecial(evs, i, gapBack, amt, opts); forced {
			cd.PaymentType = models.PaymentRegular
		} else if sp {
			cd.PaymentType = models.PaymentSpecial
			special = true
		} else {
			cd.PaymentType = models.PaymentRegular
		}

		if special {
			f := specialFrequencySentinel
			cd.FrequencyNumber = &f
			cd.FrequencyLabel = models.FreqIrregular
			hist.splitComponents(&cd, amt)
		} else {
			cd.FrequencyLabel = label
			f := label.PaymentsPerYear()
			cd.FrequencyNumber = &f
			hist.addAmount(amt)
			if haveConfirmed {
				hist.addGap(daysBetween(lastConfirmed, ev.ExDate))
			}
			lastConfirmed = ev.ExDate
			haveConfirmed = true
		}

		if ev.ExDate.Month() == time.December {
			hist.decembers[ev.ExDate.Year()]++
		}
		out = append(out, cd)
	}

	normalize(out)
	return out
}

// cefLabelFromGap maps a look-back gap to the CEF cadence table.
func cefLabelFromGap(days int) models.FrequencyLabel {
	switch {
	case days >= 5 && days <= 10:
		return models.FreqWeekly
	case days >= 20 && days <= 45:
		return models.FreqMonthly
	case days >= 46 && days <= 149:
		return models.FreqQuarterly
	case days >= 150 && days <= 249:
		return models.FreqSemiAnnual
	case days >= 250 && days <= 400:
		return models.FreqAnnual
	default:
		return models.FreqIrregular
	}
}

// cefExpectedGap is the window a gap must land in to look normal for a
// cadence. The monthly window is widened at the low end so an early monthly
// payment is not mistaken for a break.
func cefExpectedGap(label models.FrequencyLabel, days int) bool {
	switch label {
	case models.FreqWeekly:
		return days >= 5 && days <= 10
	case models.FreqMonthly:
		return days >= 20 && days <= 35
	case models.FreqQuarterly:
		return days >= 46 && days <= 149
	case models.FreqSemiAnnual:
		return days >= 150 && days <= 249
	case models.FreqAnnual:
		return days >= 250 && days <= 400
	default:
		return true
	}
}

type cefHistory struct {
	amounts   []float64 // confirmed amounts, oldest first
	gapLabels []models.FrequencyLabel
	decembers map[int]int // year -> December payments seen so far
}

func newCEFHistory() *cefHistory {
	return &cefHistory{decembers: make(map[int]int)}
}

func (h *cefHistory) addAmount(a float64) {
	if a > 0 {
		h.amounts = append(h.amounts, a)
	}
}

func (h *cefHistory) addGap(days int) {
	if days > 0 {
		h.gapLabels = append(h.gapLabels, cefLabelFromGap(days))
	}
}

// rollingMedian is the median of the last six confirmed amounts.
func (h *cefHistory) rollingMedian() float64 {
	return medianOf(tail(h.amounts, medianDepth))
}

// recentMedian is the median of the last three confirmed amounts; it needs
// at least two samples to mean anything.
func (h *cefHistory) recentMedian() (float64, bool) {
	recent := tail(h.amounts, 3)
	if len(recent) < 2 {
		return 0, false
	}
	return medianOf(recent), true
}

func (h *cefHistory) overallMedian() float64 {
	return medianOf(h.amounts)
}

// majorityGapLabel returns the label holding at least majorityShare of the
// last six confirmed gaps.
func (h *cefHistory) majorityGapLabel() (models.FrequencyLabel, bool) {
	labels := h.gapLabels
	if len(labels) > medianDepth {
		labels = labels[len(labels)-medianDepth:]
	}
	if len(labels) == 0 {
		return "", false
	}
	counts := make(map[models.FrequencyLabel]int, 4)
	for _, l := range labels {
		counts[l]++
	}
	var best models.FrequencyLabel
	bestN := 0
	for l, n := range counts {
		if n > bestN {
			best, bestN = l, n
		}
	}
	if float64(bestN) >= majorityShare*float64(len(labels)) {
		return best, true
	}
	return "", false
}

// cadenceLabel resolves the display cadence for one event. The raw label
// comes from the look-back gap; an amount matching the rolling median with
// enough gap history hands the decision to the gap majority instead, which
// keeps amount-stable series from flapping between labels. A 14-19 day gap
// with a stable amount on a monthly or weekly fund is read as a holiday
// shift, not a cadence change.
func (h *cefHistory) cadenceLabel(evs []models.DividendEvent, i, gapBack int, amt float64, opts CEFOptions) models.FrequencyLabel {
	var label models.FrequencyLabel
	if i > 0 {
		label = cefLabelFromGap(gapBack)
	} else if len(evs) > 1 {
		label = cefLabelFromGap(daysBetween(evs[0].ExDate, evs[1].ExDate))
	} else {
		label = models.FreqIrregular
	}

	med := h.rollingMedian()
	stable := med > 0 && amountsWithin(amt, med, opts.MedianMatchTolerance)

	if stable && len(h.gapLabels) >= 3 {
		if maj, ok := h.majorityGapLabel(); ok {
			label = maj
		}
	}
	if gapBack >= 14 && gapBack <= 19 && stable {
		if maj, ok := h.majorityGapLabel(); ok && (maj == models.FreqMonthly || maj == models.FreqWeekly) {
			label = maj
		}
	}
	return label
}

// isSpecial runs the CEF special-detection cascade for event i. The second
// return value forces a regular classification that no later rule may
// override (the exact-repeat rule). December multiplicity outranks the
// exact-repeat rule: a second December payout in one year is a cap-gains
// distribution even when its amount repeats.
func (h *cefHistory) isSpecial(evs []models.DividendEvent, i, gapBack int, amt float64, opts CEFOptions) (special, forceRegular bool) {
	med := h.rollingMedian()
	month := evs[i].ExDate.Month()
	year := evs[i].ExDate.Year()

	extremeSpike := med > 0 && amt >= opts.ExtremeSpikeRatio*med

	// 1. extreme spike that does not repeat next period
	if extremeSpike && !h.matchesNext(evs, i, 1, amt, opts.RepeatTolerance) {
		return true, false
	}

	// 2. December multiplicity: any December payment after the first one
	// that year
	if month == time.December && h.decembers[year] >= 1 {
		return true, false
	}

	// 3. exact repeat of the previous payment: a confirmed run-rate
	if amt == evs[i-1].Amount() {
		return false, true
	}

	// 4. January rate reset: an early-January payment is the new annual
	// run-rate unless it is an extreme spike that vanishes again
	if month == time.January && gapBack >= 1 && gapBack <= 35 {
		if h.matchesNext(evs, i, 2, amt, opts.RepeatTolerance) || !extremeSpike {
			return false, false
		}
	}

	// 5. clustered payment outside January
	if gapBack >= 1 && gapBack <= 4 && month != time.January {
		if h.matchesNext(evs, i, 2, amt, opts.RepeatTolerance) {
			return false, false
		}
		if rm, ok := h.recentMedian(); ok && amountsWithin(amt, rm, opts.MedianMatchTolerance) {
			return false, false
		}
		return true, false
	}

	// 6. first December payment of the year, deviating from recent history
	if month == time.December {
		if rm, ok := h.recentMedian(); ok {
			if math.Abs(amt-rm)/rm >= opts.DecemberDeviation {
				return true, false
			}
		} else if om := h.overallMedian(); om > 0 && math.Abs(amt-om)/om >= opts.DecemberOverallDeviation {
			return true, false
		}
	}

	// 7. spike after a stable repetition that does not stick
	if h.recentStableAt(med, opts) && med > 0 && !amountsWithin(amt, med, opts.MedianMatchTolerance) {
		if !h.matchesNext(evs, i, 2, amt, opts.RepeatTolerance) {
			return true, false
		}
	}

	// 8. cadence break with a meaningful spike
	if med > 0 && amt >= opts.MeaningfulSpikeRatio*med {
		if dom, ok := h.majorityGapLabel(); ok && !cefExpectedGap(dom, gapBack) {
			if !h.matchesNext(evs, i, 2, amt, opts.RepeatTolerance) {
				return true, false
			}
		}
	}

	return false, false
}

// matchesNext reports whether amt repeats in any of the next n payments.
func (h *cefHistory) matchesNext(evs []models.DividendEvent, i, n int, amt, tol float64) bool {
	for j := i + 1; j <= i+n && j < len(evs); j++ {
		if amountsWithin(amt, evs[j].Amount(), tol) {
			return true
		}
	}
	return false
}

// recentStableAt reports whether the last confirmed amounts sat on the
// rolling median.
func (h *cefHistory) recentStableAt(med float64, opts CEFOptions) bool {
	recent := tail(h.amounts, 3)
	if med <= 0 || len(recent) < 2 {
		return false
	}
	for _, a := range recent {
		if !amountsWithin(a, med, opts.MedianMatchTolerance) {
			return false
		}
	}
	return true
}

// splitComponents decomposes a special payment into the run-rate part and
// the one-off part against the rolling median. Without a positive median the
// payment stays undecomposed.
func (h *cefHistory) splitComponents(cd *models.ClassifiedDividend, amt float64) {
	med := h.rollingMedian()
	if med <= 0 {
		return
	}
	var regular, extra float64
	if amt >= med {
		regular = math.Min(amt, med)
		extra = math.Max(0, amt-med)
	} else {
		regular = amt
		extra = 0
	}
	cd.RegularComponent = &regular
	cd.SpecialComponent = &extra
}
