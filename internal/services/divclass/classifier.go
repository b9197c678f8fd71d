package divclass

import (
	"math"
	"sort"
	"time"

	"DivScope/internal/domain/models"
)

// Classify labels every dividend event of one ticker with its lifecycle role
// and resolves cadence and annualization. It is a pure transform: the input
// may arrive in any order, the output is ascending by ex-date, one record per
// event. Only raw event lists are valid inputs; feeding classified output
// back in is undefined.
func Classify(events []models.DividendEvent, opts Options) []models.ClassifiedDividend {
	out := make([]models.ClassifiedDividend, 0, len(events))
	if len(events) == 0 {
		return out
	}

	evs := sortedCopy(events)
	hist := &rollingHistory{}
	var lastConfirmed time.Time
	haveConfirmed := false

	for i, ev := range evs {
		cd := newClassified(ev)
		if i > 0 {
			gap := daysBetween(evs[i-1].ExDate, ev.ExDate)
			cd.DaysSincePrevious = &gap
		}

		switch {
		case isTinyStub(evs, i, opts):
			cd.PaymentType = models.PaymentSpecial
		case i == 0:
			cd.PaymentType = models.PaymentInitial
		case isCadenceBreakSpecial(evs, i, hist, lastConfirmed, haveConfirmed, opts):
			cd.PaymentType = models.PaymentSpecial
		default:
			cd.PaymentType = models.PaymentRegular
		}

		if cd.PaymentType != models.PaymentSpecial {
			hist.addAmount(ev.Amount())
			if haveConfirmed {
				hist.addGap(daysBetween(lastConfirmed, ev.ExDate))
			}
			lastConfirmed = ev.ExDate
			haveConfirmed = true
		}
		out = append(out, cd)
	}

	resolveFrequencies(out)
	normalize(out)
	return out
}

// isTinyStub detects a negligible pre-payment 1-4 days ahead of the real
// one. Classifying the stub as special keeps it from distorting cadence and
// from dragging the following payment into a misclassification.
func isTinyStub(evs []models.DividendEvent, i int, opts Options) bool {
	cur := evs[i].Amount()
	if cur <= 0 || i+1 >= len(evs) {
		return false
	}
	next := evs[i+1].Amount()
	if next <= 0 {
		return false
	}
	gap := daysBetween(evs[i].ExDate, evs[i+1].ExDate)
	return gap >= 1 && gap <= 4 && cur/next < opts.TinyStubRatio
}

// isCadenceBreakSpecial flags a payment arriving well before its cadence
// would allow, provided its amount does not repeat (a repeat means a genuine
// rate or cadence change) and it deviates from the rolling median or lands
// in December with the heuristic enabled.
func isCadenceBreakSpecial(
	evs []models.DividendEvent,
	i int,
	hist *rollingHistory,
	lastConfirmed time.Time,
	haveConfirmed bool,
	opts Options,
) bool {
	dom := dominantFrequency(hist.gaps)
	if dom == 0 {
		if g, ok := hist.lastGap(); ok {
			dom = FrequencyFromGap(g)
		}
	}
	// weekly regimes are exempt: their gaps are naturally short
	if dom == 0 || dom >= 52 {
		return false
	}

	nextWeekly := false
	hasNext := i+1 < len(evs)
	var nextAmt float64
	if hasNext {
		ng := daysBetween(evs[i].ExDate, evs[i+1].ExDate)
		nextWeekly = ng >= 5 && ng <= 10
		nextAmt = evs[i+1].Amount()
	}
	// a weekly-looking gap to the next payment signals a cadence shift,
	// not a one-off
	if nextWeekly {
		return false
	}

	if !haveConfirmed {
		return false
	}
	sinceConfirmed := daysBetween(lastConfirmed, evs[i].ExDate)
	limit := expectedMinGapDays(dom) * 3 / 4
	if limit < 5 {
		limit = 5
	}
	if sinceConfirmed >= limit {
		return false
	}

	amt := evs[i].Amount()
	tol := opts.RepeatTolerance
	if nextWeekly {
		tol = opts.WeeklyRepeatTolerance
	}
	if hasNext && amountsWithin(amt, nextAmt, tol) {
		return false
	}

	med := hist.medianAmount()
	deviates := med > 0 && math.Abs(amt-med)/med >= opts.MedianDeviation
	december := opts.AutoDecemberSpecial && evs[i].ExDate.Month() == time.December
	return deviates || december
}

func newClassified(ev models.DividendEvent) models.ClassifiedDividend {
	return models.ClassifiedDividend{
		ID:             models.DividendID(ev.Ticker, ev.ExDate),
		Ticker:         ev.Ticker,
		ExDate:         ev.ExDate,
		CashAmount:     ev.CashAmount,
		AdjustedAmount: ev.AdjustedAmount,
	}
}

func sortedCopy(events []models.DividendEvent) []models.DividendEvent {
	evs := make([]models.DividendEvent, len(events))
	copy(evs, events)
	sort.Slice(evs, func(a, b int) bool { return evs[a].ExDate.Before(evs[b].ExDate) })
	return evs
}

// daysBetween returns whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// amountsWithin reports whether a is within tol of b, relative to b.
func amountsWithin(a, b, tol float64) bool {
	if b <= 0 {
		return false
	}
	return math.Abs(a-b)/b < tol
}
