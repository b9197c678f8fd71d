package divclass

import (
	"math"

	"DivScope/internal/domain/models"
)

// defaultNewestFrequency is assumed when a series has no regular event with a
// resolved cadence.
const defaultNewestFrequency = 12

// normalize runs the two annualization passes over an already-classified
// series.
//
// Pass 1 annualizes each regular/initial payment by its own cadence:
// annualized = round2(adjusted x frequency). Payments without a positive
// adjusted amount are skipped, never fatal. The pass also records the cadence
// of the chronologically last regular/initial event.
//
// Pass 2 rescales every annualized value by that single newest cadence, so a
// fund whose cadence changed mid-history still charts on one comparable
// scale. Specials stay out of both passes entirely.
func normalize(out []models.ClassifiedDividend) {
	newest := defaultNewestFrequency
	for i := range out {
		cd := &out[i]
		if cd.PaymentType == models.PaymentSpecial {
			continue
		}
		if cd.FrequencyNumber != nil && *cd.FrequencyNumber > 0 {
			newest = *cd.FrequencyNumber
		}
		if cd.AdjustedAmount == nil || *cd.AdjustedAmount <= 0 {
			continue
		}
		if cd.FrequencyNumber == nil || *cd.FrequencyNumber <= 0 {
			continue
		}
		ann := roundTo(*cd.AdjustedAmount*float64(*cd.FrequencyNumber), 2)
		cd.AnnualizedAmount = &ann
	}

	for i := range out {
		cd := &out[i]
		if cd.PaymentType == models.PaymentSpecial || cd.AnnualizedAmount == nil {
			continue
		}
		norm := roundTo(*cd.AnnualizedAmount/float64(newest), 9)
		cd.NormalizedAmount = &norm
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
