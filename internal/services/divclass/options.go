package divclass

// Options tunes the general (ETF) classifier.
type Options struct {
	// TinyStubRatio marks a payment as a stub when it is this small relative
	// to the payment 1-4 days after it.
	TinyStubRatio float64

	// RepeatTolerance is the relative difference under which the next payment
	// counts as a repeat of the current one (a rate change, not a one-off).
	RepeatTolerance float64

	// WeeklyRepeatTolerance replaces RepeatTolerance when the gap to the next
	// payment looks weekly.
	WeeklyRepeatTolerance float64

	// MedianDeviation is the minimum relative deviation from the rolling
	// median for a payment to qualify as a cadence-break special.
	MedianDeviation float64

	// AutoDecemberSpecial lets a December payment qualify as a cadence-break
	// special without deviating from the median. Off by default; the CEF
	// engine carries its own December rules independently of this flag.
	AutoDecemberSpecial bool
}

// DefaultOptions returns the production tuning of the general classifier.
func DefaultOptions() Options {
	return Options{
		TinyStubRatio:         0.01,
		RepeatTolerance:       0.06,
		WeeklyRepeatTolerance: 0.25,
		MedianDeviation:       0.12,
		AutoDecemberSpecial:   false,
	}
}

// CEFOptions tunes the amount-centric closed-end fund classifier.
type CEFOptions struct {
	// MedianMatchTolerance is the relative band around the rolling median
	// inside which an amount counts as matching it.
	MedianMatchTolerance float64

	// RepeatTolerance is the relative band for matching the next one or two
	// payments.
	RepeatTolerance float64

	// ExtremeSpikeRatio flags a payment as an extreme spike versus the
	// rolling median.
	ExtremeSpikeRatio float64

	// MeaningfulSpikeRatio is the lower spike bar used by the cadence-break
	// rule.
	MeaningfulSpikeRatio float64

	// DecemberDeviation is the minimum deviation from the recent 3-payment
	// median for the first December payment of a year to be special.
	DecemberDeviation float64

	// DecemberOverallDeviation is the fallback bar against the overall
	// median when no recent history exists.
	DecemberOverallDeviation float64
}

// DefaultCEFOptions returns the production tuning of the CEF classifier.
func DefaultCEFOptions() CEFOptions {
	return CEFOptions{
		MedianMatchTolerance:     0.02,
		RepeatTolerance:          0.05,
		ExtremeSpikeRatio:        3.0,
		MeaningfulSpikeRatio:     1.5,
		DecemberDeviation:        0.30,
		DecemberOverallDeviation: 0.50,
	}
}
