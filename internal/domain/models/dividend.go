package models

import (
	"fmt"
	"time"
)

// PaymentType labels the lifecycle role of a dividend payment.
type PaymentType string

const (
	PaymentInitial PaymentType = "initial"
	PaymentRegular PaymentType = "regular"
	PaymentSpecial PaymentType = "special"
)

// FrequencyLabel is the display cadence assigned by the CEF engine.
type FrequencyLabel string

const (
	FreqWeekly     FrequencyLabel = "weekly"
	FreqMonthly    FrequencyLabel = "monthly"
	FreqQuarterly  FrequencyLabel = "quarterly"
	FreqSemiAnnual FrequencyLabel = "semi_annual"
	FreqAnnual     FrequencyLabel = "annual"
	FreqIrregular  FrequencyLabel = "irregular"
)

// PaymentsPerYear maps a display label to its canonical frequency number.
// Irregular folds to the sentinel 1 so a one-off can never be annualized up.
func (f FrequencyLabel) PaymentsPerYear() int {
	switch f {
	case FreqWeekly:
		return 52
	case FreqMonthly:
		return 12
	case FreqQuarterly:
		return 4
	case FreqSemiAnnual:
		return 2
	case FreqAnnual, FreqIrregular:
		return 1
	default:
		return 1
	}
}

// DividendEvent is one cash distribution on an ex-date, as supplied by the
// ingestion collaborator. AdjustedAmount is split-adjusted and preferred over
// CashAmount whenever it is present and positive.
type DividendEvent struct {
	Ticker         string
	ExDate         time.Time
	CashAmount     float64
	AdjustedAmount *float64
}

// Amount returns the split-adjusted amount when positive, else the raw cash.
func (e DividendEvent) Amount() float64 {
	if e.AdjustedAmount != nil && *e.AdjustedAmount > 0 {
		return *e.AdjustedAmount
	}
	return e.CashAmount
}

// ClassifiedDividend is the engine output for one input event.
// The series is produced in ascending ex-date order; callers wanting
// most-recent-first must reverse it themselves.
type ClassifiedDividend struct {
	ID             string
	Ticker         string
	ExDate         time.Time
	CashAmount     float64
	AdjustedAmount *float64

	PaymentType       PaymentType
	DaysSincePrevious *int
	FrequencyNumber   *int
	FrequencyLabel    FrequencyLabel // CEF engine only; empty otherwise
	AnnualizedAmount  *float64
	NormalizedAmount  *float64

	// Special decomposition, CEF engine only: the run-rate part and the
	// one-off part of a combined regular+special payment.
	RegularComponent *float64
	SpecialComponent *float64
}

// DividendID builds the correlation key for one (ticker, ex-date) event.
func DividendID(ticker string, exDate time.Time) string {
	return fmt.Sprintf("%s-%s", ticker, exDate.Format("2006-01-02"))
}

// Amount mirrors DividendEvent.Amount for the classified record.
func (d ClassifiedDividend) Amount() float64 {
	if d.AdjustedAmount != nil && *d.AdjustedAmount > 0 {
		return *d.AdjustedAmount
	}
	return d.CashAmount
}

// FundKind selects which classification engine applies to a ticker.
type FundKind string

const (
	FundETF FundKind = "etf"
	FundCEF FundKind = "cef"
)
