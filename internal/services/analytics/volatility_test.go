package analytics

import (
	"testing"
	"time"

	"DivScope/internal/domain/models"
)

func classified(ticker string, date time.Time, amount float64, gap int, pt models.PaymentType) models.ClassifiedDividend {
	cd := models.ClassifiedDividend{
		Ticker:      ticker,
		ExDate:      date,
		CashAmount:  amount,
		PaymentType: pt,
	}
	if gap > 0 {
		cd.DaysSincePrevious = &gap
	}
	return cd
}

func monthlyClassified(ticker string, amounts []float64) []models.ClassifiedDividend {
	start := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	out := make([]models.ClassifiedDividend, 0, len(amounts))
	for i, a := range amounts {
		gap := 0
		if i > 0 {
			gap = 30
		}
		out = append(out, classified(ticker, start.AddDate(0, 0, 30*i), a, gap, models.PaymentRegular))
	}
	return out
}

func TestEstimateMonthly(t *testing.T) {
	e := NewVolatilityEstimator(nil)
	res := e.Estimate("JEPI", monthlyClassified("JEPI", []float64{0.40, 0.42, 0.38, 0.40}))

	if res.DataPoints != 4 {
		t.Fatalf("expected 4 data points, got %d", res.DataPoints)
	}
	if res.WeeklyAdjusted {
		t.Fatalf("monthly series should not be weekly adjusted")
	}
	if res.DividendSD == nil || *res.DividendSD != 0.01633 {
		t.Fatalf("unexpected SD %v", res.DividendSD)
	}
	if res.DividendCV == nil || *res.DividendCV != 4.1 {
		t.Fatalf("unexpected CV %v", res.DividendCV)
	}
	if res.Label != "Very Low" {
		t.Fatalf("unexpected label %q", res.Label)
	}
	if res.AnnualDividend == nil || *res.AnnualDividend != 4.80 {
		t.Fatalf("unexpected annual dividend %v", res.AnnualDividend)
	}
}

func TestEstimateTooFewPayments(t *testing.T) {
	e := NewVolatilityEstimator(nil)
	res := e.Estimate("NEWF", monthlyClassified("NEWF", []float64{0.40, 0.40, 0.40}))

	if res.DataPoints != 0 {
		t.Fatalf("expected 0 data points, got %d", res.DataPoints)
	}
	if res.DividendSD != nil || res.DividendCV != nil || res.AnnualDividend != nil {
		t.Fatalf("stats should be nil below the payment floor")
	}
}

func TestEstimateSkipsSpecials(t *testing.T) {
	series := monthlyClassified("PDI", []float64{0.10, 0.10, 0.10, 0.10})
	last := series[len(series)-1]
	series = append(series, classified("PDI", last.ExDate.AddDate(0, 0, 5), 0.50, 5, models.PaymentSpecial))

	e := NewVolatilityEstimator(nil)
	res := e.Estimate("PDI", series)
	if res.DataPoints != 4 {
		t.Fatalf("special should be excluded, got %d data points", res.DataPoints)
	}
	if res.DividendSD == nil || *res.DividendSD != 0 {
		t.Fatalf("uniform payments should have zero SD, got %v", res.DividendSD)
	}
}

func TestEstimateWeeklyCorrection(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	amounts := []float64{0.10, 0.11, 0.09, 0.10}
	series := make([]models.ClassifiedDividend, 0, len(amounts))
	for i, a := range amounts {
		gap := 0
		if i > 0 {
			gap = 7
		}
		series = append(series, classified("QDTE", start.AddDate(0, 0, 7*i), a, gap, models.PaymentRegular))
	}

	e := NewVolatilityEstimator(nil)
	res := e.Estimate("QDTE", series)
	if !res.WeeklyAdjusted {
		t.Fatalf("short gaps should trigger the weekly correction")
	}
	if res.DividendCV == nil || *res.DividendCV != 17.0 {
		t.Fatalf("unexpected corrected CV %v", res.DividendCV)
	}
	if res.Label != "Moderate" {
		t.Fatalf("unexpected label %q", res.Label)
	}
}

func TestEstimateWeeklyByObservedCount(t *testing.T) {
	start := time.Date(2023, time.January, 6, 0, 0, 0, 0, time.UTC)
	series := make([]models.ClassifiedDividend, 0, 40)
	for i := 0; i < 40; i++ {
		gap := 0
		if i > 0 {
			gap = 14
		}
		pt := models.PaymentRegular
		if i == 10 || i == 20 {
			pt = models.PaymentSpecial
		}
		series = append(series, classified("YMAX", start.AddDate(0, 0, 14*i), 0.10, gap, pt))
	}

	// 40 observed payments trigger the weekly correction even though only
	// 38 qualify for the SD and the average gap sits above the short-gap bar
	e := NewVolatilityEstimator(nil)
	res := e.Estimate("YMAX", series)
	if res.DataPoints != 38 {
		t.Fatalf("expected 38 qualifying payments, got %d", res.DataPoints)
	}
	if !res.WeeklyAdjusted {
		t.Fatalf("40 observed payments should trigger the weekly correction")
	}
}

func TestEstimateKnownWeeklyTicker(t *testing.T) {
	e := NewVolatilityEstimator([]string{"qdte"})
	res := e.Estimate("QDTE", monthlyClassified("QDTE", []float64{0.10, 0.10, 0.10, 0.10}))
	if !res.WeeklyAdjusted {
		t.Fatalf("configured ticker should be weekly adjusted regardless of gaps")
	}
}
