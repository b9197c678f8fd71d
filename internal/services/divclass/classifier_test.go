package divclass

import (
	"testing"
	"time"

	"DivScope/internal/domain/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func event(ticker string, date time.Time, amount float64) models.DividendEvent {
	adj := amount
	return models.DividendEvent{
		Ticker:         ticker,
		ExDate:         date,
		CashAmount:     amount,
		AdjustedAmount: &adj,
	}
}

// monthlySeries returns n payments of the given amount spaced 30 days apart.
func monthlySeries(ticker string, start time.Time, amount float64, n int) []models.DividendEvent {
	evs := make([]models.DividendEvent, 0, n)
	for i := 0; i < n; i++ {
		evs = append(evs, event(ticker, start.AddDate(0, 0, 30*i), amount))
	}
	return evs
}

func TestClassifyUniformMonthly(t *testing.T) {
	evs := monthlySeries("JEPI", day(2024, time.January, 10), 1.00, 4)
	out := Classify(evs, DefaultOptions())
	if len(out) != 4 {
		t.Fatalf("expected 4 records, got %d", len(out))
	}
	if out[0].PaymentType != models.PaymentInitial {
		t.Fatalf("first payment should be initial, got %s", out[0].PaymentType)
	}
	for i, cd := range out {
		if i > 0 && cd.PaymentType != models.PaymentRegular {
			t.Fatalf("payment %d should be regular, got %s", i, cd.PaymentType)
		}
		if cd.FrequencyNumber == nil || *cd.FrequencyNumber != 12 {
			t.Fatalf("payment %d expected frequency 12, got %v", i, cd.FrequencyNumber)
		}
		if cd.AnnualizedAmount == nil || *cd.AnnualizedAmount != 12.00 {
			t.Fatalf("payment %d expected annualized 12.00, got %v", i, cd.AnnualizedAmount)
		}
		if cd.NormalizedAmount == nil || *cd.NormalizedAmount != 1.0 {
			t.Fatalf("payment %d expected normalized 1.0, got %v", i, cd.NormalizedAmount)
		}
	}
	if out[1].DaysSincePrevious == nil || *out[1].DaysSincePrevious != 30 {
		t.Fatalf("expected 30-day gap, got %v", out[1].DaysSincePrevious)
	}
}

func TestClassifyOrderInvariant(t *testing.T) {
	evs := monthlySeries("JEPI", day(2024, time.January, 10), 0.45, 6)
	shuffled := []models.DividendEvent{evs[3], evs[0], evs[5], evs[1], evs[4], evs[2]}

	a := Classify(evs, DefaultOptions())
	b := Classify(shuffled, DefaultOptions())
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].ExDate.Equal(b[i].ExDate) || a[i].PaymentType != b[i].PaymentType {
			t.Fatalf("record %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestClassifyTinyStub(t *testing.T) {
	evs := []models.DividendEvent{
		event("NEWF", day(2024, time.March, 1), 0.0003),
		event("NEWF", day(2024, time.March, 3), 0.25),
	}
	out := Classify(evs, DefaultOptions())
	if out[0].PaymentType != models.PaymentSpecial {
		t.Fatalf("stub should be special, got %s", out[0].PaymentType)
	}
	if out[0].FrequencyNumber == nil || *out[0].FrequencyNumber != 1 {
		t.Fatalf("special should carry frequency 1, got %v", out[0].FrequencyNumber)
	}
	if out[0].AnnualizedAmount != nil || out[0].NormalizedAmount != nil {
		t.Fatalf("special should not be annualized")
	}
	if out[1].PaymentType != models.PaymentRegular {
		t.Fatalf("real payment should be regular, got %s", out[1].PaymentType)
	}
}

func TestClassifyCadenceBreakSpecial(t *testing.T) {
	evs := monthlySeries("JEPI", day(2024, time.January, 10), 0.40, 5)
	last := evs[len(evs)-1].ExDate
	// a deviant payout ten days after the last regular, never repeated
	evs = append(evs,
		event("JEPI", last.AddDate(0, 0, 10), 0.70),
		event("JEPI", last.AddDate(0, 0, 30), 0.40),
	)

	out := Classify(evs, DefaultOptions())
	dev := out[5]
	if dev.PaymentType != models.PaymentSpecial {
		t.Fatalf("off-cadence deviant should be special, got %s", dev.PaymentType)
	}
	if dev.DaysSincePrevious == nil || *dev.DaysSincePrevious != 10 {
		t.Fatalf("expected 10-day gap, got %v", dev.DaysSincePrevious)
	}
	if dev.FrequencyNumber == nil || *dev.FrequencyNumber != 1 {
		t.Fatalf("special should carry frequency 1, got %v", dev.FrequencyNumber)
	}
	if dev.AnnualizedAmount != nil || dev.NormalizedAmount != nil {
		t.Fatalf("special should not be annualized")
	}
	next := out[6]
	if next.PaymentType != models.PaymentRegular {
		t.Fatalf("resumed run rate should be regular, got %s", next.PaymentType)
	}
	if next.FrequencyNumber == nil || *next.FrequencyNumber != 12 {
		t.Fatalf("resumed run rate expected frequency 12, got %v", next.FrequencyNumber)
	}
}

func TestClassifyCadenceBreakRepeatIsRateChange(t *testing.T) {
	evs := monthlySeries("JEPI", day(2024, time.January, 10), 0.40, 5)
	last := evs[len(evs)-1].ExDate
	// the early payment repeats a month later: a rate change, not a one-off
	evs = append(evs,
		event("JEPI", last.AddDate(0, 0, 10), 0.70),
		event("JEPI", last.AddDate(0, 0, 30), 0.70),
	)

	out := Classify(evs, DefaultOptions())
	if out[5].PaymentType != models.PaymentRegular {
		t.Fatalf("repeated amount should classify regular, got %s", out[5].PaymentType)
	}
}

func TestClassifyCadenceTransition(t *testing.T) {
	evs := monthlySeries("QDTE", day(2023, time.January, 5), 0.40, 12)
	last := evs[len(evs)-1].ExDate
	for i := 0; i < 8; i++ {
		evs = append(evs, event("QDTE", last.AddDate(0, 0, 7*(i+1)), 0.10))
	}

	out := Classify(evs, DefaultOptions())
	lastMonthly := out[11]
	if lastMonthly.FrequencyNumber == nil || *lastMonthly.FrequencyNumber != 12 {
		t.Fatalf("last monthly should keep frequency 12, got %v", lastMonthly.FrequencyNumber)
	}
	if lastMonthly.AnnualizedAmount == nil || *lastMonthly.AnnualizedAmount != 4.80 {
		t.Fatalf("last monthly expected annualized 4.80, got %v", lastMonthly.AnnualizedAmount)
	}
	for i := 12; i < len(out); i++ {
		cd := out[i]
		if cd.PaymentType != models.PaymentRegular {
			t.Fatalf("weekly payment %d should be regular, got %s", i, cd.PaymentType)
		}
		if cd.FrequencyNumber == nil || *cd.FrequencyNumber != 52 {
			t.Fatalf("weekly payment %d expected frequency 52, got %v", i, cd.FrequencyNumber)
		}
		if cd.NormalizedAmount == nil || *cd.NormalizedAmount != 0.1 {
			t.Fatalf("weekly payment %d expected normalized 0.1, got %v", i, cd.NormalizedAmount)
		}
	}
}

func TestClassifySingleEvent(t *testing.T) {
	out := Classify([]models.DividendEvent{event("NEWF", day(2024, time.June, 3), 0.20)}, DefaultOptions())
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if out[0].PaymentType != models.PaymentInitial {
		t.Fatalf("expected initial, got %s", out[0].PaymentType)
	}
	if out[0].FrequencyNumber != nil {
		t.Fatalf("single event has no cadence to infer, got %v", *out[0].FrequencyNumber)
	}
	if out[0].DaysSincePrevious != nil {
		t.Fatalf("single event has no look-back gap")
	}
}

func TestClassifyEmpty(t *testing.T) {
	out := Classify(nil, DefaultOptions())
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %d", len(out))
	}
}
