package divclass

import (
	"testing"
	"time"

	"DivScope/internal/domain/models"
)

func TestClassifyCEFDecemberCluster(t *testing.T) {
	evs := []models.DividendEvent{
		event("PDI", day(2024, time.December, 10), 0.10),
		event("PDI", day(2024, time.December, 15), 0.10),
		event("PDI", day(2024, time.December, 21), 0.50),
	}
	out := ClassifyCEF(evs, DefaultCEFOptions())
	if len(out) != 3 {
		t.Fatalf("expected 3 records, got %d", len(out))
	}
	if out[0].PaymentType != models.PaymentInitial {
		t.Fatalf("first December payment should be initial, got %s", out[0].PaymentType)
	}
	if out[1].PaymentType != models.PaymentSpecial {
		t.Fatalf("second December payment should be special, got %s", out[1].PaymentType)
	}
	if out[2].PaymentType != models.PaymentSpecial {
		t.Fatalf("December spike should be special, got %s", out[2].PaymentType)
	}
	if out[2].RegularComponent == nil || *out[2].RegularComponent != 0.10 {
		t.Fatalf("spike regular component expected 0.10, got %v", out[2].RegularComponent)
	}
	if out[2].SpecialComponent == nil || *out[2].SpecialComponent != 0.40 {
		t.Fatalf("spike special component expected 0.40, got %v", out[2].SpecialComponent)
	}
	for _, i := range []int{1, 2} {
		if out[i].FrequencyNumber == nil || *out[i].FrequencyNumber != 1 {
			t.Fatalf("special %d should carry frequency 1, got %v", i, out[i].FrequencyNumber)
		}
		if out[i].FrequencyLabel != models.FreqIrregular {
			t.Fatalf("special %d should be irregular, got %s", i, out[i].FrequencyLabel)
		}
		if out[i].AnnualizedAmount != nil {
			t.Fatalf("special %d should not be annualized", i)
		}
	}
}

func TestClassifyCEFExactRepeatStaysRegular(t *testing.T) {
	evs := []models.DividendEvent{
		event("PDI", day(2024, time.February, 5), 0.10),
		event("PDI", day(2024, time.March, 6), 0.10),
		event("PDI", day(2024, time.April, 5), 0.10),
		// clustered 3 days later, but the amount repeats exactly
		event("PDI", day(2024, time.April, 8), 0.10),
	}
	out := ClassifyCEF(evs, DefaultCEFOptions())
	for i, cd := range out {
		if cd.PaymentType == models.PaymentSpecial {
			t.Fatalf("payment %d should not be special", i)
		}
	}
}

func TestClassifyCEFExtremeSpike(t *testing.T) {
	evs := []models.DividendEvent{
		event("GOF", day(2024, time.March, 5), 0.18),
		event("GOF", day(2024, time.April, 4), 0.18),
		event("GOF", day(2024, time.May, 4), 0.18),
		// a mid-year one-off far above the run rate that never repeats
		event("GOF", day(2024, time.June, 3), 0.90),
		event("GOF", day(2024, time.July, 3), 0.18),
	}
	out := ClassifyCEF(evs, DefaultCEFOptions())
	if out[3].PaymentType != models.PaymentSpecial {
		t.Fatalf("spike should be special, got %s", out[3].PaymentType)
	}
	if out[3].RegularComponent == nil || *out[3].RegularComponent != 0.18 {
		t.Fatalf("spike regular component expected 0.18, got %v", out[3].RegularComponent)
	}
	if out[4].PaymentType != models.PaymentRegular {
		t.Fatalf("run rate after spike should be regular, got %s", out[4].PaymentType)
	}
}

func TestClassifyCEFJanuaryRateReset(t *testing.T) {
	evs := []models.DividendEvent{
		event("PDI", day(2024, time.September, 5), 0.12),
		event("PDI", day(2024, time.October, 5), 0.12),
		event("PDI", day(2024, time.November, 4), 0.12),
		event("PDI", day(2024, time.December, 4), 0.12),
		// an early-January jump is the new run rate, even when the fund
		// later walks it back
		event("PDI", day(2025, time.January, 3), 0.20),
		event("PDI", day(2025, time.February, 2), 0.12),
		event("PDI", day(2025, time.March, 4), 0.12),
	}
	out := ClassifyCEF(evs, DefaultCEFOptions())
	if out[4].PaymentType != models.PaymentRegular {
		t.Fatalf("January reset should be regular, got %s", out[4].PaymentType)
	}
	if out[4].FrequencyLabel != models.FreqMonthly {
		t.Fatalf("January reset should keep the monthly label, got %s", out[4].FrequencyLabel)
	}
	for i, cd := range out {
		if cd.PaymentType == models.PaymentSpecial {
			t.Fatalf("payment %d should not be special", i)
		}
	}
}

func TestClassifyCEFPostStableSpike(t *testing.T) {
	evs := []models.DividendEvent{
		event("GOF", day(2024, time.February, 5), 0.10),
		event("GOF", day(2024, time.March, 6), 0.10),
		event("GOF", day(2024, time.April, 5), 0.10),
		event("GOF", day(2024, time.May, 5), 0.10),
		// 2.5x the run rate: under the extreme bar, gone again next month
		event("GOF", day(2024, time.June, 4), 0.25),
		event("GOF", day(2024, time.July, 4), 0.10),
	}
	out := ClassifyCEF(evs, DefaultCEFOptions())
	if out[4].PaymentType != models.PaymentSpecial {
		t.Fatalf("unrepeated spike after a stable run should be special, got %s", out[4].PaymentType)
	}
	if out[4].RegularComponent == nil || *out[4].RegularComponent != 0.10 {
		t.Fatalf("spike regular component expected 0.10, got %v", out[4].RegularComponent)
	}
	if out[4].SpecialComponent == nil || *out[4].SpecialComponent != 0.15 {
		t.Fatalf("spike special component expected 0.15, got %v", out[4].SpecialComponent)
	}
	if out[5].PaymentType != models.PaymentRegular {
		t.Fatalf("resumed run rate should be regular, got %s", out[5].PaymentType)
	}
}

func TestClassifyCEFCadenceBreakSpike(t *testing.T) {
	evs := []models.DividendEvent{
		event("GOF", day(2024, time.March, 1), 0.10),
		event("GOF", day(2024, time.March, 31), 0.12),
		event("GOF", day(2024, time.April, 30), 0.10),
		event("GOF", day(2024, time.May, 30), 0.12),
		// off the monthly cadence and well above the run rate, never repeated
		event("GOF", day(2024, time.June, 14), 0.30),
		event("GOF", day(2024, time.July, 14), 0.12),
	}
	out := ClassifyCEF(evs, DefaultCEFOptions())
	if out[4].PaymentType != models.PaymentSpecial {
		t.Fatalf("off-cadence spike should be special, got %s", out[4].PaymentType)
	}
	for _, i := range []int{1, 2, 3, 5} {
		if out[i].PaymentType != models.PaymentRegular {
			t.Fatalf("payment %d should be regular, got %s", i, out[i].PaymentType)
		}
	}
}

func TestClassifyCEFHolidayShiftKeepsMonthly(t *testing.T) {
	evs := []models.DividendEvent{
		event("PDI", day(2024, time.January, 10), 0.10),
		event("PDI", day(2024, time.February, 9), 0.10),
		event("PDI", day(2024, time.March, 10), 0.10),
		// sixteen days early around a holiday, same amount
		event("PDI", day(2024, time.March, 26), 0.10),
	}
	out := ClassifyCEF(evs, DefaultCEFOptions())
	last := out[3]
	if last.PaymentType != models.PaymentRegular {
		t.Fatalf("holiday-shifted payment should be regular, got %s", last.PaymentType)
	}
	if last.FrequencyLabel != models.FreqMonthly {
		t.Fatalf("holiday shift should keep the monthly label, got %s", last.FrequencyLabel)
	}
	if last.FrequencyNumber == nil || *last.FrequencyNumber != 12 {
		t.Fatalf("holiday shift expected frequency 12, got %v", last.FrequencyNumber)
	}
}

func TestEngineDispatch(t *testing.T) {
	e := NewEngine(DefaultOptions(), DefaultCEFOptions(), []string{"pdi", "GOF"})
	if e.Kind("PDI") != models.FundCEF {
		t.Fatalf("PDI should be cef")
	}
	if e.Kind("gof") != models.FundCEF {
		t.Fatalf("gof should be cef")
	}
	if e.Kind("JEPI") != models.FundETF {
		t.Fatalf("JEPI should be etf")
	}

	evs := []models.DividendEvent{event("JEPI", day(2024, time.May, 1), 0.35)}
	out := e.Classify("JEPI", evs)
	if len(out) != 1 || out[0].PaymentType != models.PaymentInitial {
		t.Fatalf("unexpected etf classification: %+v", out)
	}
}
