package analytics

import (
	"math"
	"testing"
	"time"

	"DivScope/internal/domain/models"
)

func dailySeries(start time.Time, closes []float64) []models.PricePoint {
	out := make([]models.PricePoint, 0, len(closes))
	for i, c := range closes {
		out = append(out, models.PricePoint{Date: start.AddDate(0, 0, i), Close: c})
	}
	return out
}

func flatCloses(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestCalculateNoData(t *testing.T) {
	c := NewZScoreCalculator()
	res := c.Calculate("PDI", nil, nil, time.Now())
	if res.Status != ZScoreNoData {
		t.Fatalf("expected %s, got %s", ZScoreNoData, res.Status)
	}
	if res.ZScore != nil {
		t.Fatalf("no-data result should have nil z-score")
	}
}

func TestCalculateInsufficientData(t *testing.T) {
	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	prices := dailySeries(start, flatCloses(10, 20))
	navs := dailySeries(start, flatCloses(10, 19))

	c := NewZScoreCalculator()
	res := c.Calculate("PDI", prices, navs, start.AddDate(0, 1, 0))
	if res.Status != ZScoreInsufficient {
		t.Fatalf("expected %s, got %s", ZScoreInsufficient, res.Status)
	}
	if res.DataPoints != 10 {
		t.Fatalf("expected 10 data points, got %d", res.DataPoints)
	}
}

func TestCalculateFlatWindow(t *testing.T) {
	start := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	prices := dailySeries(start, flatCloses(300, 10))
	navs := dailySeries(start, flatCloses(300, 10))

	c := NewZScoreCalculator()
	res := c.Calculate("PDI", prices, navs, start.AddDate(0, 0, 299))
	if res.Status != ZScoreActive {
		t.Fatalf("expected %s, got %s", ZScoreActive, res.Status)
	}
	if res.ZScore == nil || *res.ZScore != 0 {
		t.Fatalf("flat window should score 0, got %v", res.ZScore)
	}
	if res.CurrentPDPct == nil || *res.CurrentPDPct != 0 {
		t.Fatalf("flat window should have 0%% premium, got %v", res.CurrentPDPct)
	}
}

func TestCalculateDiscount(t *testing.T) {
	start := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	closes := flatCloses(300, 10)
	closes[len(closes)-1] = 9 // newest day trades at a discount
	prices := dailySeries(start, closes)
	navs := dailySeries(start, flatCloses(300, 10))

	c := NewZScoreCalculator()
	res := c.Calculate("PDI", prices, navs, start.AddDate(0, 0, 299))
	if res.Status != ZScoreActive {
		t.Fatalf("expected %s, got %s", ZScoreActive, res.Status)
	}
	if res.ZScore == nil || *res.ZScore >= 0 {
		t.Fatalf("discount should score negative, got %v", res.ZScore)
	}
	if res.CurrentPDPct == nil || math.Abs(*res.CurrentPDPct-(-10)) > 1e-9 {
		t.Fatalf("expected -10%% premium/discount, got %v", res.CurrentPDPct)
	}
}

func TestCalculateIgnoresRowsAfterAsOf(t *testing.T) {
	start := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	prices := dailySeries(start, flatCloses(300, 10))
	navs := dailySeries(start, flatCloses(300, 10))
	asOf := start.AddDate(0, 0, 149)

	c := NewZScoreCalculator()
	res := c.Calculate("PDI", prices, navs, asOf)
	if res.DataPoints != 150 {
		t.Fatalf("expected 150 rows on or before asOf, got %d", res.DataPoints)
	}
	if res.Status != ZScoreInsufficient {
		t.Fatalf("expected %s, got %s", ZScoreInsufficient, res.Status)
	}
}

func TestCalculateDropsUnmatchedDates(t *testing.T) {
	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	prices := dailySeries(start, flatCloses(5, 10))
	navs := dailySeries(start, flatCloses(3, 10)) // last two price days have no NAV

	c := NewZScoreCalculator()
	res := c.Calculate("PDI", prices, navs, start.AddDate(0, 1, 0))
	if res.DataPoints != 3 {
		t.Fatalf("inner join should keep 3 rows, got %d", res.DataPoints)
	}
}
