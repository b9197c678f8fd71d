package divclass

import "testing"

func TestFrequencyFromGap(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{7, 52},
		{19, 52},
		{20, 12},
		{30, 12},
		{59, 12},
		{91, 4},
		{182, 2},
		{365, 1},
		{3, 12}, // sub-weekly gaps carry no signal
		{0, 12},
	}
	for _, c := range cases {
		if got := FrequencyFromGap(c.days); got != c.want {
			t.Fatalf("FrequencyFromGap(%d) = %d, want %d", c.days, got, c.want)
		}
	}
}

func TestUnambiguousGap(t *testing.T) {
	for _, days := range []int{7, 30, 91, 182, 365} {
		if !unambiguousGap(days) {
			t.Fatalf("gap %d should be unambiguous", days)
		}
	}
	for _, days := range []int{3, 15, 50, 120, 250, 400} {
		if unambiguousGap(days) {
			t.Fatalf("gap %d should be ambiguous", days)
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	if got := dominantFrequency([]int{30, 30, 30, 7, 30}); got != 12 {
		t.Fatalf("expected dominant 12, got %d", got)
	}
	if got := dominantFrequency([]int{30, 7, 91, 182}); got != 0 {
		t.Fatalf("expected no majority, got %d", got)
	}
	if got := dominantFrequency(nil); got != 0 {
		t.Fatalf("expected 0 for empty gaps, got %d", got)
	}
}
