package repository

import (
	"testing"
	"time"
)

func TestNormalizeWindow(t *testing.T) {
	if got := NormalizeWindow(""); got != W3y {
		t.Fatalf("empty should default to 3y, got %s", got)
	}
	if got := NormalizeWindow("1y"); got != W1y {
		t.Fatalf("expected 1y, got %s", got)
	}
	if got := NormalizeWindow("2y"); got != W3y {
		t.Fatalf("unsupported window should default, got %s", got)
	}
	if got := NormalizeWindow("all"); got != WAll {
		t.Fatalf("expected all, got %s", got)
	}
}

func TestWindowSince(t *testing.T) {
	now := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	if got := W1y.Since(now); !got.Equal(now.AddDate(-1, 0, 0)) {
		t.Fatalf("unexpected 1y start %v", got)
	}
	if got := WAll.Since(now); !got.IsZero() {
		t.Fatalf("all window should have no lower bound, got %v", got)
	}
}
