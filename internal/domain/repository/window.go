package repository

import "time"

// Window represents a history lookback bucket used by read queries.
type Window string

const (
	W1y  Window = "1y"
	W3y  Window = "3y"
	W5y  Window = "5y"
	WAll Window = "all"
)

// IsValidWindow returns true if w is a supported lookback window.
func IsValidWindow(w Window) bool {
	switch w {
	case W1y, W3y, W5y, WAll:
		return true
	default:
		return false
	}
}

// DefaultWindow returns the default lookback window.
func DefaultWindow() Window { return W3y }

// NormalizeWindow converts a raw string to a valid window (or default).
func NormalizeWindow(s string) Window {
	if s == "" {
		return DefaultWindow()
	}
	w := Window(s)
	if IsValidWindow(w) {
		return w
	}
	return DefaultWindow()
}

// Since returns the inclusive start time of the window ending at now.
// WAll maps to the zero time, meaning no lower bound.
func (w Window) Since(now time.Time) time.Time {
	switch w {
	case W1y:
		return now.AddDate(-1, 0, 0)
	case W3y:
		return now.AddDate(-3, 0, 0)
	case W5y:
		return now.AddDate(-5, 0, 0)
	default:
		return time.Time{}
	}
}
