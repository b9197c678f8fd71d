package util

import (
    "strconv"
    "time"
)

const isoDate = "2006-01-02"

// ParseTime tries RFC3339, RFC3339Nano, ISO date, and unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(isoDate, s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// ParseDate parses a calendar date, accepting either a bare ISO date or a
// full timestamp, and truncates to midnight UTC. Upstream feeds mix both.
func ParseDate(s string) (time.Time, bool) {
    t, ok := ParseTime(s)
    if !ok {
        return time.Time{}, false
    }
    return DayOf(t), true
}

// DayOf truncates a time to midnight UTC.
func DayOf(t time.Time) time.Time {
    t = t.UTC()
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayString formats a time as an ISO calendar date.
func DayString(t time.Time) string {
    return t.UTC().Format(isoDate)
}
