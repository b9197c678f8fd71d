package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestParseDateBareAndTimestamp(t *testing.T) {
    want := time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)
    for _, s := range []string{"2024-02-09", "2024-02-09T00:00:00.000Z", "2024-02-09T15:30:00Z"} {
        got, ok := ParseDate(s)
        if !ok {
            t.Fatalf("expected ok for %q", s)
        }
        if !got.Equal(want) {
            t.Fatalf("%q: got %v want %v", s, got, want)
        }
    }
}

func TestDayString(t *testing.T) {
    ts := time.Date(2024, 2, 9, 23, 59, 0, 0, time.UTC)
    if got := DayString(ts); got != "2024-02-09" {
        t.Fatalf("unexpected day string %q", got)
    }
}
