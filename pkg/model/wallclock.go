package model

import (
	"fmt"
	"time"
)

// Wall-clock timestamps are timezone-naive by design: two identical strings
// denote the same instant no matter where the server runs. The layout is
// fixed-width and zero-padded, so lexical ordering equals chronological
// ordering and the strings can be range-filtered directly in storage.
const (
	WallClockLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
)

// WallClock is a local date-time in the fixed shape "YYYY-MM-DD HH:mm:ss".
type WallClock string

func ParseWallClock(s string) (WallClock, error) {
	t, err := time.Parse(WallClockLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid wall-clock timestamp %q: %w", s, err)
	}
	// time.Parse tolerates unpadded numbers; the round-trip check rejects
	// them, since lexical ordering relies on the fixed-width form.
	if t.Format(WallClockLayout) != s {
		return "", fmt.Errorf("invalid wall-clock timestamp %q: must be zero-padded %s", s, WallClockLayout)
	}
	return WallClock(s), nil
}

// CombineWallClock joins a "YYYY-MM-DD" date with an "HH:mm" or "HH:mm:ss"
// clock into a full wall-clock timestamp.
func CombineWallClock(date, clock string) (WallClock, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	if _, err := time.Parse(ClockLayout, clock); err == nil {
		clock += ":00"
	} else if _, err := time.Parse("15:04:05", clock); err != nil {
		return "", fmt.Errorf("invalid clock %q: %w", clock, err)
	}
	return ParseWallClock(date + " " + clock)
}

// NowWallClock formats the server's current local time. Callers that need a
// reproducible "now" should thread a WallClock through instead.
func NowWallClock() WallClock {
	return WallClock(time.Now().Format(WallClockLayout))
}

func (w WallClock) String() string { return string(w) }

func (w WallClock) IsZero() bool { return w == "" }

// Before and After are plain lexical comparisons; the fixed layout makes
// them equivalent to chronological ones.
func (w WallClock) Before(other WallClock) bool { return w < other }

func (w WallClock) After(other WallClock) bool { return w > other }

// Date returns the "YYYY-MM-DD" prefix.
func (w WallClock) Date() string {
	if len(w) < len(DateLayout) {
		return ""
	}
	return string(w[:len(DateLayout)])
}

// Hour returns the hour-of-day component, or -1 for a malformed value.
func (w WallClock) Hour() int {
	t, err := w.Time()
	if err != nil {
		return -1
	}
	return t.Hour()
}

func (w WallClock) Time() (time.Time, error) {
	return time.Parse(WallClockLayout, string(w))
}

// DayBounds returns the half-open [start, end) window covering the calendar
// day of the given "YYYY-MM-DD" date.
func DayBounds(date string) (WallClock, WallClock, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	start := WallClock(date + " 00:00:00")
	end := WallClock(d.AddDate(0, 0, 1).Format(DateLayout) + " 00:00:00")
	return start, end, nil
}

// MinutesBetween returns the whole minutes from a to b, floor-rounded.
// Malformed values count as zero.
func MinutesBetween(a, b WallClock) int {
	ta, err := a.Time()
	if err != nil {
		return 0
	}
	tb, err := b.Time()
	if err != nil {
		return 0
	}
	return int(tb.Sub(ta).Minutes())
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that merely touch do not overlap, so
// back-to-back bookings are legal.
func Overlaps(aStart, aEnd, bStart, bEnd WallClock) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
