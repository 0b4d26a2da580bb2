package learning

import "time"

// LessonState is the closed set of display states for a lesson.
type LessonState string

const (
	LessonStateLocked    LessonState = "locked"
	LessonStateCompleted LessonState = "completed"
	LessonStateLiveToday LessonState = "live_today"
	LessonStateAvailable LessonState = "available"
)

// Locked reports whether a lesson scheduled at date is still gated at now.
// The gate is an instant comparison: it opens exactly at date.
func Locked(date, now time.Time) bool {
	return date.After(now)
}

// StateOf resolves the display state. Precedence is locked, completed, live today, available.
// loc only affects the calendar-day check; a nil loc means UTC.
func StateOf(date time.Time, completed bool, now time.Time, loc *time.Location) LessonState {
	switch {
	case Locked(date, now):
		return LessonStateLocked
	case completed:
		return LessonStateCompleted
	case SameDay(date, now, loc):
		return LessonStateLiveToday
	default:
		return LessonStateAvailable
	}
}

func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay and EndOfDay bound the calendar day of t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// FormatDisplay renders t for schedule views, e.g. "Tue, 25 Nov 2025, 10:00 AM".
func FormatDisplay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("Mon, 02 Jan 2006, 03:04 PM")
}
