package learning

import (
	"testing"
	"time"
)

func TestLockedOpensAtScheduledInstant(t *testing.T) {
	at := time.Date(2025, 11, 25, 10, 0, 0, 0, time.UTC)
	if !Locked(at, at.Add(-time.Nanosecond)) {
		t.Fatalf("one nanosecond before: want locked")
	}
	if Locked(at, at) {
		t.Fatalf("at instant: want unlocked")
	}
	if Locked(at, at.Add(time.Hour)) {
		t.Fatalf("after: want unlocked")
	}
}

func TestStateOfPrecedence(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := time.Date(2025, 11, 25, 12, 0, 0, 0, ist)

	future := now.Add(2 * time.Hour)
	if got := StateOf(future, true, now, ist); got != LessonStateLocked {
		t.Fatalf("future completed: want=%s got=%s", LessonStateLocked, got)
	}
	earlierToday := now.Add(-2 * time.Hour)
	if got := StateOf(earlierToday, true, now, ist); got != LessonStateCompleted {
		t.Fatalf("completed: want=%s got=%s", LessonStateCompleted, got)
	}
	if got := StateOf(earlierToday, false, now, ist); got != LessonStateLiveToday {
		t.Fatalf("today: want=%s got=%s", LessonStateLiveToday, got)
	}
	yesterday := now.AddDate(0, 0, -1)
	if got := StateOf(yesterday, false, now, ist); got != LessonStateAvailable {
		t.Fatalf("yesterday: want=%s got=%s", LessonStateAvailable, got)
	}
}

func TestSameDayUsesViewerLocation(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 20:00 UTC on the 24th is 01:30 IST on the 25th
	a := time.Date(2025, 11, 24, 20, 0, 0, 0, time.UTC)
	b := time.Date(2025, 11, 25, 9, 0, 0, 0, time.UTC)
	if !SameDay(a, b, ist) {
		t.Fatalf("want same IST day")
	}
	if SameDay(a, b, time.UTC) {
		t.Fatalf("want different UTC day")
	}
}

func TestDayBounds(t *testing.T) {
	t0 := time.Date(2025, 11, 25, 15, 4, 5, 0, time.UTC)
	start := StartOfDay(t0, time.UTC)
	end := EndOfDay(t0, time.UTC)
	if !start.Equal(time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start: got=%s", start)
	}
	if !end.Equal(time.Date(2025, 11, 26, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)) {
		t.Fatalf("end: got=%s", end)
	}
}

func TestAssetKind(t *testing.T) {
	k, err := ParseAssetKind("notes")
	if err != nil || k != AssetNotes {
		t.Fatalf("parse notes: k=%s err=%v", k, err)
	}
	if _, err := ParseAssetKind("pdf"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	var l Lesson
	AssetVideo.Apply(&l, "https://cdn/v.mp4")
	if l.VideoURL == nil || *l.VideoURL != "https://cdn/v.mp4" || l.NotesURL != nil {
		t.Fatalf("apply video: got=%+v", l)
	}
}
