package services

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/domain/learning"
)

// LessonView is a lesson as one viewer sees it at one instant. Locked lessons never expose
// their media URLs.
type LessonView struct {
	Lesson      *types.Lesson        `json:"lesson"`
	State       learning.LessonState `json:"state"`
	Locked      bool                 `json:"locked"`
	DisplayDate string               `json:"display_date"`
}

type ChapterView struct {
	ID       uuid.UUID    `json:"id"`
	Title    string       `json:"title"`
	Position int          `json:"position"`
	Lessons  []LessonView `json:"lessons"`
}

type SubjectView struct {
	ID       uuid.UUID         `json:"id"`
	Title    string            `json:"title"`
	Position int               `json:"position"`
	Progress learning.Progress `json:"progress"`
	Chapters []ChapterView     `json:"chapters"`
}

func newLessonView(l types.Lesson, completed bool, now time.Time, loc *time.Location) LessonView {
	locked := learning.Locked(l.Date, now)
	if locked {
		l.VideoURL = nil
		l.NotesURL = nil
	}
	return LessonView{
		Lesson:      &l,
		State:       learning.StateOf(l.Date, completed, now, loc),
		Locked:      locked,
		DisplayDate: learning.FormatDisplay(l.Date, loc),
	}
}

// buildSubjectView expects s to carry only published chapters and lessons.
func buildSubjectView(s types.Subject, done map[uuid.UUID]bool, now time.Time, loc *time.Location) SubjectView {
	view := SubjectView{
		ID:       s.ID,
		Title:    s.Title,
		Position: s.Position,
		Chapters: make([]ChapterView, 0, len(s.Chapters)),
	}
	total, completed := 0, 0
	for _, ch := range s.Chapters {
		cv := ChapterView{ID: ch.ID, Title: ch.Title, Position: ch.Position, Lessons: make([]LessonView, 0, len(ch.Lessons))}
		for _, l := range ch.Lessons {
			total++
			if done[l.ID] {
				completed++
			}
			cv.Lessons = append(cv.Lessons, newLessonView(l, done[l.ID], now, loc))
		}
		view.Chapters = append(view.Chapters, cv)
	}
	view.Progress = learning.NewProgress(completed, total)
	return view
}

func lessonIDs(lessons []types.Lesson) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lessons))
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}
	return ids
}
