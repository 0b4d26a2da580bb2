package aggregates

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yungbote/classbridge-backend/internal/data/repos"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
)

type ScheduleAggregateDeps struct {
	Base BaseDeps

	Subjects repos.SubjectRepo
	Chapters repos.ChapterRepo
	Lessons  repos.LessonRepo
}

type scheduleAggregate struct {
	deps ScheduleAggregateDeps
}

func NewScheduleAggregate(deps ScheduleAggregateDeps) domainagg.ScheduleAggregate {
	deps.Base = deps.Base.withDefaults()
	return &scheduleAggregate{deps: deps}
}

func (a *scheduleAggregate) Contract() domainagg.Contract {
	return domainagg.ScheduleAggregateContract
}

// ImportLessons appends every lesson of in to the subject in input order. Chapters are
// matched by exact title; unknown titles become new published chapters.
func (a *scheduleAggregate) ImportLessons(ctx context.Context, in domainagg.ImportLessonsInput) (domainagg.ImportLessonsResult, error) {
	op := domainagg.ScheduleAggregateContract.Op("ImportLessons")
	var out domainagg.ImportLessonsResult
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if in.SubjectID == uuid.Nil {
			return ValidationError("subject id is required")
		}
		if len(in.Lessons) == 0 {
			return ValidationError("no lessons to import")
		}

		// serializes concurrent imports into the same subject
		subject, err := a.deps.Subjects.LockForUpdate(dbc, in.SubjectID)
		if err != nil {
			return err
		}
		if subject == nil {
			return domainagg.NotFound(op, "Subject not found")
		}

		teachers, err := a.deps.Subjects.Teachers(dbc, subject.ID)
		if err != nil {
			return err
		}
		assigned := make(map[uuid.UUID]bool, len(teachers))
		for _, t := range teachers {
			assigned[t.ID] = true
		}

		chapters, err := a.deps.Chapters.ListBySubject(dbc, subject.ID)
		if err != nil {
			return err
		}
		chapterByTitle := make(map[string]uuid.UUID, len(chapters))
		nextChapter := 1
		// Chapters arrive in position order, so a duplicated title resolves to the last one.
		for _, ch := range chapters {
			chapterByTitle[ch.Title] = ch.ID
			if ch.Position >= nextChapter {
				nextChapter = ch.Position + 1
			}
		}

		nextLesson := map[uuid.UUID]int{}
		for i, row := range in.Lessons {
			title := strings.TrimSpace(row.Title)
			chapterTitle := strings.TrimSpace(row.ChapterTitle)
			if title == "" || chapterTitle == "" {
				return ValidationError(fmt.Sprintf("row %d: chapter and title are required", i+1))
			}
			if !assigned[row.TeacherID] {
				return InvariantError(fmt.Sprintf("row %d: teacher %s is not assigned to the subject", i+1, row.TeacherID))
			}

			chapterID, ok := chapterByTitle[chapterTitle]
			if !ok {
				ch := &types.Chapter{
					SubjectID:   subject.ID,
					Title:       chapterTitle,
					Position:    nextChapter,
					IsPublished: true,
				}
				if err := a.deps.Chapters.Create(dbc, ch); err != nil {
					return err
				}
				nextChapter++
				chapterID = ch.ID
				chapterByTitle[chapterTitle] = ch.ID
				nextLesson[ch.ID] = 1
				out.CreatedChapters = append(out.CreatedChapters, ch.ID)
			}

			pos, seen := nextLesson[chapterID]
			if !seen {
				last, err := a.deps.Lessons.LastPosition(dbc, chapterID)
				if err != nil {
					return err
				}
				pos = last + 1
			}

			teacherID := row.TeacherID
			lesson := &types.Lesson{
				ChapterID:   chapterID,
				Title:       title,
				Position:    pos,
				Date:        row.Date,
				IsPublished: true,
				IsFree:      false,
				TeacherID:   &teacherID,
			}
			if err := a.deps.Lessons.Create(dbc, lesson); err != nil {
				return err
			}
			nextLesson[chapterID] = pos + 1
			out.CreatedLessons = append(out.CreatedLessons, lesson.ID)
		}
		return nil
	})
	if err != nil {
		return domainagg.ImportLessonsResult{}, err
	}
	return out, nil
}

// ResetSchedule deletes every chapter of the subject together with their lessons and
// progress rows. It returns the number of chapters removed.
func (a *scheduleAggregate) ResetSchedule(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	op := domainagg.ScheduleAggregateContract.Op("ResetSchedule")
	var removed int64
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		subject, err := a.deps.Subjects.LockForUpdate(dbc, subjectID)
		if err != nil {
			return err
		}
		if subject == nil {
			return domainagg.NotFound(op, "Subject not found")
		}
		n, err := a.deps.Chapters.DeleteBySubject(dbc, subject.ID)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	return removed, err
}
