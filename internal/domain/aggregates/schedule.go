package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Contract names an aggregate for metrics and lists the rows its writes touch.
// Aggregates always own their write transaction.
type Contract struct {
	Name   string
	Writes []string
	// LockedBy is the row every write locks first, serializing writers of one aggregate.
	LockedBy string
}

type Aggregate interface {
	Contract() Contract
}

// ScheduledLesson is one pre-validated import row with its teacher already resolved.
type ScheduledLesson struct {
	ChapterTitle string
	Title        string
	Date         time.Time
	TeacherID    uuid.UUID
}

type ImportLessonsInput struct {
	SubjectID uuid.UUID
	Lessons   []ScheduledLesson
}

type ImportLessonsResult struct {
	CreatedChapters []uuid.UUID
	CreatedLessons  []uuid.UUID
}

// ScheduleAggregate owns chapter and lesson sequencing for a subject.
// ImportLessons is all-or-nothing; ResetSchedule removes every chapter and its lessons.
type ScheduleAggregate interface {
	Aggregate
	ImportLessons(ctx context.Context, in ImportLessonsInput) (ImportLessonsResult, error)
	ResetSchedule(ctx context.Context, subjectID uuid.UUID) (int64, error)
}

var ScheduleAggregateContract = Contract{
	Name:     "Learning.Schedule",
	Writes:   []string{"chapters", "lessons"},
	LockedBy: "subjects",
}

// Op names one operation of the aggregate, e.g. "Learning.Schedule.ImportLessons".
func (c Contract) Op(name string) string { return c.Name + "." + name }
