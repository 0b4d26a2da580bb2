package learning

import "math"

type ProgressStatus string

const (
	// ProgressNotStarted is never produced by Classify: purchased courses at 0% count as in progress.
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// Progress is a derived completion summary for a course or subject scope.
type Progress struct {
	Completed  int            `json:"completed"`
	Total      int            `json:"total"`
	Percentage int            `json:"percentage"`
	Status     ProgressStatus `json:"status"`
}

// Percentage returns round(100*completed/total), 0 when total is 0, always within [0,100].
func Percentage(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

func Classify(percentage int) ProgressStatus {
	if percentage >= 100 {
		return ProgressCompleted
	}
	return ProgressInProgress
}

func NewProgress(completed, total int) Progress {
	pct := Percentage(completed, total)
	return Progress{
		Completed:  completed,
		Total:      total,
		Percentage: pct,
		Status:     Classify(pct),
	}
}

// FlattenPublishedLessons walks subjects -> chapters -> lessons keeping only published chapters and lessons.
func FlattenPublishedLessons(subjects []Subject) []Lesson {
	out := make([]Lesson, 0)
	for _, s := range subjects {
		out = append(out, FlattenSubjectLessons(s)...)
	}
	return out
}

func FlattenSubjectLessons(s Subject) []Lesson {
	out := make([]Lesson, 0)
	for _, ch := range s.Chapters {
		if !ch.IsPublished {
			continue
		}
		for _, l := range ch.Lessons {
			if l.IsPublished {
				out = append(out, l)
			}
		}
	}
	return out
}
