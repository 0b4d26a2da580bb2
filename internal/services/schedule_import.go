package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/classbridge-backend/internal/data/repos"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"github.com/yungbote/classbridge-backend/internal/observability"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

// ImportRow is one spreadsheet row as sent by the admin client. Date is an ISO-8601 instant.
type ImportRow struct {
	Chapter      string `json:"chapter" validate:"required"`
	Title        string `json:"title" validate:"required"`
	Date         string `json:"date" validate:"required"`
	TeacherEmail string `json:"teacherEmail" validate:"required"`
}

type ImportResult struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

const (
	msgNoData            = "No data provided"
	msgImportFailed      = "Unable to create the schedule."
	msgScheduleReset     = "Schedule reset successfully"
	msgTeachersNotFound  = "Teachers not found in the Subject: "
	msgSubjectNotFound   = "Subject not found"
	msgScheduleImportFmt = "Successfully scheduled %d lessons."
)

type ScheduleImportService interface {
	ImportSchedule(ctx context.Context, principal types.Principal, subjectID uuid.UUID, rows []ImportRow) (ImportResult, error)
	ResetSchedule(ctx context.Context, principal types.Principal, subjectID uuid.UUID) (string, error)
}

type ScheduleImportServiceDeps struct {
	Log      *logger.Logger
	Subjects repos.SubjectRepo
	Schedule domainagg.ScheduleAggregate
	Notifier Notifier
	Metrics  *observability.Metrics
}

type scheduleImportService struct {
	log      *logger.Logger
	subjects repos.SubjectRepo
	schedule domainagg.ScheduleAggregate
	notifier Notifier
	metrics  *observability.Metrics
}

func NewScheduleImportService(deps ScheduleImportServiceDeps) ScheduleImportService {
	if deps.Notifier == nil {
		deps.Notifier = NewNotifier(nil)
	}
	return &scheduleImportService{
		log:      deps.Log.With("service", "ScheduleImportService"),
		subjects: deps.Subjects,
		schedule: deps.Schedule,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
	}
}

func (s *scheduleImportService) ImportSchedule(ctx context.Context, principal types.Principal, subjectID uuid.UUID, rows []ImportRow) (ImportResult, error) {
	const op = "ScheduleImport.ImportSchedule"
	if err := requireAdmin(op, principal); err != nil {
		return ImportResult{}, err
	}
	if len(rows) == 0 {
		return ImportResult{}, domainagg.Validation(op, msgNoData)
	}

	dbc := dbctx.New(ctx)
	subject, err := s.subjects.GetByID(dbc, subjectID)
	if err != nil {
		return ImportResult{}, internalError(op, err)
	}
	if subject == nil {
		return ImportResult{}, domainagg.NotFound(op, msgSubjectNotFound)
	}

	v := validatorInstance()
	rows = trimRows(rows)
	for i := range rows {
		if err := v.Struct(rows[i]); err != nil {
			return ImportResult{}, domainagg.Validation(op, fmt.Sprintf("Row %d: %s", i+1, validationMessage(err)))
		}
	}

	teachers, err := s.subjects.Teachers(dbc, subject.ID)
	if err != nil {
		return ImportResult{}, internalError(op, err)
	}
	teacherByEmail := make(map[string]uuid.UUID, len(teachers))
	for _, t := range teachers {
		teacherByEmail[normalizeEmail(t.Email)] = t.ID
	}
	if missing := unknownEmails(rows, teacherByEmail); len(missing) > 0 {
		return ImportResult{}, domainagg.Validation(op, msgTeachersNotFound+strings.Join(missing, ", "))
	}

	lessons := make([]domainagg.ScheduledLesson, 0, len(rows))
	for i, row := range rows {
		date, err := ParseInstant(row.Date)
		if err != nil {
			return ImportResult{}, domainagg.Validation(op, fmt.Sprintf("Row %d: invalid date %q", i+1, row.Date))
		}
		lessons = append(lessons, domainagg.ScheduledLesson{
			ChapterTitle: row.Chapter,
			Title:        row.Title,
			Date:         date,
			TeacherID:    teacherByEmail[normalizeEmail(row.TeacherEmail)],
		})
	}

	res, err := s.schedule.ImportLessons(ctx, domainagg.ImportLessonsInput{
		SubjectID: subject.ID,
		Lessons:   lessons,
	})
	if err != nil {
		switch domainagg.CodeOf(err) {
		case domainagg.CodeValidation, domainagg.CodeNotFound, domainagg.CodeInvariantViolation:
			return ImportResult{}, err
		}
		s.log.Error("schedule import failed", "subject_id", subject.ID, "rows", len(rows), "error", err)
		return ImportResult{}, domainagg.NewError(domainagg.CodeTransactionFailed, op, msgImportFailed, err)
	}

	count := len(res.CreatedLessons)
	s.metrics.AddLessonsImported(count)
	s.notifier.ScheduleImported(subject.ID, count)
	s.log.Info("schedule imported", "subject_id", subject.ID, "lessons", count, "chapters_created", len(res.CreatedChapters))
	return ImportResult{
		Count:   count,
		Message: fmt.Sprintf(msgScheduleImportFmt, count),
	}, nil
}

func (s *scheduleImportService) ResetSchedule(ctx context.Context, principal types.Principal, subjectID uuid.UUID) (string, error) {
	const op = "ScheduleImport.ResetSchedule"
	if err := requireAdmin(op, principal); err != nil {
		return "", err
	}
	removed, err := s.schedule.ResetSchedule(ctx, subjectID)
	if err != nil {
		if code := domainagg.CodeOf(err); code == domainagg.CodeNotFound || code == domainagg.CodeValidation {
			return "", err
		}
		s.log.Error("schedule reset failed", "subject_id", subjectID, "error", err)
		return "", domainagg.NewError(domainagg.CodeTransactionFailed, op, "Unable to reset the schedule.", err)
	}
	s.metrics.IncScheduleReset()
	s.notifier.ScheduleReset(subjectID, removed)
	s.log.Info("schedule reset", "subject_id", subjectID, "chapters_removed", removed)
	return msgScheduleReset, nil
}

func trimRows(rows []ImportRow) []ImportRow {
	out := make([]ImportRow, len(rows))
	for i, r := range rows {
		out[i] = ImportRow{
			Chapter:      strings.TrimSpace(r.Chapter),
			Title:        strings.TrimSpace(r.Title),
			Date:         strings.TrimSpace(r.Date),
			TeacherEmail: strings.TrimSpace(r.TeacherEmail),
		}
	}
	return out
}

// unknownEmails returns the distinct emails missing from known, in first-seen order.
func unknownEmails(rows []ImportRow, known map[string]uuid.UUID) []string {
	seen := map[string]bool{}
	var out []string
	for _, row := range rows {
		email := normalizeEmail(row.TeacherEmail)
		if _, ok := known[email]; ok || seen[email] {
			continue
		}
		seen[email] = true
		out = append(out, row.TeacherEmail)
	}
	return out
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// instantLayouts are tried in order. Layouts without an offset are read as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseInstant parses an ISO-8601 instant with minute or finer precision and returns it in UTC.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid instant %q", s)
}
