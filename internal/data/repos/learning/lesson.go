package learning

import (
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, lesson *types.Lesson) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	LastPosition(dbc dbctx.Context, chapterID uuid.UUID) (int, error)
	SubjectIDOf(dbc dbctx.Context, lessonID uuid.UUID) (uuid.UUID, error)
	NextInSubject(dbc dbctx.Context, subjectID uuid.UUID, after time.Time) (*types.Lesson, error)
	ListScheduleBySubject(dbc dbctx.Context, subjectID uuid.UUID, from, to time.Time) ([]*types.Lesson, error)
	Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(dbc dbctx.Context, lesson *types.Lesson) error {
	lesson.Date = lesson.Date.UTC()
	return dbc.DB(r.db).Omit("Chapter", "Teacher").Create(lesson).Error
}

// GetByID preloads the chapter and teacher.
func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	var results []*types.Lesson
	if err := dbc.DB(r.db).
		Preload("Chapter").
		Preload("Teacher").
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *lessonRepo) LastPosition(dbc dbctx.Context, chapterID uuid.UUID) (int, error) {
	var last types.Lesson
	res := dbc.DB(r.db).Where("chapter_id = ?", chapterID).Order("position DESC").Limit(1).Find(&last)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}
	return last.Position, nil
}

// SubjectIDOf resolves the subject owning the lesson's chapter. uuid.Nil when the lesson is unknown.
func (r *lessonRepo) SubjectIDOf(dbc dbctx.Context, lessonID uuid.UUID) (uuid.UUID, error) {
	var ids []uuid.UUID
	err := dbc.DB(r.db).
		Model(&types.Chapter{}).
		Joins("JOIN lesson ON lesson.chapter_id = chapter.id").
		Where("lesson.id = ?", lessonID).
		Limit(1).
		Pluck("chapter.subject_id", &ids).Error
	if err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, nil
	}
	return ids[0], nil
}

// NextInSubject returns the earliest published lesson of the subject dated strictly after after.
func (r *lessonRepo) NextInSubject(dbc dbctx.Context, subjectID uuid.UUID, after time.Time) (*types.Lesson, error) {
	var results []*types.Lesson
	if err := dbc.DB(r.db).
		Joins("JOIN chapter ON chapter.id = lesson.chapter_id").
		Where("chapter.subject_id = ?", subjectID).
		Where("lesson.is_published = ?", true).
		Where("lesson.date > ?", after.UTC()).
		Order("lesson.date ASC").
		Order("lesson.position ASC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// ListScheduleBySubject lists lessons dated within [from, to], oldest first, with chapter and teacher.
func (r *lessonRepo) ListScheduleBySubject(dbc dbctx.Context, subjectID uuid.UUID, from, to time.Time) ([]*types.Lesson, error) {
	var results []*types.Lesson
	if err := dbc.DB(r.db).
		Joins("JOIN chapter ON chapter.id = lesson.chapter_id").
		Preload("Chapter").
		Preload("Teacher").
		Where("chapter.subject_id = ?", subjectID).
		Where("lesson.date >= ? AND lesson.date <= ?", from.UTC(), to.UTC()).
		Order("lesson.date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	if d, ok := updates["date"].(time.Time); ok {
		updates["date"] = d.UTC()
	}
	return dbc.DB(r.db).Model(&types.Lesson{}).Where("id = ?", id).Updates(updates).Error
}

func (r *lessonRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	var affected int64
	err := inTx(dbc, r.db, func(tx *gorm.DB) error {
		n, err := deleteLessonsCascade(tx, []uuid.UUID{id})
		affected = n
		return err
	})
	return affected, err
}
