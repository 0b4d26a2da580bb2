package learning

import (
	"strings"

	"github.com/google/uuid"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/domain/learning"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

// CourseFilter narrows the published catalogue. Empty fields match everything.
type CourseFilter struct {
	Title    string
	Category learning.CourseCategory
}

type CourseRepo interface {
	Create(dbc dbctx.Context, course *types.Course) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	GetWithSubjects(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	GetContent(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error)
	ListPublished(dbc dbctx.Context, filter CourseFilter) ([]*types.Course, error)
	ListAll(dbc dbctx.Context) ([]*types.Course, error)
	Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (r *courseRepo) Create(dbc dbctx.Context, course *types.Course) error {
	return dbc.DB(r.db).Create(course).Error
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	var results []*types.Course
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *courseRepo) GetWithSubjects(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	var results []*types.Course
	if err := dbc.DB(r.db).
		Preload("Subjects", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Subjects.Teachers").
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

// GetContent loads subjects, published chapters and published lessons in position order.
func (r *courseRepo) GetContent(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	var results []*types.Course
	if err := dbc.DB(r.db).
		Preload("Subjects", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Subjects.Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("position ASC")
		}).
		Preload("Subjects.Chapters.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("position ASC")
		}).
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

func (r *courseRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error) {
	var results []*types.Course
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) ListPublished(dbc dbctx.Context, filter CourseFilter) ([]*types.Course, error) {
	q := dbc.DB(r.db).Where("is_published = ?", true)
	if title := strings.TrimSpace(filter.Title); title != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	var results []*types.Course
	if err := q.
		Preload("Subjects", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) ListAll(dbc dbctx.Context) ([]*types.Course, error) {
	var results []*types.Course
	if err := dbc.DB(r.db).Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Course{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes the course and cascades through its subjects.
func (r *courseRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	var affected int64
	err := inTx(dbc, r.db, func(tx *gorm.DB) error {
		var subjectIDs []uuid.UUID
		if err := tx.Model(&types.Subject{}).Where("course_id = ?", id).Pluck("id", &subjectIDs).Error; err != nil {
			return err
		}
		if _, err := deleteSubjectsCascade(tx, subjectIDs); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&types.Course{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}
