package learning

import (
	"github.com/google/uuid"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubjectRepo interface {
	Create(dbc dbctx.Context, subject *types.Subject) error
	LastPosition(dbc dbctx.Context, courseID uuid.UUID) (int, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error)
	GetInCourse(dbc dbctx.Context, courseID, subjectID uuid.UUID) (*types.Subject, error)
	GetContent(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error)
	ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Subject, error)
	CountByCourse(dbc dbctx.Context, courseID uuid.UUID) (int64, error)
	Teachers(dbc dbctx.Context, subjectID uuid.UUID) ([]*types.Teacher, error)
	ReplaceTeachers(dbc dbctx.Context, subject *types.Subject, teacherIDs []uuid.UUID) error
	LockForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error)
	Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	repoLog := baseLog.With("repo", "SubjectRepo")
	return &subjectRepo{db: db, log: repoLog}
}

func (r *subjectRepo) Create(dbc dbctx.Context, subject *types.Subject) error {
	return dbc.DB(r.db).Omit("Teachers", "Chapters").Create(subject).Error
}

func (r *subjectRepo) LastPosition(dbc dbctx.Context, courseID uuid.UUID) (int, error) {
	var last types.Subject
	res := dbc.DB(r.db).Where("course_id = ?", courseID).Order("position DESC").Limit(1).Find(&last)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}
	return last.Position, nil
}

func (r *subjectRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error) {
	var results []*types.Subject
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *subjectRepo) GetInCourse(dbc dbctx.Context, courseID, subjectID uuid.UUID) (*types.Subject, error) {
	var results []*types.Subject
	if err := dbc.DB(r.db).
		Preload("Teachers").
		Where("id = ? AND course_id = ?", subjectID, courseID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// GetContent loads published chapters and their published lessons in position order.
func (r *subjectRepo) GetContent(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error) {
	var results []*types.Subject
	if err := dbc.DB(r.db).
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("position ASC")
		}).
		Preload("Chapters.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("position ASC")
		}).
		Preload("Chapters.Lessons.Teacher").
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

func (r *subjectRepo) ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Subject, error) {
	var results []*types.Subject
	if err := dbc.DB(r.db).
		Preload("Teachers").
		Where("course_id = ?", courseID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *subjectRepo) CountByCourse(dbc dbctx.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Subject{}).Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}

func (r *subjectRepo) Teachers(dbc dbctx.Context, subjectID uuid.UUID) ([]*types.Teacher, error) {
	var results []*types.Teacher
	if err := dbc.DB(r.db).
		Joins("JOIN subject_teacher ON subject_teacher.teacher_id = teacher.id").
		Where("subject_teacher.subject_id = ?", subjectID).
		Order("teacher.name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *subjectRepo) ReplaceTeachers(dbc dbctx.Context, subject *types.Subject, teacherIDs []uuid.UUID) error {
	return inTx(dbc, r.db, func(tx *gorm.DB) error {
		teachers := make([]types.Teacher, 0, len(teacherIDs))
		if len(teacherIDs) > 0 {
			if err := tx.Where("id IN ?", teacherIDs).Find(&teachers).Error; err != nil {
				return err
			}
		}
		return tx.Model(subject).Association("Teachers").Replace(teachers)
	})
}

// LockForUpdate takes a row lock on the subject so concurrent schedule writers serialize.
func (r *subjectRepo) LockForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error) {
	var results []*types.Subject
	if err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
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

func (r *subjectRepo) Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Subject{}).Where("id = ?", id).Updates(updates).Error
}

func (r *subjectRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	var affected int64
	err := inTx(dbc, r.db, func(tx *gorm.DB) error {
		n, err := deleteSubjectsCascade(tx, []uuid.UUID{id})
		affected = n
		return err
	})
	return affected, err
}
