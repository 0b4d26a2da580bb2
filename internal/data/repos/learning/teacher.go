package learning

import (
	"strings"

	"github.com/google/uuid"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type TeacherRepo interface {
	Create(dbc dbctx.Context, teacher *types.Teacher) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Teacher, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.Teacher, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Teacher, error)
	List(dbc dbctx.Context) ([]*types.Teacher, error)
	Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type teacherRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeacherRepo(db *gorm.DB, baseLog *logger.Logger) TeacherRepo {
	repoLog := baseLog.With("repo", "TeacherRepo")
	return &teacherRepo{db: db, log: repoLog}
}

func (r *teacherRepo) Create(dbc dbctx.Context, teacher *types.Teacher) error {
	teacher.Email = normalizeEmail(teacher.Email)
	return dbc.DB(r.db).Create(teacher).Error
}

func (r *teacherRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Teacher, error) {
	var results []*types.Teacher
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *teacherRepo) GetByEmail(dbc dbctx.Context, email string) (*types.Teacher, error) {
	var results []*types.Teacher
	if err := dbc.DB(r.db).Where("email = ?", normalizeEmail(email)).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *teacherRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Teacher, error) {
	var results []*types.Teacher
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *teacherRepo) List(dbc dbctx.Context) ([]*types.Teacher, error) {
	var results []*types.Teacher
	if err := dbc.DB(r.db).Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *teacherRepo) Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	if e, ok := updates["email"].(string); ok {
		updates["email"] = normalizeEmail(e)
	}
	return dbc.DB(r.db).Model(&types.Teacher{}).Where("id = ?", id).Updates(updates).Error
}

// Delete detaches the teacher from subjects and lessons before removing the row.
func (r *teacherRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	var affected int64
	err := inTx(dbc, r.db, func(tx *gorm.DB) error {
		if err := tx.Model(&types.Lesson{}).Where("teacher_id = ?", id).Update("teacher_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM subject_teacher WHERE teacher_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&types.Teacher{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
