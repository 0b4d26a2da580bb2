package learning

import (
	"github.com/google/uuid"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type ChapterRepo interface {
	Create(dbc dbctx.Context, chapter *types.Chapter) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error)
	ListBySubject(dbc dbctx.Context, subjectID uuid.UUID) ([]*types.Chapter, error)
	LastPosition(dbc dbctx.Context, subjectID uuid.UUID) (int, error)
	Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	DeleteBySubject(dbc dbctx.Context, subjectID uuid.UUID) (int64, error)
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	repoLog := baseLog.With("repo", "ChapterRepo")
	return &chapterRepo{db: db, log: repoLog}
}

func (r *chapterRepo) Create(dbc dbctx.Context, chapter *types.Chapter) error {
	return dbc.DB(r.db).Omit("Lessons").Create(chapter).Error
}

func (r *chapterRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error) {
	var results []*types.Chapter
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// ListBySubject returns every chapter of the subject, published or not, in position order.
func (r *chapterRepo) ListBySubject(dbc dbctx.Context, subjectID uuid.UUID) ([]*types.Chapter, error) {
	var results []*types.Chapter
	if err := dbc.DB(r.db).
		Where("subject_id = ?", subjectID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *chapterRepo) LastPosition(dbc dbctx.Context, subjectID uuid.UUID) (int, error) {
	var last types.Chapter
	res := dbc.DB(r.db).Where("subject_id = ?", subjectID).Order("position DESC").Limit(1).Find(&last)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}
	return last.Position, nil
}

func (r *chapterRepo) Update(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Chapter{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteBySubject drops every chapter of the subject with their lessons and progress rows.
func (r *chapterRepo) DeleteBySubject(dbc dbctx.Context, subjectID uuid.UUID) (int64, error) {
	var affected int64
	err := inTx(dbc, r.db, func(tx *gorm.DB) error {
		var chapterIDs []uuid.UUID
		if err := tx.Model(&types.Chapter{}).Where("subject_id = ?", subjectID).Pluck("id", &chapterIDs).Error; err != nil {
			return err
		}
		n, err := deleteChaptersCascade(tx, chapterIDs)
		affected = n
		return err
	})
	return affected, err
}
