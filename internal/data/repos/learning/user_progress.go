package learning

import (
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProgressRepo interface {
	Upsert(dbc dbctx.Context, userID, lessonID uuid.UUID, isCompleted bool) (*types.UserProgress, error)
	Get(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.UserProgress, error)
	CompletedLessonIDs(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	repoLog := baseLog.With("repo", "UserProgressRepo")
	return &userProgressRepo{db: db, log: repoLog}
}

// Upsert writes the completion flag for (userID, lessonID). Repeating a call leaves one row.
func (r *userProgressRepo) Upsert(dbc dbctx.Context, userID, lessonID uuid.UUID, isCompleted bool) (*types.UserProgress, error) {
	now := time.Now().UTC()
	row := &types.UserProgress{
		ID:          uuid.New(),
		UserID:      userID,
		LessonID:    lessonID,
		IsCompleted: isCompleted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	transaction := dbc.DB(r.db)
	if err := transaction.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_completed", "updated_at"}),
	}).Create(row).Error; err != nil {
		return nil, err
	}
	// the conflict path keeps the original id, so read back the stored row
	return r.Get(dbc, userID, lessonID)
}

func (r *userProgressRepo) Get(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.UserProgress, error) {
	var results []*types.UserProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// CompletedLessonIDs returns the subset of lessonIDs the user has completed.
func (r *userProgressRepo) CompletedLessonIDs(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(lessonIDs))
	if len(lessonIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	if err := dbc.DB(r.db).
		Model(&types.UserProgress{}).
		Where("user_id = ? AND is_completed = ? AND lesson_id IN ?", userID, true, lessonIDs).
		Pluck("lesson_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
