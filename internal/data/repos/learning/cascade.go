package learning

import (
	"github.com/google/uuid"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"gorm.io/gorm"
)

// inTx runs fn on dbc.Tx when bound, otherwise in a new transaction on db.
func inTx(dbc dbctx.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if dbc.Tx != nil {
		return fn(dbc.Tx.WithContext(dbc.Context()))
	}
	return db.WithContext(dbc.Context()).Transaction(fn)
}

// deleteLessonsCascade removes lessons and their progress rows.
func deleteLessonsCascade(tx *gorm.DB, lessonIDs []uuid.UUID) (int64, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&types.UserProgress{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", lessonIDs).Delete(&types.Lesson{})
	return res.RowsAffected, res.Error
}

// deleteChaptersCascade removes chapters, their lessons and those lessons' progress rows.
func deleteChaptersCascade(tx *gorm.DB, chapterIDs []uuid.UUID) (int64, error) {
	if len(chapterIDs) == 0 {
		return 0, nil
	}
	var lessonIDs []uuid.UUID
	if err := tx.Model(&types.Lesson{}).Where("chapter_id IN ?", chapterIDs).Pluck("id", &lessonIDs).Error; err != nil {
		return 0, err
	}
	if _, err := deleteLessonsCascade(tx, lessonIDs); err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", chapterIDs).Delete(&types.Chapter{})
	return res.RowsAffected, res.Error
}

func deleteSubjectsCascade(tx *gorm.DB, subjectIDs []uuid.UUID) (int64, error) {
	if len(subjectIDs) == 0 {
		return 0, nil
	}
	var chapterIDs []uuid.UUID
	if err := tx.Model(&types.Chapter{}).Where("subject_id IN ?", subjectIDs).Pluck("id", &chapterIDs).Error; err != nil {
		return 0, err
	}
	if _, err := deleteChaptersCascade(tx, chapterIDs); err != nil {
		return 0, err
	}
	if err := tx.Exec("DELETE FROM subject_teacher WHERE subject_id IN ?", subjectIDs).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", subjectIDs).Delete(&types.Subject{})
	return res.RowsAffected, res.Error
}
