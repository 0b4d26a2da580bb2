package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProgress is a per-user, per-lesson completion flag. Absence means not started.
type UserProgress struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_progress_user_lesson,priority:1" json:"user_id"`
	LessonID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_progress_user_lesson,priority:2;index" json:"lesson_id"`
	IsCompleted bool      `gorm:"column:is_completed;not null;default:false" json:"is_completed"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }

func (p *UserProgress) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
