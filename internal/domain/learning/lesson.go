package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lesson is the schedulable unit. Position is unique per chapter and append-only.
type Lesson struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ChapterID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_chapter_position,priority:1" json:"chapter_id"`
	Chapter     *Chapter   `gorm:"foreignKey:ChapterID;references:ID" json:"chapter,omitempty"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Position    int        `gorm:"column:position;not null;uniqueIndex:idx_lesson_chapter_position,priority:2" json:"position"`
	Date        time.Time  `gorm:"column:date;not null;index" json:"date"`
	VideoURL    *string    `gorm:"column:video_url" json:"video_url,omitempty"`
	NotesURL    *string    `gorm:"column:notes_url" json:"notes_url,omitempty"`
	IsPublished bool       `gorm:"column:is_published;not null;default:false;index" json:"is_published"`
	IsFree      bool       `gorm:"column:is_free;not null;default:false" json:"is_free"`
	TeacherID   *uuid.UUID `gorm:"type:uuid;index" json:"teacher_id,omitempty"`
	Teacher     *Teacher   `gorm:"foreignKey:TeacherID;references:ID" json:"teacher,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
