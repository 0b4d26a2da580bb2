package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chapter groups lessons within a subject. Position is unique per subject and append-only.
type Chapter struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chapter_subject_position,priority:1" json:"subject_id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Position    int       `gorm:"column:position;not null;uniqueIndex:idx_chapter_subject_position,priority:2" json:"position"`
	IsPublished bool      `gorm:"column:is_published;not null;default:false" json:"is_published"`

	Lessons []Lesson `gorm:"foreignKey:ChapterID;references:ID" json:"lessons,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Chapter) TableName() string { return "chapter" }

func (c *Chapter) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
