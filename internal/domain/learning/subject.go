package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subject is a curriculum track within a course. Position is unique per course.
type Subject struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subject_course_position,priority:1" json:"course_id"`
	Title    string    `gorm:"column:title;not null" json:"title"`
	Position int       `gorm:"column:position;not null;uniqueIndex:idx_subject_course_position,priority:2" json:"position"`

	Teachers []Teacher `gorm:"many2many:subject_teacher;" json:"teachers,omitempty"`
	Chapters []Chapter `gorm:"foreignKey:SubjectID;references:ID" json:"chapters,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Subject) TableName() string { return "subject" }

func (s *Subject) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
