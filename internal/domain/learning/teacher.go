package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultTeacherSubject    = "Subject"
	DefaultTeacherExperience = "Experience"
)

type Teacher struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	SubjectLabel string    `gorm:"column:subject;not null" json:"subject"`
	Experience   string    `gorm:"column:experience;type:text" json:"experience"`
	ImageURL     string    `gorm:"column:image_url" json:"image_url,omitempty"`
	ImageKey     string    `gorm:"column:image_key" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Teacher) TableName() string { return "teacher" }

func (t *Teacher) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.SubjectLabel == "" {
		t.SubjectLabel = DefaultTeacherSubject
	}
	if t.Experience == "" {
		t.Experience = DefaultTeacherExperience
	}
	return nil
}
