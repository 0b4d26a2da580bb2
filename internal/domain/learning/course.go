package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseCategory string

const (
	CategoryNEET       CourseCategory = "NEET"
	CategoryJEE        CourseCategory = "JEE"
	CategoryUPSC       CourseCategory = "UPSC"
	CategoryFoundation CourseCategory = "FOUNDATION"
)

func (c CourseCategory) Valid() bool {
	switch c {
	case CategoryNEET, CategoryJEE, CategoryUPSC, CategoryFoundation:
		return true
	}
	return false
}

type Course struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string          `gorm:"column:title;not null" json:"title"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	ImageURL    string          `gorm:"column:image_url" json:"image_url"`
	Price       float64         `gorm:"column:price;not null;default:0" json:"price"`
	Category    *CourseCategory `gorm:"column:category;index" json:"category,omitempty"`
	IsPublished bool            `gorm:"column:is_published;not null;default:false;index" json:"is_published"`

	Subjects []Subject `gorm:"foreignKey:CourseID;references:ID" json:"subjects,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
