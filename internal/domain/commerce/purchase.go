package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/classbridge-backend/internal/domain/learning"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Purchase records a verified payment. (UserID, CourseID) is unique.
type Purchase struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_purchase_user_course,priority:1" json:"user_id"`
	CourseID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_purchase_user_course,priority:2;index" json:"course_id"`
	Course    *learning.Course `gorm:"foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Price     float64          `gorm:"column:price;not null" json:"price"`
	OrderID   string           `gorm:"column:order_id;index" json:"order_id"`
	PaymentID string           `gorm:"column:payment_id" json:"payment_id"`

	GatewayNotes datatypes.JSON `gorm:"column:gateway_notes" json:"gateway_notes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Purchase) TableName() string { return "purchase" }

func (p *Purchase) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
