package domain

import (
	"github.com/yungbote/classbridge-backend/internal/domain/commerce"
	"github.com/yungbote/classbridge-backend/internal/domain/learning"
	"github.com/yungbote/classbridge-backend/internal/domain/user"
)

type (
	User      = user.User
	Role      = user.Role
	Principal = user.Principal

	Course       = learning.Course
	Subject      = learning.Subject
	Chapter      = learning.Chapter
	Lesson       = learning.Lesson
	Teacher      = learning.Teacher
	UserProgress = learning.UserProgress

	Purchase = commerce.Purchase
)

const (
	RoleAdmin   = user.RoleAdmin
	RoleStudent = user.RoleStudent
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&Teacher{},
		&Course{},
		&Subject{},
		&Chapter{},
		&Lesson{},
		&UserProgress{},
		&Purchase{},
	}
}
