package repos

import (
	"github.com/yungbote/classbridge-backend/internal/data/repos/commerce"
	"github.com/yungbote/classbridge-backend/internal/data/repos/learning"
	"github.com/yungbote/classbridge-backend/internal/data/repos/user"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type GoogleProfile = user.GoogleProfile

type CourseRepo = learning.CourseRepo
type CourseFilter = learning.CourseFilter
type SubjectRepo = learning.SubjectRepo
type ChapterRepo = learning.ChapterRepo
type LessonRepo = learning.LessonRepo
type TeacherRepo = learning.TeacherRepo
type UserProgressRepo = learning.UserProgressRepo

type PurchaseRepo = commerce.PurchaseRepo
type CourseRevenue = commerce.CourseRevenue

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, baseLog)
}
func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return learning.NewSubjectRepo(db, baseLog)
}
func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return learning.NewChapterRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return learning.NewLessonRepo(db, baseLog)
}
func NewTeacherRepo(db *gorm.DB, baseLog *logger.Logger) TeacherRepo {
	return learning.NewTeacherRepo(db, baseLog)
}
func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	return learning.NewUserProgressRepo(db, baseLog)
}

func NewPurchaseRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRepo {
	return commerce.NewPurchaseRepo(db, baseLog)
}
