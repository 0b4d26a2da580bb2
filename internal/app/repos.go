package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/classbridge-backend/internal/data/repos"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

type Repos struct {
	Users     repos.UserRepo
	Courses   repos.CourseRepo
	Subjects  repos.SubjectRepo
	Chapters  repos.ChapterRepo
	Lessons   repos.LessonRepo
	Teachers  repos.TeacherRepo
	Progress  repos.UserProgressRepo
	Purchases repos.PurchaseRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("wiring repos")
	return Repos{
		Users:     repos.NewUserRepo(db, log),
		Courses:   repos.NewCourseRepo(db, log),
		Subjects:  repos.NewSubjectRepo(db, log),
		Chapters:  repos.NewChapterRepo(db, log),
		Lessons:   repos.NewLessonRepo(db, log),
		Teachers:  repos.NewTeacherRepo(db, log),
		Progress:  repos.NewUserProgressRepo(db, log),
		Purchases: repos.NewPurchaseRepo(db, log),
	}
}
