package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/classbridge-backend/internal/data/aggregates"
	"github.com/yungbote/classbridge-backend/internal/observability"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"github.com/yungbote/classbridge-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Google    services.GoogleLoginService
	Users     services.UserService
	Courses   services.CourseService
	Subjects  services.SubjectService
	Lessons   services.LessonService
	Teachers  services.TeacherService
	Importer  services.ScheduleImportService
	Progress  services.ProgressService
	Checkout  services.CheckoutService
	Analytics services.AnalyticsService
	Notifier  services.Notifier
	Avatars   services.AvatarService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("wiring services")

	avatars, err := services.NewAvatarService(log, cfg.Avatar)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	notifier := services.NewNotifier(&services.BusEmitter{Bus: c.Bus, Log: log, Metrics: metrics})

	schedule := aggregates.NewScheduleAggregate(aggregates.ScheduleAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:     db,
			Log:    log,
			Runner: aggregates.NewBoundedTxRunner(db, cfg.ImportLimits),
			Hooks:  aggregates.NewObservabilityHooks(metrics),
		},
		Subjects: r.Subjects,
		Chapters: r.Chapters,
		Lessons:  r.Lessons,
	})

	auth := services.NewAuthService(log, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	loc := cfg.DisplayLocation

	return Services{
		Auth:   auth,
		Google: services.NewGoogleLoginService(log, cfg.Google, r.Users, auth),
		Users:  services.NewUserService(log, r.Users),
		Courses: services.NewCourseService(services.CourseServiceDeps{
			Log:       log,
			Courses:   r.Courses,
			Subjects:  r.Subjects,
			Progress:  r.Progress,
			Purchases: r.Purchases,
			Location:  loc,
		}),
		Subjects: services.NewSubjectService(services.SubjectServiceDeps{
			Log:      log,
			Courses:  r.Courses,
			Subjects: r.Subjects,
			Teachers: r.Teachers,
			Progress: r.Progress,
			Location: loc,
		}),
		Lessons: services.NewLessonService(services.LessonServiceDeps{
			Log:      log,
			Subjects: r.Subjects,
			Chapters: r.Chapters,
			Lessons:  r.Lessons,
			Teachers: r.Teachers,
			Progress: r.Progress,
			Bucket:   c.Bucket,
			Location: loc,
		}),
		Teachers: services.NewTeacherService(services.TeacherServiceDeps{
			Log:      log,
			Teachers: r.Teachers,
			Avatars:  avatars,
			Bucket:   c.Bucket,
		}),
		Importer: services.NewScheduleImportService(services.ScheduleImportServiceDeps{
			Log:      log,
			Subjects: r.Subjects,
			Schedule: schedule,
			Notifier: notifier,
			Metrics:  metrics,
		}),
		Progress: services.NewProgressService(services.ProgressServiceDeps{
			Log:       log,
			Courses:   r.Courses,
			Subjects:  r.Subjects,
			Lessons:   r.Lessons,
			Progress:  r.Progress,
			Purchases: r.Purchases,
			Notifier:  notifier,
			Metrics:   metrics,
		}),
		Checkout: services.NewCheckoutService(services.CheckoutServiceDeps{
			Log:       log,
			Users:     r.Users,
			Courses:   r.Courses,
			Purchases: r.Purchases,
			Gateway:   c.Gateway,
			Metrics:   metrics,
		}),
		Analytics: services.NewAnalyticsService(log, r.Purchases),
		Notifier:  notifier,
		Avatars:   avatars,
	}, nil
}
