package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/classbridge-backend/internal/data/aggregates"
	"github.com/yungbote/classbridge-backend/internal/data/repos"
	repotest "github.com/yungbote/classbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/observability"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

var (
	adminPrincipal = types.Principal{UserID: uuid.MustParse("00000000-0000-0000-0000-0000000000a1"), Role: types.RoleAdmin}
	anonymous      = types.Principal{}
)

// harness wires repos and services on a rolled-back transaction.
type harness struct {
	ctx     context.Context
	tx      *gorm.DB
	log     *logger.Logger
	metrics *observability.Metrics
	events  *recordingEmitter

	users     repos.UserRepo
	courses   repos.CourseRepo
	subjects  repos.SubjectRepo
	chapters  repos.ChapterRepo
	lessons   repos.LessonRepo
	teachers  repos.TeacherRepo
	progress  repos.UserProgressRepo
	purchases repos.PurchaseRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)
	return &harness{
		ctx:       context.Background(),
		tx:        tx,
		log:       log,
		metrics:   observability.NewMetrics(),
		events:    &recordingEmitter{},
		users:     repos.NewUserRepo(tx, log),
		courses:   repos.NewCourseRepo(tx, log),
		subjects:  repos.NewSubjectRepo(tx, log),
		chapters:  repos.NewChapterRepo(tx, log),
		lessons:   repos.NewLessonRepo(tx, log),
		teachers:  repos.NewTeacherRepo(tx, log),
		progress:  repos.NewUserProgressRepo(tx, log),
		purchases: repos.NewPurchaseRepo(tx, log),
	}
}

func (h *harness) baseDeps(runner aggregates.TxRunner) aggregates.BaseDeps {
	if runner == nil {
		runner = aggregates.NewGormTxRunner(h.tx)
	}
	return aggregates.BaseDeps{
		DB:     h.tx,
		Log:    h.log,
		Runner: runner,
		Hooks:  aggregates.NewObservabilityHooks(h.metrics),
	}
}

func (h *harness) importService(runner aggregates.TxRunner) ScheduleImportService {
	agg := aggregates.NewScheduleAggregate(aggregates.ScheduleAggregateDeps{
		Base:     h.baseDeps(runner),
		Subjects: h.subjects,
		Chapters: h.chapters,
		Lessons:  h.lessons,
	})
	return NewScheduleImportService(ScheduleImportServiceDeps{
		Log:      h.log,
		Subjects: h.subjects,
		Schedule: agg,
		Notifier: NewNotifier(h.events),
		Metrics:  h.metrics,
	})
}

func (h *harness) progressService(now time.Time) ProgressService {
	return NewProgressService(ProgressServiceDeps{
		Log:       h.log,
		Courses:   h.courses,
		Subjects:  h.subjects,
		Lessons:   h.lessons,
		Progress:  h.progress,
		Purchases: h.purchases,
		Notifier:  NewNotifier(h.events),
		Metrics:   h.metrics,
		Clock:     func() time.Time { return now },
	})
}

func (h *harness) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := h.tx.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

func (h *harness) student(t *testing.T, email string) (*types.User, types.Principal) {
	t.Helper()
	u := repotest.SeedUser(t, h.ctx, h.tx, email, types.RoleStudent)
	return u, types.Principal{UserID: u.ID, Role: types.RoleStudent}
}
