package learning

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/classbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/domain/learning"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
)

func TestCourseRepoListPublishedFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCourseRepo(db, testutil.Logger(t))
	physics := testutil.SeedCourse(t, ctx, tx, "JEE Physics Crash", true)
	testutil.SeedCourse(t, ctx, tx, "NEET Biology", true)
	testutil.SeedCourse(t, ctx, tx, "Physics Draft", false)

	if err := repo.Update(dbc, physics.ID, map[string]any{"category": string(learning.CategoryJEE)}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.ListPublished(dbc, CourseFilter{Title: "physics"})
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(got) != 1 || got[0].ID != physics.ID {
		t.Fatalf("title filter: want=[%s] got=%v", physics.ID, got)
	}

	got, err = repo.ListPublished(dbc, CourseFilter{Category: learning.CategoryNEET})
	if err != nil {
		t.Fatalf("ListPublished category: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("category filter: want=0 got=%d", len(got))
	}

	all, err := repo.ListPublished(dbc, CourseFilter{})
	if err != nil {
		t.Fatalf("ListPublished all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("published only: want=2 got=%d", len(all))
	}
}

func TestCourseRepoGetByIDMissing(t *testing.T) {
	db := testutil.DB(t)
	repo := NewCourseRepo(db, testutil.Logger(t))
	got, err := repo.GetByID(dbctx.Context{Ctx: context.Background()}, uuid.New())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil for unknown id, got=%v", got)
	}
}

func TestCourseRepoDeleteCascades(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)

	teacher := testutil.SeedTeacher(t, ctx, tx, "t@x.com")
	user := testutil.SeedUser(t, ctx, tx, "s@x.com", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, tx, "Course", true)
	subject := testutil.SeedSubject(t, ctx, tx, course.ID, 1, teacher)
	ch := testutil.SeedChapter(t, ctx, tx, subject.ID, "Kinematics", 1, true)
	lesson := testutil.SeedLesson(t, ctx, tx, ch.ID, 1, time.Now(), true)
	testutil.SeedProgress(t, ctx, tx, user.ID, lesson.ID, true)

	n, err := NewCourseRepo(db, log).Delete(dbc, course.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n != 1 {
		t.Fatalf("affected: want=1 got=%d", n)
	}

	for _, m := range []any{&types.Subject{}, &types.Chapter{}, &types.Lesson{}, &types.UserProgress{}} {
		var cnt int64
		if err := tx.Model(m).Count(&cnt).Error; err != nil {
			t.Fatalf("count %T: %v", m, err)
		}
		if cnt != 0 {
			t.Fatalf("%T: want=0 got=%d", m, cnt)
		}
	}
	var links int64
	if err := tx.Table("subject_teacher").Count(&links).Error; err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 0 {
		t.Fatalf("subject_teacher: want=0 got=%d", links)
	}
	if got, _ := NewTeacherRepo(db, log).GetByID(dbc, teacher.ID); got == nil {
		t.Fatalf("teacher must survive course delete")
	}
}

func TestCourseRepoGetContentKeepsPublishedOnly(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	course := testutil.SeedCourse(t, ctx, tx, "Course", true)
	s2 := testutil.SeedSubject(t, ctx, tx, course.ID, 2)
	s1 := testutil.SeedSubject(t, ctx, tx, course.ID, 1)
	pub := testutil.SeedChapter(t, ctx, tx, s1.ID, "Published", 1, true)
	draft := testutil.SeedChapter(t, ctx, tx, s1.ID, "Draft", 2, false)
	testutil.SeedLesson(t, ctx, tx, pub.ID, 1, time.Now(), true)
	testutil.SeedLesson(t, ctx, tx, pub.ID, 2, time.Now(), false)
	testutil.SeedLesson(t, ctx, tx, draft.ID, 1, time.Now(), true)

	got, err := NewCourseRepo(db, testutil.Logger(t)).GetContent(dbc, course.ID)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if len(got.Subjects) != 2 || got.Subjects[0].ID != s1.ID || got.Subjects[1].ID != s2.ID {
		t.Fatalf("subjects not in position order: %+v", got.Subjects)
	}
	if len(got.Subjects[0].Chapters) != 1 {
		t.Fatalf("chapters: want=1 got=%d", len(got.Subjects[0].Chapters))
	}
	if n := len(learning.FlattenPublishedLessons(got.Subjects)); n != 1 {
		t.Fatalf("published lessons: want=1 got=%d", n)
	}
}

func TestSubjectRepoPositionsAndTeachers(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSubjectRepo(db, testutil.Logger(t))

	course := testutil.SeedCourse(t, ctx, tx, "Course", false)
	if last, err := repo.LastPosition(dbc, course.ID); err != nil || last != 0 {
		t.Fatalf("empty LastPosition: want=0 got=%d err=%v", last, err)
	}
	a := testutil.SeedTeacher(t, ctx, tx, "a@x.com")
	b := testutil.SeedTeacher(t, ctx, tx, "b@x.com")
	s := testutil.SeedSubject(t, ctx, tx, course.ID, 3, a)
	if last, err := repo.LastPosition(dbc, course.ID); err != nil || last != 3 {
		t.Fatalf("LastPosition: want=3 got=%d err=%v", last, err)
	}

	if err := repo.ReplaceTeachers(dbc, s, []uuid.UUID{b.ID}); err != nil {
		t.Fatalf("ReplaceTeachers: %v", err)
	}
	teachers, err := repo.Teachers(dbc, s.ID)
	if err != nil {
		t.Fatalf("Teachers: %v", err)
	}
	if len(teachers) != 1 || teachers[0].ID != b.ID {
		t.Fatalf("teachers after replace: %+v", teachers)
	}

	if got, err := repo.GetInCourse(dbc, uuid.New(), s.ID); err != nil || got != nil {
		t.Fatalf("GetInCourse wrong course: want nil got=%v err=%v", got, err)
	}
	locked, err := repo.LockForUpdate(dbc, s.ID)
	if err != nil || locked == nil {
		t.Fatalf("LockForUpdate: got=%v err=%v", locked, err)
	}
}

func TestChapterRepoDeleteBySubject(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	course := testutil.SeedCourse(t, ctx, tx, "Course", true)
	keep := testutil.SeedSubject(t, ctx, tx, course.ID, 1)
	drop := testutil.SeedSubject(t, ctx, tx, course.ID, 2)
	kept := testutil.SeedChapter(t, ctx, tx, keep.ID, "Keep", 1, true)
	testutil.SeedLesson(t, ctx, tx, kept.ID, 1, time.Now(), true)
	for i := 1; i <= 3; i++ {
		ch := testutil.SeedChapter(t, ctx, tx, drop.ID, "Drop", i, true)
		testutil.SeedLesson(t, ctx, tx, ch.ID, 1, time.Now(), true)
	}

	n, err := NewChapterRepo(db, testutil.Logger(t)).DeleteBySubject(dbc, drop.ID)
	if err != nil {
		t.Fatalf("DeleteBySubject: %v", err)
	}
	if n != 3 {
		t.Fatalf("deleted chapters: want=3 got=%d", n)
	}
	var lessons int64
	if err := tx.Model(&types.Lesson{}).Count(&lessons).Error; err != nil {
		t.Fatalf("count lessons: %v", err)
	}
	if lessons != 1 {
		t.Fatalf("remaining lessons: want=1 got=%d", lessons)
	}
}

func TestLessonRepoNextInSubjectAndSchedule(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewLessonRepo(db, testutil.Logger(t))

	base := time.Date(2025, 11, 25, 10, 0, 0, 0, time.UTC)
	course := testutil.SeedCourse(t, ctx, tx, "Course", true)
	subject := testutil.SeedSubject(t, ctx, tx, course.ID, 1)
	other := testutil.SeedSubject(t, ctx, tx, course.ID, 2)
	ch1 := testutil.SeedChapter(t, ctx, tx, subject.ID, "One", 1, true)
	ch2 := testutil.SeedChapter(t, ctx, tx, subject.ID, "Two", 2, true)
	otherCh := testutil.SeedChapter(t, ctx, tx, other.ID, "Other", 1, true)

	current := testutil.SeedLesson(t, ctx, tx, ch1.ID, 1, base, true)
	testutil.SeedLesson(t, ctx, tx, ch1.ID, 2, base.Add(24*time.Hour), false)
	want := testutil.SeedLesson(t, ctx, tx, ch2.ID, 1, base.Add(48*time.Hour), true)
	testutil.SeedLesson(t, ctx, tx, ch2.ID, 2, base.Add(72*time.Hour), true)
	testutil.SeedLesson(t, ctx, tx, otherCh.ID, 1, base.Add(time.Hour), true)

	next, err := repo.NextInSubject(dbc, subject.ID, current.Date)
	if err != nil {
		t.Fatalf("NextInSubject: %v", err)
	}
	if next == nil || next.ID != want.ID {
		t.Fatalf("next: want=%s got=%v", want.ID, next)
	}
	last, err := repo.NextInSubject(dbc, subject.ID, base.Add(72*time.Hour))
	if err != nil || last != nil {
		t.Fatalf("next after last: want nil got=%v err=%v", last, err)
	}

	sched, err := repo.ListScheduleBySubject(dbc, subject.ID, base, base.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("ListScheduleBySubject: %v", err)
	}
	if len(sched) != 3 {
		t.Fatalf("schedule size: want=3 got=%d", len(sched))
	}
	for i := 1; i < len(sched); i++ {
		if sched[i].Date.Before(sched[i-1].Date) {
			t.Fatalf("schedule not ordered by date")
		}
	}
	if sched[0].Chapter == nil || sched[0].Chapter.ID != ch1.ID {
		t.Fatalf("schedule chapter not preloaded")
	}

	subjectID, err := repo.SubjectIDOf(dbc, want.ID)
	if err != nil || subjectID != subject.ID {
		t.Fatalf("SubjectIDOf: want=%s got=%s err=%v", subject.ID, subjectID, err)
	}
}

func TestTeacherRepoDeleteDetaches(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTeacherRepo(db, testutil.Logger(t))

	teacher := &types.Teacher{Name: "Asha", Email: "  Asha@X.com "}
	if err := repo.Create(dbc, teacher); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if teacher.SubjectLabel != learning.DefaultTeacherSubject || teacher.Experience != learning.DefaultTeacherExperience {
		t.Fatalf("defaults not applied: %+v", teacher)
	}
	if got, _ := repo.GetByEmail(dbc, "asha@x.com"); got == nil || got.ID != teacher.ID {
		t.Fatalf("GetByEmail normalized: got=%v", got)
	}

	course := testutil.SeedCourse(t, ctx, tx, "Course", true)
	subject := testutil.SeedSubject(t, ctx, tx, course.ID, 1, teacher)
	ch := testutil.SeedChapter(t, ctx, tx, subject.ID, "One", 1, true)
	lesson := testutil.SeedLesson(t, ctx, tx, ch.ID, 1, time.Now(), true)
	if err := tx.Model(lesson).Update("teacher_id", teacher.ID).Error; err != nil {
		t.Fatalf("assign teacher: %v", err)
	}

	if _, err := repo.Delete(dbc, teacher.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := NewLessonRepo(db, testutil.Logger(t)).GetByID(dbc, lesson.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TeacherID != nil {
		t.Fatalf("lesson teacher: want nil got=%v", got.TeacherID)
	}
}

func TestUserProgressUpsertIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserProgressRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "s@x.com", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, tx, "Course", true)
	subject := testutil.SeedSubject(t, ctx, tx, course.ID, 1)
	ch := testutil.SeedChapter(t, ctx, tx, subject.ID, "One", 1, true)
	lesson := testutil.SeedLesson(t, ctx, tx, ch.ID, 1, time.Now(), true)

	first, err := repo.Upsert(dbc, user.ID, lesson.ID, true)
	if err != nil {
		t.Fatalf("Upsert #1: %v", err)
	}
	second, err := repo.Upsert(dbc, user.ID, lesson.ID, true)
	if err != nil {
		t.Fatalf("Upsert #2: %v", err)
	}
	if first.ID != second.ID || !second.IsCompleted {
		t.Fatalf("idempotent upsert: first=%+v second=%+v", first, second)
	}
	var cnt int64
	if err := tx.Model(&types.UserProgress{}).Count(&cnt).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("rows: want=1 got=%d", cnt)
	}

	undone, err := repo.Upsert(dbc, user.ID, lesson.ID, false)
	if err != nil {
		t.Fatalf("Upsert #3: %v", err)
	}
	if undone.IsCompleted {
		t.Fatalf("flag not overwritten")
	}
	done, err := repo.CompletedLessonIDs(dbc, user.ID, []uuid.UUID{lesson.ID})
	if err != nil {
		t.Fatalf("CompletedLessonIDs: %v", err)
	}
	if done[lesson.ID] {
		t.Fatalf("incomplete lesson reported as completed")
	}
}
