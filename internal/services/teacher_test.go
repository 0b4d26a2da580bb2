package services

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/classbridge-backend/internal/clients/gcp"
	repotest "github.com/yungbote/classbridge-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"github.com/yungbote/classbridge-backend/internal/pkg/pointers"
)

// fakeBucket keeps uploads in memory.
type fakeBucket struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (b *fakeBucket) UploadFile(_ dbctx.Context, category gcp.BucketCategory, key string, file io.Reader) error {
	if b.uploadErr != nil {
		return b.uploadErr
	}
	raw, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[string(category)+"/"+key] = raw
	return nil
}

func (b *fakeBucket) DeleteFile(_ dbctx.Context, category gcp.BucketCategory, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, string(category)+"/"+key)
	b.deleted = append(b.deleted, key)
	return nil
}

func (b *fakeBucket) GetPublicURL(category gcp.BucketCategory, key string) string {
	return gcp.PublicURL("test-"+string(category), "", key)
}

func (b *fakeBucket) object(category gcp.BucketCategory, key string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, ok := b.objects[string(category)+"/"+key]
	return raw, ok
}

func (h *harness) teacherService(t *testing.T, bucket gcp.BucketService) TeacherService {
	t.Helper()
	avatars, err := NewAvatarService(logger.Nop(), AvatarConfig{})
	require.NoError(t, err)
	return NewTeacherService(TeacherServiceDeps{
		Log:      h.log,
		Teachers: h.teachers,
		Avatars:  avatars,
		Bucket:   bucket,
	})
}

func TestTeacherCreateUploadsInitialsAvatar(t *testing.T) {
	h := newHarness(t)
	bucket := newFakeBucket()
	svc := h.teacherService(t, bucket)

	teacher, err := svc.Create(h.ctx, adminPrincipal, CreateTeacherInput{Name: " Asha Verma ", Email: " Asha@School.TEST "})
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", teacher.Name)
	assert.Equal(t, "asha@school.test", teacher.Email)
	assert.Equal(t, "Subject", teacher.SubjectLabel)
	assert.Equal(t, "Experience", teacher.Experience)
	require.NotEmpty(t, teacher.ImageKey)
	assert.True(t, strings.HasPrefix(teacher.ImageKey, "teachers/"+teacher.ID.String()+"/"))
	assert.Equal(t, bucket.GetPublicURL(gcp.BucketCategoryAvatar, teacher.ImageKey), teacher.ImageURL)

	raw, ok := bucket.object(gcp.BucketCategoryAvatar, teacher.ImageKey)
	require.True(t, ok)
	_, err = png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
}

func TestTeacherCreateKeepsGivenImageAndSurvivesUploadFailure(t *testing.T) {
	h := newHarness(t)
	bucket := newFakeBucket()
	bucket.uploadErr = errors.New("gcs down")
	svc := h.teacherService(t, bucket)

	given, err := svc.Create(h.ctx, adminPrincipal, CreateTeacherInput{Name: "A", Email: "a@school.test", ImageURL: "https://cdn/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a.png", given.ImageURL)

	plain, err := svc.Create(h.ctx, adminPrincipal, CreateTeacherInput{Name: "B", Email: "b@school.test"})
	require.NoError(t, err)
	assert.Empty(t, plain.ImageURL)
	assert.Empty(t, plain.ImageKey)
}

func TestTeacherCreateGuards(t *testing.T) {
	h := newHarness(t)
	svc := h.teacherService(t, nil)
	_, student := h.student(t, "s@school.test")
	repotest.SeedTeacher(t, h.ctx, h.tx, "taken@school.test")

	_, err := svc.Create(h.ctx, student, CreateTeacherInput{Name: "A", Email: "a@school.test"})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeUnauthorized))

	_, err = svc.Create(h.ctx, adminPrincipal, CreateTeacherInput{Name: "A"})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))
	assert.Equal(t, "email is required", domainagg.MessageOf(err, ""))

	_, err = svc.Create(h.ctx, adminPrincipal, CreateTeacherInput{Name: "A", Email: "nope"})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))

	_, err = svc.Create(h.ctx, adminPrincipal, CreateTeacherInput{Name: "A", Email: "TAKEN@school.test"})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeConflict))
}

func TestTeacherUpdateAndDelete(t *testing.T) {
	h := newHarness(t)
	bucket := newFakeBucket()
	svc := h.teacherService(t, bucket)
	teacher, err := svc.Create(h.ctx, adminPrincipal, CreateTeacherInput{Name: "Asha", Email: "asha@school.test"})
	require.NoError(t, err)
	other := repotest.SeedTeacher(t, h.ctx, h.tx, "other@school.test")

	_, err = svc.Update(h.ctx, adminPrincipal, teacher.ID, UpdateTeacherInput{Email: pointers.Ptr("other@school.test")})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeConflict))

	updated, err := svc.Update(h.ctx, adminPrincipal, teacher.ID, UpdateTeacherInput{
		Subject:    pointers.Ptr("Physics"),
		Experience: pointers.Ptr("12 years"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Physics", updated.SubjectLabel)
	assert.Equal(t, "12 years", updated.Experience)

	_, err = svc.Update(h.ctx, adminPrincipal, uuid.New(), UpdateTeacherInput{})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))

	require.NoError(t, svc.Delete(h.ctx, adminPrincipal, teacher.ID))
	assert.Equal(t, []string{teacher.ImageKey}, bucket.deleted)
	_, err = svc.Get(h.ctx, teacher.ID)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))

	list, err := svc.List(h.ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, other.ID, list[0].ID)
}

func TestTeacherSetImage(t *testing.T) {
	h := newHarness(t)
	bucket := newFakeBucket()
	svc := h.teacherService(t, bucket)
	teacher, err := svc.Create(h.ctx, adminPrincipal, CreateTeacherInput{Name: "Asha", Email: "asha@school.test"})
	require.NoError(t, err)
	firstKey := teacher.ImageKey

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))))

	_, err = svc.SetImage(h.ctx, adminPrincipal, teacher.ID, []byte("not an image"))
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))

	updated, err := svc.SetImage(h.ctx, adminPrincipal, teacher.ID, buf.Bytes())
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, updated.ImageKey)
	assert.Equal(t, bucket.GetPublicURL(gcp.BucketCategoryAvatar, updated.ImageKey), updated.ImageURL)
	assert.Contains(t, bucket.deleted, firstKey)

	nostore := h.teacherService(t, nil)
	_, err = nostore.SetImage(h.ctx, adminPrincipal, teacher.ID, buf.Bytes())
	assert.True(t, domainagg.IsCode(err, domainagg.CodePreconditionFailed))
}
