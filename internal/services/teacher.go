package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/classbridge-backend/internal/clients/gcp"
	"github.com/yungbote/classbridge-backend/internal/data/repos"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

type CreateTeacherInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Subject    string `json:"subject"`
	Experience string `json:"experience"`
	ImageURL   string `json:"imageUrl"`
}

type UpdateTeacherInput struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Subject    *string `json:"subject"`
	Experience *string `json:"experience"`
	ImageURL   *string `json:"imageUrl"`
}

type TeacherService interface {
	Create(ctx context.Context, principal types.Principal, in CreateTeacherInput) (*types.Teacher, error)
	Update(ctx context.Context, principal types.Principal, id uuid.UUID, in UpdateTeacherInput) (*types.Teacher, error)
	Delete(ctx context.Context, principal types.Principal, id uuid.UUID) error
	List(ctx context.Context) ([]*types.Teacher, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Teacher, error)
	SetImage(ctx context.Context, principal types.Principal, id uuid.UUID, raw []byte) (*types.Teacher, error)
}

type TeacherServiceDeps struct {
	Log      *logger.Logger
	Teachers repos.TeacherRepo
	Avatars  AvatarService
	// Bucket is optional; without it teachers keep whatever imageUrl they were given.
	Bucket gcp.BucketService
}

type teacherService struct {
	log      *logger.Logger
	teachers repos.TeacherRepo
	avatars  AvatarService
	bucket   gcp.BucketService
}

func NewTeacherService(deps TeacherServiceDeps) TeacherService {
	return &teacherService{
		log:      deps.Log.With("service", "TeacherService"),
		teachers: deps.Teachers,
		avatars:  deps.Avatars,
		bucket:   deps.Bucket,
	}
}

func (s *teacherService) Create(ctx context.Context, principal types.Principal, in CreateTeacherInput) (*types.Teacher, error) {
	const op = "Teacher.Create"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validatorInstance().Struct(in); err != nil {
		return nil, domainagg.Validation(op, validationMessage(err))
	}
	dbc := dbctx.New(ctx)
	existing, err := s.teachers.GetByEmail(dbc, in.Email)
	if err != nil {
		return nil, internalError(op, err)
	}
	if existing != nil {
		return nil, domainagg.NewError(domainagg.CodeConflict, op, "Teacher email already exists", nil)
	}

	teacher := &types.Teacher{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		SubjectLabel: strings.TrimSpace(in.Subject),
		Experience:   strings.TrimSpace(in.Experience),
		ImageURL:     strings.TrimSpace(in.ImageURL),
	}
	if teacher.ImageURL == "" {
		s.attachInitialsAvatar(dbc, teacher)
	}
	if err := s.teachers.Create(dbc, teacher); err != nil {
		return nil, passthrough(op, err)
	}
	s.log.Info("teacher created", "teacher_id", teacher.ID)
	return teacher, nil
}

// attachInitialsAvatar is best-effort: a failed render or upload leaves the image empty.
func (s *teacherService) attachInitialsAvatar(dbc dbctx.Context, teacher *types.Teacher) {
	if s.avatars == nil || s.bucket == nil {
		return
	}
	png, err := s.avatars.Initials(teacher.Name)
	if err != nil {
		s.log.Warn("render teacher avatar failed", "teacher_id", teacher.ID, "error", err)
		return
	}
	key := teacherImageKey(teacher.ID)
	if err := s.bucket.UploadFile(dbc, gcp.BucketCategoryAvatar, key, bytes.NewReader(png)); err != nil {
		s.log.Warn("upload teacher avatar failed", "teacher_id", teacher.ID, "error", err)
		return
	}
	teacher.ImageKey = key
	teacher.ImageURL = s.bucket.GetPublicURL(gcp.BucketCategoryAvatar, key)
}

func (s *teacherService) Update(ctx context.Context, principal types.Principal, id uuid.UUID, in UpdateTeacherInput) (*types.Teacher, error) {
	const op = "Teacher.Update"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	if _, err := s.mustGet(dbc, op, id); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if v := trimmed(in.Name); v != nil {
		if *v == "" {
			return nil, domainagg.Validation(op, "name is required")
		}
		updates["name"] = *v
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if err := validatorInstance().Var(email, "required,email"); err != nil {
			return nil, domainagg.Validation(op, "email must be an email")
		}
		other, err := s.teachers.GetByEmail(dbc, email)
		if err != nil {
			return nil, internalError(op, err)
		}
		if other != nil && other.ID != id {
			return nil, domainagg.NewError(domainagg.CodeConflict, op, "Teacher email already exists", nil)
		}
		updates["email"] = email
	}
	if v := trimmed(in.Subject); v != nil {
		updates["subject"] = *v
	}
	if v := trimmed(in.Experience); v != nil {
		updates["experience"] = *v
	}
	if v := trimmed(in.ImageURL); v != nil {
		updates["image_url"] = *v
	}
	if err := s.teachers.Update(dbc, id, updates); err != nil {
		return nil, passthrough(op, err)
	}
	return s.mustGet(dbc, op, id)
}

func (s *teacherService) Delete(ctx context.Context, principal types.Principal, id uuid.UUID) error {
	const op = "Teacher.Delete"
	if err := requireAdmin(op, principal); err != nil {
		return err
	}
	dbc := dbctx.New(ctx)
	teacher, err := s.mustGet(dbc, op, id)
	if err != nil {
		return err
	}
	if _, err := s.teachers.Delete(dbc, id); err != nil {
		return internalError(op, err)
	}
	if teacher.ImageKey != "" && s.bucket != nil {
		if err := s.bucket.DeleteFile(dbc, gcp.BucketCategoryAvatar, teacher.ImageKey); err != nil {
			s.log.Warn("failed to delete teacher image (ignored)", "key", teacher.ImageKey, "error", err)
		}
	}
	return nil
}

func (s *teacherService) List(ctx context.Context) ([]*types.Teacher, error) {
	out, err := s.teachers.List(dbctx.New(ctx))
	if err != nil {
		return nil, internalError("Teacher.List", err)
	}
	return out, nil
}

func (s *teacherService) Get(ctx context.Context, id uuid.UUID) (*types.Teacher, error) {
	return s.mustGet(dbctx.New(ctx), "Teacher.Get", id)
}

// SetImage replaces the teacher photo with a center-cropped square of raw.
func (s *teacherService) SetImage(ctx context.Context, principal types.Principal, id uuid.UUID, raw []byte) (*types.Teacher, error) {
	const op = "Teacher.SetImage"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	if s.bucket == nil || s.avatars == nil {
		return nil, domainagg.NewError(domainagg.CodePreconditionFailed, op, "Storage is not configured", nil)
	}
	dbc := dbctx.New(ctx)
	teacher, err := s.mustGet(dbc, op, id)
	if err != nil {
		return nil, err
	}
	processed, err := s.avatars.FromImage(raw)
	if err != nil {
		return nil, domainagg.Validation(op, "Invalid image")
	}
	oldKey := teacher.ImageKey
	key := teacherImageKey(teacher.ID)
	if err := s.bucket.UploadFile(dbc, gcp.BucketCategoryAvatar, key, bytes.NewReader(processed)); err != nil {
		return nil, internalError(op, err)
	}
	url := s.bucket.GetPublicURL(gcp.BucketCategoryAvatar, key)
	if err := s.teachers.Update(dbc, id, map[string]any{"image_key": key, "image_url": url}); err != nil {
		return nil, internalError(op, err)
	}
	if oldKey != "" && oldKey != key {
		if err := s.bucket.DeleteFile(dbc, gcp.BucketCategoryAvatar, oldKey); err != nil {
			s.log.Warn("failed to delete old teacher image (ignored)", "oldKey", oldKey, "error", err)
		}
	}
	return s.mustGet(dbc, op, id)
}

func (s *teacherService) mustGet(dbc dbctx.Context, op string, id uuid.UUID) (*types.Teacher, error) {
	teacher, err := s.teachers.GetByID(dbc, id)
	if err != nil {
		return nil, internalError(op, err)
	}
	if teacher == nil {
		return nil, domainagg.NotFound(op, "Teacher not found")
	}
	return teacher, nil
}

// teacherImageKey is versioned so CDN caches never serve a replaced image.
func teacherImageKey(id uuid.UUID) string {
	return fmt.Sprintf("teachers/%s/%d.png", id, time.Now().UnixNano())
}
