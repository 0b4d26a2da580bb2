package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GoogleProfile is the identity-provider view of a user.
type GoogleProfile struct {
	Sub      string
	Email    string
	Name     string
	ImageURL string
}

type UserRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	// UpsertGoogle creates the user as a student on first login and refreshes profile fields
	// afterwards. The stored role is never overwritten.
	UpsertGoogle(dbc dbctx.Context, profile GoogleProfile) (*types.User, error)
	UpdateRole(dbc dbctx.Context, id uuid.UUID, role types.Role) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	var results []*types.User
	if err := dbc.DB(ur.db).Where("id = ?", id).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ur *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	var results []*types.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := dbc.DB(ur.db).Where("email = ?", email).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ur *userRepo) UpsertGoogle(dbc dbctx.Context, profile GoogleProfile) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	now := time.Now().UTC()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      profile.Name,
		ImageURL:  profile.ImageURL,
		Role:      types.RoleStudent,
		GoogleSub: profile.Sub,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := dbc.DB(ur.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "image_url", "google_sub", "updated_at"}),
	}).Create(u).Error; err != nil {
		return nil, err
	}
	return ur.GetByEmail(dbc, email)
}

func (ur *userRepo) UpdateRole(dbc dbctx.Context, id uuid.UUID, role types.Role) error {
	return dbc.DB(ur.db).Model(&types.User{}).Where("id = ?", id).Update("role", role).Error
}
