package services

import (
	"context"

	"github.com/yungbote/classbridge-backend/internal/data/repos"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

type UserService interface {
	Me(ctx context.Context, principal types.Principal) (*types.User, error)
}

type userService struct {
	log   *logger.Logger
	users repos.UserRepo
}

func NewUserService(log *logger.Logger, users repos.UserRepo) UserService {
	return &userService{log: log.With("service", "UserService"), users: users}
}

func (s *userService) Me(ctx context.Context, principal types.Principal) (*types.User, error) {
	const op = "User.Me"
	if err := requireUser(op, principal); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(dbctx.New(ctx), principal.UserID)
	if err != nil {
		return nil, internalError(op, err)
	}
	if u == nil {
		return nil, domainagg.Unauthorized(op, "Unauthorized")
	}
	return u, nil
}
