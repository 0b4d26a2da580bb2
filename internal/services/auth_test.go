package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/pkg/ctxutil"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

func TestAuthTokenRoundTripCarriesRole(t *testing.T) {
	svc := NewAuthService(logger.Nop(), "secret", time.Hour)
	u := &types.User{ID: uuid.New(), Role: types.RoleAdmin}

	tok, err := svc.IssueAccessToken(u)
	require.NoError(t, err)

	ctx, err := svc.SetContextFromToken(context.Background(), tok)
	require.NoError(t, err)
	p := ctxutil.PrincipalFrom(ctx)
	require.Equal(t, u.ID, p.UserID)
	require.True(t, p.IsAdmin())
}

func TestAuthRejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewAuthService(logger.Nop(), "other", time.Hour)
	tok, err := issuer.IssueAccessToken(&types.User{ID: uuid.New(), Role: types.RoleStudent})
	require.NoError(t, err)

	svc := NewAuthService(logger.Nop(), "secret", time.Hour)
	_, err = svc.SetContextFromToken(context.Background(), tok)
	require.Error(t, err)

	expiring := NewAuthService(logger.Nop(), "secret", time.Minute).(*authService)
	expiring.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expiring.IssueAccessToken(&types.User{ID: uuid.New(), Role: types.RoleStudent})
	require.NoError(t, err)
	_, err = svc.SetContextFromToken(context.Background(), old)
	require.Error(t, err)
}

func TestAuthEmptyTokenIsAnonymous(t *testing.T) {
	svc := NewAuthService(logger.Nop(), "secret", time.Hour)
	ctx, err := svc.SetContextFromToken(context.Background(), "  ")
	require.NoError(t, err)
	require.False(t, ctxutil.PrincipalFrom(ctx).Authenticated())
}
