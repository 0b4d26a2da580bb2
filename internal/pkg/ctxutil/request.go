package ctxutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/classbridge-backend/internal/domain/user"
)

type requestDataKey struct{}

// RequestData is the authenticated caller attached by the auth middleware.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
	Role        user.Role
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// PrincipalFrom returns the caller identity, the zero Principal when unauthenticated.
func PrincipalFrom(ctx context.Context) user.Principal {
	rd := GetRequestData(ctx)
	if rd == nil {
		return user.Principal{}
	}
	return user.Principal{UserID: rd.UserID, Role: rd.Role}
}
