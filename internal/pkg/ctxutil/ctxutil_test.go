package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/classbridge-backend/internal/domain/user"
)

func TestPrincipalFrom(t *testing.T) {
	if p := PrincipalFrom(context.Background()); p.Authenticated() {
		t.Fatalf("empty context should be unauthenticated, got=%+v", p)
	}
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: id, Role: user.RoleAdmin})
	p := PrincipalFrom(ctx)
	if p.UserID != id || !p.IsAdmin() {
		t.Fatalf("principal: got=%+v", p)
	}
}

func TestTraceData(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t", RequestID: "r"})
	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "t" || td.RequestID != "r" {
		t.Fatalf("trace data: got=%+v", td)
	}
	if GetTraceData(Default(nil)) != nil {
		t.Fatalf("background context should carry no trace data")
	}
}
