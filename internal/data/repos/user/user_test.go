package user

import (
	"context"
	"testing"

	"github.com/yungbote/classbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
)

func TestUpsertGoogleKeepsRole(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	u, err := repo.UpsertGoogle(dbc, GoogleProfile{Sub: "g-1", Email: "A@X.com", Name: "A"})
	if err != nil {
		t.Fatalf("UpsertGoogle: %v", err)
	}
	if u.Role != types.RoleStudent || u.Email != "a@x.com" {
		t.Fatalf("new user: %+v", u)
	}
	if err := repo.UpdateRole(dbc, u.ID, types.RoleAdmin); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}

	again, err := repo.UpsertGoogle(dbc, GoogleProfile{Sub: "g-1", Email: "a@x.com", Name: "Renamed"})
	if err != nil {
		t.Fatalf("UpsertGoogle #2: %v", err)
	}
	if again.ID != u.ID {
		t.Fatalf("id changed: want=%s got=%s", u.ID, again.ID)
	}
	if again.Role != types.RoleAdmin || again.Name != "Renamed" {
		t.Fatalf("second login: want role=ADMIN name=Renamed got=%+v", again)
	}
}
