package aggregates

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PostgresCodes(t *testing.T) {
	cases := map[string]domainagg.ErrorCode{
		"23505": domainagg.CodeConflict,
		"23503": domainagg.CodePreconditionFailed,
		"40001": domainagg.CodeTransactionFailed,
		"40P01": domainagg.CodeTransactionFailed,
		"55P03": domainagg.CodeTransactionFailed,
	}
	for code, want := range cases {
		err := MapError("op", fmt.Errorf("create lesson: %w", &pgconn.PgError{Code: code}))
		if got := domainagg.CodeOf(err); got != want {
			t.Fatalf("pg %s: want=%s got=%s", code, want, got)
		}
	}
}

func TestMapError_SQLiteMessages(t *testing.T) {
	err := MapError("op", errors.New("UNIQUE constraint failed: lesson.chapter_id, lesson.position"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("sqlite unique: got %q", domainagg.CodeOf(err))
	}
	err = MapError("op", errors.New("database is locked"))
	if !domainagg.IsCode(err, domainagg.CodeTransactionFailed) {
		t.Fatalf("sqlite busy: got %q", domainagg.CodeOf(err))
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeNotFound, "op", "Subject not found", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}
