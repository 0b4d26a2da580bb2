package aggregates

import (
	"context"
	"fmt"
	"time"

	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"gorm.io/gorm"
)

// TxRunner provides a shared transaction boundary primitive for aggregate writes.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// TxLimits bounds a transaction. MaxWait caps how long a statement waits on a row lock
// (postgres lock_timeout); Timeout caps the whole transaction through the context deadline.
// Zero values leave the corresponding bound off.
type TxLimits struct {
	MaxWait time.Duration
	Timeout time.Duration
}

type gormTxRunner struct {
	db     *gorm.DB
	limits TxLimits
}

// NewGormTxRunner returns a transaction runner backed by GORM transactions.
func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func NewBoundedTxRunner(db *gorm.DB, limits TxLimits) TxRunner {
	return &gormTxRunner{db: db, limits: limits}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "transaction runner has nil db", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if r.limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.limits.Timeout)
		defer cancel()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.limits.MaxWait > 0 && tx.Dialector.Name() == "postgres" {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.limits.MaxWait.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
