package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/classbridge-backend/internal/data/aggregates"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"gorm.io/gorm"
)

// InjectedTxRunner runs the body on Tx (or with no tx at all) and lets tests inject
// begin, pre-body, and commit failures. Tx is never committed or rolled back here.
type InjectedTxRunner struct {
	mu sync.Mutex

	Tx *gorm.DB

	FailBegin      error
	FailBeforeBody error
	FailCommit     error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin, failBeforeBody, failCommit := r.FailBegin, r.FailBeforeBody, r.FailCommit
	tx := r.Tx
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if failBeforeBody != nil {
		r.count(&r.RollbackCalls)
		return failBeforeBody
	}
	if fn != nil {
		if err := fn(dbctx.Context{Ctx: ctx, Tx: tx}); err != nil {
			r.count(&r.RollbackCalls)
			return err
		}
	}
	if failCommit != nil {
		r.count(&r.RollbackCalls)
		return failCommit
	}
	r.count(&r.CommitCalls)
	return nil
}

func (r *InjectedTxRunner) count(n *int) {
	r.mu.Lock()
	*n++
	r.mu.Unlock()
}
