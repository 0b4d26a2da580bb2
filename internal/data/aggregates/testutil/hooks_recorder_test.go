package testutil

import (
	"testing"
	"time"
)

func TestHooksRecorder_CapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("Learning.Schedule.ImportLessons", "transaction_failed", 10*time.Millisecond)
	h.IncConflict("Learning.Schedule.ImportLessons")
	h.IncTransactionFailure("Learning.Schedule.ImportLessons")

	if got := h.Statuses(); len(got) != 1 || got[0] != "transaction_failed" {
		t.Fatalf("unexpected statuses: %+v", got)
	}
	if len(h.Conflicts) != 1 || h.Conflicts[0] != "Learning.Schedule.ImportLessons" {
		t.Fatalf("unexpected conflicts: %+v", h.Conflicts)
	}
	if len(h.TxFailures) != 1 {
		t.Fatalf("unexpected tx failures: %+v", h.TxFailures)
	}
}
