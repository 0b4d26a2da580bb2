package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/realtime"
)

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *recordingEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	e.msgs = append(e.msgs, msg)
	e.mu.Unlock()
}

func (e *recordingEmitter) Events() []realtime.SSEEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]realtime.SSEEvent, 0, len(e.msgs))
	for _, m := range e.msgs {
		out = append(out, m.Event)
	}
	return out
}

func TestNotifierChannels(t *testing.T) {
	em := &recordingEmitter{}
	n := NewNotifier(em)
	subjectID, userID := uuid.New(), uuid.New()

	n.ScheduleImported(subjectID, 3)
	n.ScheduleReset(subjectID, 2)
	n.LessonProgressUpdated(userID, uuid.New(), &types.UserProgress{LessonID: uuid.New(), IsCompleted: true})

	require.Len(t, em.msgs, 3)
	require.Equal(t, realtime.SubjectChannel(subjectID), em.msgs[0].Channel)
	require.Equal(t, realtime.SSEEventScheduleImported, em.msgs[0].Event)
	require.Equal(t, realtime.SSEEventScheduleReset, em.msgs[1].Event)
	require.Equal(t, realtime.UserChannel(userID), em.msgs[2].Channel)
}

func TestNotifierWithoutEmitterIsSilent(t *testing.T) {
	n := NewNotifier(nil)
	n.ScheduleImported(uuid.New(), 1)
	n.LessonProgressUpdated(uuid.New(), uuid.New(), nil)
}
