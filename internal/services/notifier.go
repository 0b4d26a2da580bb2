package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/classbridge-backend/internal/domain"
	"github.com/yungbote/classbridge-backend/internal/observability"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"github.com/yungbote/classbridge-backend/internal/realtime"
	"github.com/yungbote/classbridge-backend/internal/realtime/bus"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}

// BusEmitter publishes through the bus so every instance's hub receives the message.
// Publish failures are logged and counted, never returned.
type BusEmitter struct {
	Bus     bus.Bus
	Log     *logger.Logger
	Metrics *observability.Metrics
}

func (e *BusEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	err := e.Bus.Publish(ctx, msg)
	e.Metrics.IncEventPublished(string(msg.Event), err)
	if err != nil && e.Log != nil {
		e.Log.Warn("publish realtime event failed", "event", msg.Event, "channel", msg.Channel, "error", err)
	}
}

type Notifier interface {
	ScheduleImported(subjectID uuid.UUID, count int)
	ScheduleReset(subjectID uuid.UUID, chaptersRemoved int64)
	LessonProgressUpdated(userID, courseID uuid.UUID, progress *types.UserProgress)
}

type notifier struct {
	emit SSEEmitter
}

// NewNotifier returns a Notifier over emit. A nil emitter drops every event.
func NewNotifier(emit SSEEmitter) Notifier {
	return &notifier{emit: emit}
}

func (n *notifier) ScheduleImported(subjectID uuid.UUID, count int) {
	if n == nil || n.emit == nil || subjectID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.SubjectChannel(subjectID),
		Event:   realtime.SSEEventScheduleImported,
		Data: map[string]any{
			"subject_id": subjectID,
			"count":      count,
		},
	})
}

func (n *notifier) ScheduleReset(subjectID uuid.UUID, chaptersRemoved int64) {
	if n == nil || n.emit == nil || subjectID == uuid.Nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.SubjectChannel(subjectID),
		Event:   realtime.SSEEventScheduleReset,
		Data: map[string]any{
			"subject_id":       subjectID,
			"chapters_removed": chaptersRemoved,
		},
	})
}

func (n *notifier) LessonProgressUpdated(userID, courseID uuid.UUID, progress *types.UserProgress) {
	if n == nil || n.emit == nil || userID == uuid.Nil || progress == nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventLessonProgressUpdated,
		Data: map[string]any{
			"course_id":    courseID,
			"lesson_id":    progress.LessonID,
			"is_completed": progress.IsCompleted,
		},
	})
}
