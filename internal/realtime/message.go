package realtime

import (
	"fmt"

	"github.com/google/uuid"
)

type SSEEvent string

const (
	SSEEventScheduleImported      SSEEvent = "ScheduleImported"
	SSEEventScheduleReset         SSEEvent = "ScheduleReset"
	SSEEventLessonProgressUpdated SSEEvent = "LessonProgressUpdated"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// SubjectChannel carries schedule changes of one subject; UserChannel carries one user's progress.
func SubjectChannel(subjectID uuid.UUID) string { return fmt.Sprintf("subject:%s", subjectID) }
func UserChannel(userID uuid.UUID) string       { return fmt.Sprintf("user:%s", userID) }
