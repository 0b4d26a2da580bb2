package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/classbridge-backend/internal/http/response"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"github.com/yungbote/classbridge-backend/internal/realtime"
)

const maxStreamSubjects = 32

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// GET /api/sse/stream?subjects=<id>,<id>&token=...
// Every stream gets the caller's user channel; subjects adds schedule channels.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	p := principal(c)
	if !p.Authenticated() {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("Unauthorized"))
		return
	}
	subjects, err := parseSubjectIDs(c.Query("subjects"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	client := h.hub.NewSSEClient(p.UserID)
	h.hub.AddChannel(client, realtime.UserChannel(p.UserID))
	for _, id := range subjects {
		h.hub.AddChannel(client, realtime.SubjectChannel(id))
	}
	h.log.Debug("sse stream open", "user_id", p.UserID, "client_id", client.ID, "subjects", len(subjects))

	h.hub.ServeHTTP(c.Writer, c.Request, client)
	h.hub.CloseClient(client)
}

func parseSubjectIDs(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) > maxStreamSubjects {
		return nil, errors.New("too many subjects")
	}
	out := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.New("invalid subject id")
		}
		out = append(out, id)
	}
	return out, nil
}
