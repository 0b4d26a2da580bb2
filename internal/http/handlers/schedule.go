package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/classbridge-backend/internal/http/response"
	"github.com/yungbote/classbridge-backend/internal/services"
)

type ScheduleHandler struct {
	importer services.ScheduleImportService
	lessons  services.LessonService
	loc      *time.Location
}

func NewScheduleHandler(importer services.ScheduleImportService, lessons services.LessonService, loc *time.Location) *ScheduleHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleHandler{importer: importer, lessons: lessons, loc: loc}
}

// POST /api/courses/:courseId/subjects/:subjectId/import
// body: { "data": [ { "Chapter", "Title", "Date", "TeacherEmail" } ] }
// Keys match case-insensitively. Date is ISO-8601 with at least minute precision.
func (h *ScheduleHandler) Import(c *gin.Context) {
	subjectID, ok := uuidParam(c, "subjectId")
	if !ok {
		return
	}
	var req struct {
		Data []services.ImportRow `json:"data"`
	}
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.importer.ImportSchedule(c.Request.Context(), principal(c), subjectID, req.Data)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondMessage(c, res.Message)
}

// DELETE /api/courses/:courseId/subjects/:subjectId/schedule
func (h *ScheduleHandler) Reset(c *gin.Context) {
	subjectID, ok := uuidParam(c, "subjectId")
	if !ok {
		return
	}
	msg, err := h.importer.ResetSchedule(c.Request.Context(), principal(c), subjectID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondMessage(c, msg)
}

// GET /api/subjects/:subjectId/schedule?from=2025-11-25&to=2025-12-01
func (h *ScheduleHandler) List(c *gin.Context) {
	subjectID, ok := uuidParam(c, "subjectId")
	if !ok {
		return
	}
	from, err := h.parseDay(c.Query("from"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid from"))
		return
	}
	to, err := h.parseDay(c.Query("to"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid to"))
		return
	}
	entries, err := h.lessons.Schedule(c.Request.Context(), principal(c), subjectID, services.ScheduleRange{From: from, To: to})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lessons": entries})
}

// parseDay accepts a calendar day in the display timezone or a full instant.
func (h *ScheduleHandler) parseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, h.loc); err == nil {
		return t, nil
	}
	return services.ParseInstant(raw)
}
