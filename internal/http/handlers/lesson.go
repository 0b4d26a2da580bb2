package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/classbridge-backend/internal/domain/learning"
	"github.com/yungbote/classbridge-backend/internal/http/response"
	"github.com/yungbote/classbridge-backend/internal/services"
)

// maxLessonAssetBytes caps lesson video and notes uploads.
const maxLessonAssetBytes = 512 << 20

type LessonHandler struct {
	lessons services.LessonService
}

func NewLessonHandler(lessons services.LessonService) *LessonHandler {
	return &LessonHandler{lessons: lessons}
}

// POST /api/lessons
// body: { "title", "chapterId", "teacherId", "date" }
func (h *LessonHandler) Create(c *gin.Context) {
	var req services.CreateLessonInput
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.lessons.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, lesson)
}

// PATCH /api/lessons/:lessonId
func (h *LessonHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "lessonId")
	if !ok {
		return
	}
	var req services.UpdateLessonInput
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.lessons.Update(c.Request.Context(), principal(c), id, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, lesson)
}

// DELETE /api/lessons/:lessonId
func (h *LessonHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "lessonId")
	if !ok {
		return
	}
	if err := h.lessons.Delete(c.Request.Context(), principal(c), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/courses/:courseId/lessons/:lessonId
func (h *LessonHandler) View(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	lessonID, ok := uuidParam(c, "lessonId")
	if !ok {
		return
	}
	page, err := h.lessons.View(c.Request.Context(), principal(c), courseID, lessonID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// POST /api/lessons/:lessonId/assets/:kind (multipart field "file")
func (h *LessonHandler) UploadAsset(c *gin.Context) {
	id, ok := uuidParam(c, "lessonId")
	if !ok {
		return
	}
	kind, err := learning.ParseAssetKind(c.Param("kind"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("kind must be video or notes"))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxLessonAssetBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("missing file"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("unreadable file"))
		return
	}
	defer f.Close()
	lesson, err := h.lessons.UploadAsset(c.Request.Context(), principal(c), id, kind, fh.Filename, f)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, lesson)
}
