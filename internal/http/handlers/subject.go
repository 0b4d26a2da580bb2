package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/classbridge-backend/internal/http/response"
	"github.com/yungbote/classbridge-backend/internal/services"
)

type SubjectHandler struct {
	subjects services.SubjectService
}

func NewSubjectHandler(subjects services.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

// GET /api/courses/:courseId/subjects
func (h *SubjectHandler) List(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	out, err := h.subjects.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subjects": out})
}

// POST /api/courses/:courseId/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	var req services.CreateSubjectInput
	if !bindJSON(c, &req) {
		return
	}
	subject, err := h.subjects.Create(c.Request.Context(), principal(c), courseID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, subject)
}

// PATCH /api/courses/:courseId/subjects/:subjectId
func (h *SubjectHandler) Update(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	subjectID, ok := uuidParam(c, "subjectId")
	if !ok {
		return
	}
	var req services.UpdateSubjectInput
	if !bindJSON(c, &req) {
		return
	}
	subject, err := h.subjects.Update(c.Request.Context(), principal(c), courseID, subjectID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, subject)
}

// DELETE /api/courses/:courseId/subjects/:subjectId
func (h *SubjectHandler) Delete(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	subjectID, ok := uuidParam(c, "subjectId")
	if !ok {
		return
	}
	if err := h.subjects.Delete(c.Request.Context(), principal(c), courseID, subjectID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/courses/:courseId/subjects/:subjectId
func (h *SubjectHandler) Page(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	subjectID, ok := uuidParam(c, "subjectId")
	if !ok {
		return
	}
	page, err := h.subjects.Page(c.Request.Context(), principal(c), courseID, subjectID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, page)
}
