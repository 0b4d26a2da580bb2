package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/classbridge-backend/internal/http/response"
	"github.com/yungbote/classbridge-backend/internal/services"
)

const maxTeacherImageBytes = 10 << 20

type TeacherHandler struct {
	teachers services.TeacherService
}

func NewTeacherHandler(teachers services.TeacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// GET /api/teachers
func (h *TeacherHandler) List(c *gin.Context) {
	out, err := h.teachers.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"teachers": out})
}

// GET /api/teachers/:teacherId
func (h *TeacherHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "teacherId")
	if !ok {
		return
	}
	t, err := h.teachers.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, t)
}

// POST /api/teachers
func (h *TeacherHandler) Create(c *gin.Context) {
	var req services.CreateTeacherInput
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.teachers.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, t)
}

// PATCH /api/teachers/:teacherId
func (h *TeacherHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "teacherId")
	if !ok {
		return
	}
	var req services.UpdateTeacherInput
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.teachers.Update(c.Request.Context(), principal(c), id, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, t)
}

// DELETE /api/teachers/:teacherId
func (h *TeacherHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "teacherId")
	if !ok {
		return
	}
	if err := h.teachers.Delete(c.Request.Context(), principal(c), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/teachers/:teacherId/image (multipart field "file")
func (h *TeacherHandler) UploadImage(c *gin.Context) {
	id, ok := uuidParam(c, "teacherId")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxTeacherImageBytes)
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
	raw, err := io.ReadAll(f)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("unreadable file"))
		return
	}
	t, err := h.teachers.SetImage(c.Request.Context(), principal(c), id, raw)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, t)
}
