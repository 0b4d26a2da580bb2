package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/classbridge-backend/internal/data/repos"
	"github.com/yungbote/classbridge-backend/internal/domain/learning"
	"github.com/yungbote/classbridge-backend/internal/http/response"
	"github.com/yungbote/classbridge-backend/internal/services"
)

type CourseHandler struct {
	courses services.CourseService
}

func NewCourseHandler(courses services.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// GET /api/courses?title=phy&category=JEE
func (h *CourseHandler) ListPublished(c *gin.Context) {
	filter := repos.CourseFilter{
		Title:    strings.TrimSpace(c.Query("title")),
		Category: learning.CourseCategory(strings.ToUpper(strings.TrimSpace(c.Query("category")))),
	}
	out, err := h.courses.ListPublished(c.Request.Context(), filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": out})
}

// GET /api/admin/courses
func (h *CourseHandler) ListAll(c *gin.Context) {
	out, err := h.courses.ListAll(c.Request.Context(), principal(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": out})
}

// GET /api/courses/:courseId
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	course, err := h.courses.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, course)
}

// GET /api/courses/:courseId/content
func (h *CourseHandler) Content(c *gin.Context) {
	id, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	content, err := h.courses.Content(c.Request.Context(), principal(c), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, content)
}

// POST /api/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req services.CreateCourseInput
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courses.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, course)
}

// PATCH /api/courses/:courseId
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	var req services.UpdateCourseInput
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courses.Update(c.Request.Context(), principal(c), id, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, course)
}

// PATCH /api/courses/:courseId/publish
func (h *CourseHandler) Publish(c *gin.Context) {
	id, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	course, err := h.courses.Publish(c.Request.Context(), principal(c), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, course)
}

// PATCH /api/courses/:courseId/unpublish
func (h *CourseHandler) Unpublish(c *gin.Context) {
	id, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	course, err := h.courses.Unpublish(c.Request.Context(), principal(c), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, course)
}

// DELETE /api/courses/:courseId
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	if err := h.courses.Delete(c.Request.Context(), principal(c), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
