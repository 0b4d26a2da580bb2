package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/classbridge-backend/internal/http/response"
	"github.com/yungbote/classbridge-backend/internal/services"
)

type ProgressHandler struct {
	progress services.ProgressService
}

func NewProgressHandler(progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// PUT /api/courses/:courseId/lessons/:lessonId/progress
// body: { "isCompleted": true }
func (h *ProgressHandler) SetLessonProgress(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	lessonID, ok := uuidParam(c, "lessonId")
	if !ok {
		return
	}
	var req struct {
		IsCompleted bool `json:"isCompleted"`
	}
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.progress.SetLessonProgress(c.Request.Context(), principal(c), courseID, lessonID, req.IsCompleted)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, row)
}

// GET /api/courses/:courseId/progress
func (h *ProgressHandler) CourseProgress(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	p, err := h.progress.CourseProgress(c.Request.Context(), principal(c), courseID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, p)
}

// GET /api/subjects/:subjectId/progress
func (h *ProgressHandler) SubjectProgress(c *gin.Context) {
	subjectID, ok := uuidParam(c, "subjectId")
	if !ok {
		return
	}
	p, err := h.progress.SubjectProgress(c.Request.Context(), principal(c), subjectID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, p)
}

// GET /api/dashboard/courses
func (h *ProgressHandler) Dashboard(c *gin.Context) {
	d, err := h.progress.DashboardCourses(c.Request.Context(), principal(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"completedCourses": d.Completed, "coursesInProgress": d.InProgress})
}
