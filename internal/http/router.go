package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/classbridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/classbridge-backend/internal/http/middleware"
	"github.com/yungbote/classbridge-backend/internal/observability"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler     *httpH.AuthHandler
	RealtimeHandler *httpH.RealtimeHandler
	CourseHandler   *httpH.CourseHandler
	SubjectHandler  *httpH.SubjectHandler
	LessonHandler   *httpH.LessonHandler
	TeacherHandler  *httpH.TeacherHandler
	ScheduleHandler *httpH.ScheduleHandler
	ProgressHandler *httpH.ProgressHandler
	CheckoutHandler *httpH.CheckoutHandler

	HealthHandler *httpH.HealthHandler
}

const sseStreamPath = "/api/sse/stream"

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics, sseStreamPath))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.Attach())
	}

	// Public
	{
		if cfg.AuthHandler != nil {
			api.GET("/auth/google/login", cfg.AuthHandler.GoogleLogin)
			api.GET("/auth/google/callback", cfg.AuthHandler.GoogleCallback)
		}
		if cfg.CourseHandler != nil {
			api.GET("/courses", cfg.CourseHandler.ListPublished)
			api.GET("/courses/:courseId", cfg.CourseHandler.Get)
		}
		if cfg.SubjectHandler != nil {
			api.GET("/courses/:courseId/subjects", cfg.SubjectHandler.List)
		}
		if cfg.TeacherHandler != nil {
			api.GET("/teachers", cfg.TeacherHandler.List)
			api.GET("/teachers/:teacherId", cfg.TeacherHandler.Get)
		}
	}

	protected := api.Group("")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		if cfg.AuthHandler != nil {
			protected.GET("/me", cfg.AuthHandler.Me)
		}
		if cfg.RealtimeHandler != nil {
			protected.GET(strings.TrimPrefix(sseStreamPath, "/api"), cfg.RealtimeHandler.Stream)
		}
		if cfg.CourseHandler != nil {
			protected.GET("/courses/:courseId/content", cfg.CourseHandler.Content)
		}
		if cfg.SubjectHandler != nil {
			protected.GET("/courses/:courseId/subjects/:subjectId", cfg.SubjectHandler.Page)
		}
		if cfg.LessonHandler != nil {
			protected.GET("/courses/:courseId/lessons/:lessonId", cfg.LessonHandler.View)
		}
		if cfg.ProgressHandler != nil {
			protected.PUT("/courses/:courseId/lessons/:lessonId/progress", cfg.ProgressHandler.SetLessonProgress)
			protected.GET("/courses/:courseId/progress", cfg.ProgressHandler.CourseProgress)
			protected.GET("/subjects/:subjectId/progress", cfg.ProgressHandler.SubjectProgress)
			protected.GET("/dashboard/courses", cfg.ProgressHandler.Dashboard)
		}
		if cfg.CheckoutHandler != nil {
			protected.POST("/courses/:courseId/checkout", cfg.CheckoutHandler.Checkout)
			protected.POST("/courses/:courseId/verify", cfg.CheckoutHandler.Verify)
		}
	}

	admin := api.Group("")
	if cfg.AuthMiddleware != nil {
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
	}
	{
		if cfg.ScheduleHandler != nil {
			admin.POST("/courses/:courseId/subjects/:subjectId/import", cfg.ScheduleHandler.Import)
			admin.DELETE("/courses/:courseId/subjects/:subjectId/schedule", cfg.ScheduleHandler.Reset)
			admin.GET("/subjects/:subjectId/schedule", cfg.ScheduleHandler.List)
		}
		if cfg.CourseHandler != nil {
			admin.GET("/admin/courses", cfg.CourseHandler.ListAll)
			admin.POST("/courses", cfg.CourseHandler.Create)
			admin.PATCH("/courses/:courseId", cfg.CourseHandler.Update)
			admin.PATCH("/courses/:courseId/publish", cfg.CourseHandler.Publish)
			admin.PATCH("/courses/:courseId/unpublish", cfg.CourseHandler.Unpublish)
			admin.DELETE("/courses/:courseId", cfg.CourseHandler.Delete)
		}
		if cfg.SubjectHandler != nil {
			admin.POST("/courses/:courseId/subjects", cfg.SubjectHandler.Create)
			admin.PATCH("/courses/:courseId/subjects/:subjectId", cfg.SubjectHandler.Update)
			admin.DELETE("/courses/:courseId/subjects/:subjectId", cfg.SubjectHandler.Delete)
		}
		if cfg.LessonHandler != nil {
			admin.POST("/lessons", cfg.LessonHandler.Create)
			admin.PATCH("/lessons/:lessonId", cfg.LessonHandler.Update)
			admin.DELETE("/lessons/:lessonId", cfg.LessonHandler.Delete)
			admin.POST("/lessons/:lessonId/assets/:kind", cfg.LessonHandler.UploadAsset)
		}
		if cfg.TeacherHandler != nil {
			admin.POST("/teachers", cfg.TeacherHandler.Create)
			admin.PATCH("/teachers/:teacherId", cfg.TeacherHandler.Update)
			admin.DELETE("/teachers/:teacherId", cfg.TeacherHandler.Delete)
			admin.POST("/teachers/:teacherId/image", cfg.TeacherHandler.UploadImage)
		}
		if cfg.CheckoutHandler != nil {
			admin.GET("/admin/analytics", cfg.CheckoutHandler.Analytics)
		}
	}

	return r
}
