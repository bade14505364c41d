package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prepnexus/learning-service/internal/services"
	"github.com/prepnexus/learning-service/internal/utils"
)

type HandlerManager struct {
	quizHandler       *QuizHandler
	assignmentHandler *AssignmentHandler
	interviewHandler  *InterviewHandler
	learningHandler   *LearningHandler
	resumeHandler     *ResumeHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *utils.Validator,
	logger *slog.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:       NewQuizHandler(serviceManager.Quiz(), validator, logger),
		assignmentHandler: NewAssignmentHandler(serviceManager.Assignment(), validator, logger),
		interviewHandler:  NewInterviewHandler(serviceManager.Interview(), validator, logger),
		learningHandler:   NewLearningHandler(serviceManager.Dashboard(), serviceManager.Report(), logger),
		resumeHandler:     NewResumeHandler(serviceManager.Resume(), validator, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "learning-service",
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(UserIdentityMiddleware())
	{
		quiz := v1.Group("/quiz")
		{
			quiz.GET("/options", hm.quizHandler.GetOptions)
			quiz.POST("/generate", hm.quizHandler.Generate)
			quiz.POST("/submit", hm.quizHandler.Submit)
		}

		assignments := v1.Group("/assignments")
		{
			assignments.GET("/options", hm.assignmentHandler.GetOptions)
			assignments.POST("/generate", hm.assignmentHandler.Generate)
			assignments.GET("", hm.assignmentHandler.List)
			assignments.GET("/:id", hm.assignmentHandler.Get)
			assignments.POST("/:id/submit", hm.assignmentHandler.Submit)
		}

		interview := v1.Group("/interview")
		{
			interview.POST("/start", hm.interviewHandler.Start)
			interview.POST("/answer", hm.interviewHandler.SubmitAnswer)
			interview.GET("/sessions/:session_id", hm.interviewHandler.GetSession)
		}

		learning := v1.Group("/learning")
		{
			learning.GET("/dashboard", hm.learningHandler.Dashboard)
			learning.GET("/topics", hm.learningHandler.Topics)
			learning.GET("/resources", hm.learningHandler.Resources)
			learning.GET("/report", hm.learningHandler.ExportReport)
		}

		resume := v1.Group("/resume")
		{
			resume.POST("/analyze", hm.resumeHandler.Analyze)
		}
	}
}

// UserIdentityMiddleware resolves the caller's user id from the
// X-User-ID header set by the API gateway. Requests without a valid id
// are rejected before they reach a handler.
func UserIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}
		c.Set("user_id", uint(id))
		c.Next()
	}
}
