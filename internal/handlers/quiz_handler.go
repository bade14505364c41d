package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepnexus/learning-service/internal/services"
	"github.com/prepnexus/learning-service/internal/utils"
)

type QuizHandler struct {
	BaseHandler
	quizService services.QuizService
	validator   *utils.Validator
}

type GenerateQuizRequest struct {
	Topic string `json:"topic" validate:"required"`
}

func NewQuizHandler(quizService services.QuizService, validator *utils.Validator, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
		validator:   validator,
	}
}

// GetOptions returns the quiz topic menu for the current user
// @Summary Quiz options
// @Description Lists resume topics, recommended weak topics and the mixed diagnostic quiz
// @Tags quiz
// @Produce json
// @Success 200 {object} services.QuizOptionsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /quiz/options [get]
func (h *QuizHandler) GetOptions(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	options, err := h.quizService.Options(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, options)
}

// Generate creates an adaptive quiz for a topic
// @Summary Generate quiz
// @Description Generates a 5-question MCQ quiz scaled to the user's mastery level
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body GenerateQuizRequest true "Quiz topic"
// @Success 200 {object} models.Quiz
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /quiz/generate [post]
func (h *QuizHandler) Generate(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Generating quiz", "topic", req.Topic)

	quiz, err := h.quizService.Generate(c.Request.Context(), userID, req.Topic)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// Submit records a quiz result and recomputes topic mastery
// @Summary Submit quiz
// @Description Scores the submitted quiz and blends the result into the topic's mastery
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body services.QuizSubmitRequest true "Quiz result"
// @Success 200 {object} services.QuizSubmitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /quiz/submit [post]
func (h *QuizHandler) Submit(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.QuizSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting quiz", "topic", req.Topic)

	result, err := h.quizService.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
