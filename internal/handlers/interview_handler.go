package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/prepnexus/learning-service/internal/services"
	"github.com/prepnexus/learning-service/internal/utils"
)

type InterviewHandler struct {
	BaseHandler
	interviewService services.InterviewService
	validator        *utils.Validator
}

func NewInterviewHandler(interviewService services.InterviewService, validator *utils.Validator, logger *slog.Logger) *InterviewHandler {
	return &InterviewHandler{
		BaseHandler:      NewBaseHandler(logger),
		interviewService: interviewService,
		validator:        validator,
	}
}

// Start creates a mock interview session from resume text
// @Summary Start interview
// @Description Generates a question set from the resume and opens a scored session
// @Tags interview
// @Accept json
// @Produce json
// @Param request body services.StartInterviewRequest true "Resume and target role"
// @Success 201 {object} services.StartInterviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /interview/start [post]
func (h *InterviewHandler) Start(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.StartInterviewRequest
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

	h.LogRequest(c, "Starting interview session", "role", req.Role)

	resp, err := h.interviewService.Start(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// SubmitAnswer scores one answer and advances the session
// @Summary Submit interview answer
// @Description Scores the answer against the current question and returns the next one; the final answer also returns readiness scores
// @Tags interview
// @Accept json
// @Produce json
// @Param request body services.SubmitAnswerRequest true "Session id and answer text"
// @Success 200 {object} services.SubmitAnswerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /interview/answer [post]
func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	if _, ok := h.currentUserID(c); !ok {
		return
	}

	var req services.SubmitAnswerRequest
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

	resp, err := h.interviewService.SubmitAnswer(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSession returns the full state of an interview session
// @Summary Get interview session
// @Tags interview
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} models.InterviewSession
// @Failure 404 {object} ErrorResponse
// @Router /interview/sessions/{session_id} [get]
func (h *InterviewHandler) GetSession(c *gin.Context) {
	if _, ok := h.currentUserID(c); !ok {
		return
	}

	sessionID := strings.TrimSpace(c.Param("session_id"))
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid session_id",
			Details: "ID cannot be empty",
		})
		return
	}

	session, err := h.interviewService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
