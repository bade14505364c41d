package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepnexus/learning-service/internal/services"
	"github.com/prepnexus/learning-service/internal/utils"
)

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
	validator         *utils.Validator
}

type GenerateAssignmentRequest struct {
	Topic string `json:"topic" validate:"required"`
}

type SubmitAssignmentRequest struct {
	CodeText   *string `json:"code_text"`
	GithubLink *string `json:"github_link"`
}

func NewAssignmentHandler(assignmentService services.AssignmentService, validator *utils.Validator, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
		validator:         validator,
	}
}

// GetOptions returns the assignment project menu for the current user
// @Summary Assignment options
// @Description Lists skill projects, growth projects and the capstone challenge
// @Tags assignments
// @Produce json
// @Success 200 {object} services.AssignmentOptionsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /assignments/options [get]
func (h *AssignmentHandler) GetOptions(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	options, err := h.assignmentService.Options(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, options)
}

// Generate creates a practical assignment for a topic
// @Summary Generate assignment
// @Description Generates a level-scaled practical assignment and persists it
// @Tags assignments
// @Accept json
// @Produce json
// @Param request body GenerateAssignmentRequest true "Assignment topic"
// @Success 201 {object} models.Assignment
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /assignments/generate [post]
func (h *AssignmentHandler) Generate(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req GenerateAssignmentRequest
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

	h.LogRequest(c, "Generating assignment", "topic", req.Topic)

	assignment, err := h.assignmentService.Generate(c.Request.Context(), userID, req.Topic)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// List returns all assignments of the current user with submission status
// @Summary List assignments
// @Tags assignments
// @Produce json
// @Success 200 {array} services.AssignmentSummary
// @Failure 401 {object} ErrorResponse
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.List(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// Get returns one assignment with its latest submission
// @Summary Get assignment
// @Tags assignments
// @Produce json
// @Param id path uint true "Assignment ID"
// @Success 200 {object} services.AssignmentDetail
// @Failure 404 {object} ErrorResponse
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	assignmentID := h.parseIDParam(c, "id")
	if assignmentID == 0 {
		return
	}

	detail, err := h.assignmentService.Get(c.Request.Context(), userID, assignmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Submit evaluates a submission and updates mastery
// @Summary Submit assignment
// @Description Grades the submission with AI and blends the score into topic mastery
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path uint true "Assignment ID"
// @Param request body SubmitAssignmentRequest true "Submission content"
// @Success 200 {object} services.AssignmentSubmitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /assignments/{id}/submit [post]
func (h *AssignmentHandler) Submit(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	assignmentID := h.parseIDParam(c, "id")
	if assignmentID == 0 {
		return
	}

	var req SubmitAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting assignment", "assignment_id", assignmentID)

	result, err := h.assignmentService.Submit(c.Request.Context(), userID, &services.AssignmentSubmitRequest{
		AssignmentID: assignmentID,
		CodeText:     req.CodeText,
		GithubLink:   req.GithubLink,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
