package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepnexus/learning-service/internal/services"
	"github.com/prepnexus/learning-service/internal/utils"
)

type ResumeHandler struct {
	BaseHandler
	resumeService services.ResumeService
	validator     *utils.Validator
}

type AnalyzeResumeRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
	Role       string `json:"role"`
}

func NewResumeHandler(resumeService services.ResumeService, validator *utils.Validator, logger *slog.Logger) *ResumeHandler {
	return &ResumeHandler{
		BaseHandler:   NewBaseHandler(logger),
		resumeService: resumeService,
		validator:     validator,
	}
}

// Analyze scores extracted resume text against a target role
// @Summary Analyze resume
// @Description Runs AI resume analysis with a rule-based fallback and stores the topic lists
// @Tags resume
// @Accept json
// @Produce json
// @Param request body AnalyzeResumeRequest true "Resume text and target role"
// @Success 200 {object} services.ResumeAnalysisResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /resume/analyze [post]
func (h *ResumeHandler) Analyze(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req AnalyzeResumeRequest
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

	h.LogRequest(c, "Analyzing resume", "role", req.Role)

	result, err := h.resumeService.Analyze(c.Request.Context(), userID, req.ResumeText, req.Role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
