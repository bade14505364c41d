package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prepnexus/learning-service/internal/services"
)

type LearningHandler struct {
	BaseHandler
	dashboardService services.DashboardService
	reportService    services.ReportService
}

func NewLearningHandler(dashboardService services.DashboardService, reportService services.ReportService, logger *slog.Logger) *LearningHandler {
	return &LearningHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
		reportService:    reportService,
	}
}

// Dashboard returns the aggregated learning dashboard
// @Summary Learning dashboard
// @Description Mastery heatmap, risk topics, recommendations, study plan and performance trend
// @Tags learning
// @Produce json
// @Success 200 {object} services.DashboardResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /learning/dashboard [get]
func (h *LearningHandler) Dashboard(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// Topics lists tracked topics with mastery-derived progress
// @Summary Tracked topics
// @Tags learning
// @Produce json
// @Success 200 {array} services.TopicOverview
// @Failure 401 {object} ErrorResponse
// @Router /learning/topics [get]
func (h *LearningHandler) Topics(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	topics, err := h.dashboardService.Topics(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, topics)
}

// Resources returns curated learning resources for a topic
// @Summary Topic resources
// @Description Curated resources scaled to the user's mastery level, with search fallbacks
// @Tags learning
// @Produce json
// @Param topic query string true "Topic"
// @Success 200 {object} models.ResourceSet
// @Failure 400 {object} ErrorResponse
// @Router /learning/resources [get]
func (h *LearningHandler) Resources(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	topic := c.Query("topic")
	resources, err := h.dashboardService.Resources(c.Request.Context(), userID, topic)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resources)
}

// ExportReport streams the mastery report as an Excel workbook
// @Summary Export mastery report
// @Tags learning
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /learning/report [get]
func (h *LearningHandler) ExportReport(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting mastery report")

	data, err := h.reportService.ExportMasteryReport(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("mastery-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
