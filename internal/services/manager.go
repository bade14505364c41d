package services

import (
	"log/slog"

	"github.com/prepnexus/learning-service/internal/ai"
	"github.com/prepnexus/learning-service/internal/events"
	"github.com/prepnexus/learning-service/internal/repositories"
	"github.com/prepnexus/learning-service/internal/sessions"
)

// ServiceManager bundles all domain services for handler wiring.
type ServiceManager interface {
	Quiz() QuizService
	Assignment() AssignmentService
	Interview() InterviewService
	StudyPlan() StudyPlanService
	Dashboard() DashboardService
	Resume() ResumeService
	Report() ReportService
}

type serviceManager struct {
	quiz       QuizService
	assignment AssignmentService
	interview  InterviewService
	studyPlan  StudyPlanService
	dashboard  DashboardService
	resume     ResumeService
	report     ReportService
}

func NewServiceManager(
	repo repositories.Repository,
	provider ai.Provider,
	store sessions.Store,
	publisher events.EventPublisher,
	logger *slog.Logger,
) ServiceManager {
	plans := NewStudyPlanService(provider, logger)

	return &serviceManager{
		quiz:       NewQuizService(repo, provider, publisher, logger),
		assignment: NewAssignmentService(repo, provider, publisher, logger),
		interview:  NewInterviewService(store, provider, repo, publisher, logger),
		studyPlan:  plans,
		dashboard:  NewDashboardService(repo, plans, logger),
		resume:     NewResumeService(repo, provider, logger),
		report:     NewReportService(repo, logger),
	}
}

func (m *serviceManager) Quiz() QuizService             { return m.quiz }
func (m *serviceManager) Assignment() AssignmentService { return m.assignment }
func (m *serviceManager) Interview() InterviewService   { return m.interview }
func (m *serviceManager) StudyPlan() StudyPlanService   { return m.studyPlan }
func (m *serviceManager) Dashboard() DashboardService   { return m.dashboard }
func (m *serviceManager) Resume() ResumeService         { return m.resume }
func (m *serviceManager) Report() ReportService         { return m.report }
