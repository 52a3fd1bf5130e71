package handlers

import (
	"context"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/evaluation-service/internal/services"
	"github.com/SAP-F-2025/evaluation-service/internal/utils"
	"github.com/stretchr/testify/mock"
)

type MockTeacherService struct{ mock.Mock }

func (m *MockTeacherService) Create(ctx context.Context, req *services.CreateTeacherRequest, actorID string) (*models.Teacher, error) {
	args := m.Called(ctx, req, actorID)
	teacher, _ := args.Get(0).(*models.Teacher)
	return teacher, args.Error(1)
}

func (m *MockTeacherService) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	args := m.Called(ctx, id)
	teacher, _ := args.Get(0).(*models.Teacher)
	return teacher, args.Error(1)
}

func (m *MockTeacherService) Update(ctx context.Context, id string, req *services.UpdateTeacherRequest, actorID string) (*models.Teacher, error) {
	args := m.Called(ctx, id, req, actorID)
	teacher, _ := args.Get(0).(*models.Teacher)
	return teacher, args.Error(1)
}

func (m *MockTeacherService) Delete(ctx context.Context, id string, actorID string) error {
	return m.Called(ctx, id, actorID).Error(0)
}

func (m *MockTeacherService) List(ctx context.Context, filters repositories.TeacherFilters) (*services.TeacherListResponse, error) {
	args := m.Called(ctx, filters)
	response, _ := args.Get(0).(*services.TeacherListResponse)
	return response, args.Error(1)
}

type MockQuestionService struct{ mock.Mock }

func (m *MockQuestionService) Create(ctx context.Context, req *services.CreateQuestionRequest, actorID string) (*models.Question, error) {
	args := m.Called(ctx, req, actorID)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *MockQuestionService) GetByID(ctx context.Context, id string) (*models.Question, error) {
	args := m.Called(ctx, id)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *MockQuestionService) Update(ctx context.Context, id string, req *services.UpdateQuestionRequest, actorID string) (*models.Question, error) {
	args := m.Called(ctx, id, req, actorID)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *MockQuestionService) Delete(ctx context.Context, id string, actorID string) error {
	return m.Called(ctx, id, actorID).Error(0)
}

func (m *MockQuestionService) List(ctx context.Context, filters repositories.QuestionFilters) (*services.QuestionListResponse, error) {
	args := m.Called(ctx, filters)
	response, _ := args.Get(0).(*services.QuestionListResponse)
	return response, args.Error(1)
}

func (m *MockQuestionService) ListActive(ctx context.Context) ([]*models.Question, error) {
	args := m.Called(ctx)
	questions, _ := args.Get(0).([]*models.Question)
	return questions, args.Error(1)
}

type MockEvaluationService struct{ mock.Mock }

func (m *MockEvaluationService) Submit(ctx context.Context, studentID string, req *services.SubmitEvaluationRequest) (*models.Evaluation, error) {
	args := m.Called(ctx, studentID, req)
	evaluation, _ := args.Get(0).(*models.Evaluation)
	return evaluation, args.Error(1)
}

func (m *MockEvaluationService) GetByID(ctx context.Context, id string) (*models.Evaluation, error) {
	args := m.Called(ctx, id)
	evaluation, _ := args.Get(0).(*models.Evaluation)
	return evaluation, args.Error(1)
}

func (m *MockEvaluationService) Delete(ctx context.Context, id string, actorID string) error {
	return m.Called(ctx, id, actorID).Error(0)
}

func (m *MockEvaluationService) ListByTeacher(ctx context.Context, teacherID string, filters repositories.EvaluationFilters) (*services.EvaluationListResponse, error) {
	args := m.Called(ctx, teacherID, filters)
	response, _ := args.Get(0).(*services.EvaluationListResponse)
	return response, args.Error(1)
}

type MockReportService struct{ mock.Mock }

func (m *MockReportService) GetOverview(ctx context.Context, sortKey string) (*services.OverviewReport, error) {
	args := m.Called(ctx, sortKey)
	report, _ := args.Get(0).(*services.OverviewReport)
	return report, args.Error(1)
}

func (m *MockReportService) GetTeacherReport(ctx context.Context, teacherID string) (*services.TeacherReport, error) {
	args := m.Called(ctx, teacherID)
	report, _ := args.Get(0).(*services.TeacherReport)
	return report, args.Error(1)
}

func (m *MockReportService) InvalidateReports(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockReportService) HandleEvent(ctx context.Context, event *events.Event) error {
	return m.Called(ctx, event).Error(0)
}

type MockExportService struct{ mock.Mock }

func (m *MockExportService) ExportOverview(ctx context.Context, format models.ExportFormat, sortKey string, w io.Writer) error {
	args := m.Called(ctx, format, sortKey, w)
	if body := args.String(1); body != "" {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(0)
}

func (m *MockExportService) ExportTeacher(ctx context.Context, teacherID string, w io.Writer) error {
	args := m.Called(ctx, teacherID, w)
	if body := args.String(1); body != "" {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(0)
}

func (m *MockExportService) ExportQuestions(ctx context.Context, format models.ExportFormat, w io.Writer) error {
	args := m.Called(ctx, format, w)
	if body := args.String(1); body != "" {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(0)
}

type MockImportService struct{ mock.Mock }

func (m *MockImportService) ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string, actorID string) (*models.ImportResult, error) {
	args := m.Called(ctx, reader, filename, actorID)
	result, _ := args.Get(0).(*models.ImportResult)
	return result, args.Error(1)
}

func (m *MockImportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, actorID string) (*models.ImportResult, error) {
	args := m.Called(ctx, reader, actorID)
	result, _ := args.Get(0).(*models.ImportResult)
	return result, args.Error(1)
}

func (m *MockImportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, actorID string) (*models.ImportResult, error) {
	args := m.Called(ctx, reader, actorID)
	result, _ := args.Get(0).(*models.ImportResult)
	return result, args.Error(1)
}

type mockServiceManager struct {
	teachers    *MockTeacherService
	questions   *MockQuestionService
	evaluations *MockEvaluationService
	reports     *MockReportService
	exports     *MockExportService
	imports     *MockImportService
}

func newMockServiceManager() *mockServiceManager {
	return &mockServiceManager{
		teachers:    &MockTeacherService{},
		questions:   &MockQuestionService{},
		evaluations: &MockEvaluationService{},
		reports:     &MockReportService{},
		exports:     &MockExportService{},
		imports:     &MockImportService{},
	}
}

func (m *mockServiceManager) Teacher() services.TeacherService       { return m.teachers }
func (m *mockServiceManager) Question() services.QuestionService     { return m.questions }
func (m *mockServiceManager) Evaluation() services.EvaluationService { return m.evaluations }
func (m *mockServiceManager) Report() services.ReportService         { return m.reports }
func (m *mockServiceManager) Export() services.ExportService         { return m.exports }
func (m *mockServiceManager) Import() services.ImportService         { return m.imports }

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
