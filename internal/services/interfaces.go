package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
)

type TeacherService interface {
	Create(ctx context.Context, req *CreateTeacherRequest, actorID string) (*models.Teacher, error)
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
	Update(ctx context.Context, id string, req *UpdateTeacherRequest, actorID string) (*models.Teacher, error)
	Delete(ctx context.Context, id string, actorID string) error
	List(ctx context.Context, filters repositories.TeacherFilters) (*TeacherListResponse, error)
}

type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest, actorID string) (*models.Question, error)
	GetByID(ctx context.Context, id string) (*models.Question, error)
	Update(ctx context.Context, id string, req *UpdateQuestionRequest, actorID string) (*models.Question, error)
	Delete(ctx context.Context, id string, actorID string) error
	List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error)
	// ListActive returns the evaluation form shown to students
	ListActive(ctx context.Context) ([]*models.Question, error)
}

type EvaluationService interface {
	Submit(ctx context.Context, studentID string, req *SubmitEvaluationRequest) (*models.Evaluation, error)
	GetByID(ctx context.Context, id string) (*models.Evaluation, error)
	Delete(ctx context.Context, id string, actorID string) error
	ListByTeacher(ctx context.Context, teacherID string, filters repositories.EvaluationFilters) (*EvaluationListResponse, error)
}

type ReportService interface {
	GetOverview(ctx context.Context, sortKey string) (*OverviewReport, error)
	GetTeacherReport(ctx context.Context, teacherID string) (*TeacherReport, error)
	InvalidateReports(ctx context.Context) error
	// HandleEvent invalidates cached reports for any domain event
	HandleEvent(ctx context.Context, event *events.Event) error
}

type ExportService interface {
	ExportOverview(ctx context.Context, format models.ExportFormat, sortKey string, w io.Writer) error
	ExportTeacher(ctx context.Context, teacherID string, w io.Writer) error
	// ExportQuestions writes the active form in the layout the importer reads
	ExportQuestions(ctx context.Context, format models.ExportFormat, w io.Writer) error
}

type ImportService interface {
	ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string, actorID string) (*models.ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, actorID string) (*models.ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, actorID string) (*models.ImportResult, error)
}
