package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/evaluation-service/internal/validator"
	"github.com/stretchr/testify/mock"
)

// ===== MOCK REPOSITORIES =====

type MockRepository struct {
	teachers    *MockTeacherRepository
	questions   *MockQuestionRepository
	evaluations *MockEvaluationRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		teachers:    new(MockTeacherRepository),
		questions:   new(MockQuestionRepository),
		evaluations: new(MockEvaluationRepository),
	}
}

func (m *MockRepository) Teacher() repositories.TeacherRepository       { return m.teachers }
func (m *MockRepository) Question() repositories.QuestionRepository     { return m.questions }
func (m *MockRepository) Evaluation() repositories.EvaluationRepository { return m.evaluations }

func (m *MockRepository) Transaction(ctx context.Context, fn func(repo repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) AssertExpectations(t mock.TestingT) {
	m.teachers.AssertExpectations(t)
	m.questions.AssertExpectations(t)
	m.evaluations.AssertExpectations(t)
}

type MockTeacherRepository struct{ mock.Mock }

func (m *MockTeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	args := m.Called(ctx, teacher)
	if teacher.ID == "" {
		teacher.ID = "teacher-new"
	}
	return args.Error(0)
}

func (m *MockTeacherRepository) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		// hand out a copy so services cannot mutate the fixture
		teacher := *t.(*models.Teacher)
		return &teacher, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	return m.Called(ctx, teacher).Error(0)
}

func (m *MockTeacherRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTeacherRepository) List(ctx context.Context, filters repositories.TeacherFilters) ([]*models.Teacher, int64, error) {
	args := m.Called(ctx, filters)
	teachers, _ := args.Get(0).([]*models.Teacher)
	return teachers, args.Get(1).(int64), args.Error(2)
}

func (m *MockTeacherRepository) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

type MockQuestionRepository struct{ mock.Mock }

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	if question.ID == "" {
		question.ID = "question-new"
	}
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	args := m.Called(ctx, id)
	if q := args.Get(0); q != nil {
		question := *q.(*models.Question)
		return &question, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	return m.Called(ctx, questions).Error(0)
}

func (m *MockQuestionRepository) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, filters)
	questions, _ := args.Get(0).([]*models.Question)
	return questions, args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) ListActive(ctx context.Context) ([]*models.Question, error) {
	args := m.Called(ctx)
	questions, _ := args.Get(0).([]*models.Question)
	return questions, args.Error(1)
}

type MockEvaluationRepository struct{ mock.Mock }

func (m *MockEvaluationRepository) Create(ctx context.Context, evaluation *models.Evaluation) error {
	args := m.Called(ctx, evaluation)
	if evaluation.ID == "" {
		evaluation.ID = "evaluation-new"
	}
	return args.Error(0)
}

func (m *MockEvaluationRepository) GetByID(ctx context.Context, id string) (*models.Evaluation, error) {
	args := m.Called(ctx, id)
	evaluation, _ := args.Get(0).(*models.Evaluation)
	return evaluation, args.Error(1)
}

func (m *MockEvaluationRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEvaluationRepository) ExistsForStudent(ctx context.Context, teacherID, studentID string) (bool, error) {
	args := m.Called(ctx, teacherID, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEvaluationRepository) ListByTeacher(ctx context.Context, teacherID string, filters repositories.EvaluationFilters) ([]*models.Evaluation, int64, error) {
	args := m.Called(ctx, teacherID, filters)
	evaluations, _ := args.Get(0).([]*models.Evaluation)
	return evaluations, args.Get(1).(int64), args.Error(2)
}

func (m *MockEvaluationRepository) ListForReport(ctx context.Context, limit int) ([]*models.Evaluation, error) {
	args := m.Called(ctx, limit)
	evaluations, _ := args.Get(0).([]*models.Evaluation)
	return evaluations, args.Error(1)
}

func (m *MockEvaluationRepository) ListForTeacherReport(ctx context.Context, teacherID string, limit int) ([]*models.Evaluation, error) {
	args := m.Called(ctx, teacherID, limit)
	evaluations, _ := args.Get(0).([]*models.Evaluation)
	return evaluations, args.Error(1)
}

func (m *MockEvaluationRepository) RenameTeacher(ctx context.Context, teacherID, name string) (int64, error) {
	args := m.Called(ctx, teacherID, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEvaluationRepository) CountByTeacher(ctx context.Context, teacherID string) (int64, error) {
	args := m.Called(ctx, teacherID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEvaluationRepository) CountByTeachers(ctx context.Context, teacherIDs []string) (map[string]int64, error) {
	args := m.Called(ctx, teacherIDs)
	counts, _ := args.Get(0).(map[string]int64)
	return counts, args.Error(1)
}

// ===== SHARED FIXTURES =====

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceFixture struct {
	repo      *MockRepository
	publisher *events.MockEventPublisher
	notifier  EventNotifier
	validator *validator.Validator
	logger    *slog.Logger
}

func newServiceFixture() *serviceFixture {
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	return &serviceFixture{
		repo:      NewMockRepository(),
		publisher: publisher,
		notifier:  NewEventNotifier(publisher, logger),
		validator: validator.New(),
		logger:    logger,
	}
}

func activeCatalog() []*models.Question {
	return []*models.Question{
		{ID: "q1", Category: "A", CategoryName: models.StringPtr("Teaching"), Text: "Explains clearly", IsActive: true},
		{ID: "q2", Category: "A", Text: "Prepared for class", IsActive: true},
		{ID: "q3", Category: "B", CategoryName: models.StringPtr("Fairness"), Text: "Grades fairly", IsActive: true},
	}
}
