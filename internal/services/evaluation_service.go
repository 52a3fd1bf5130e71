package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/evaluation-service/internal/aggregator"
	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/evaluation-service/internal/validator"
	"gorm.io/datatypes"
)

type SubmitEvaluationRequest struct {
	TeacherID          string                 `json:"teacher_id" validate:"required,max=36"`
	Answers            models.Answers         `json:"answers" validate:"required,min=1,dive,rating"`
	CategoryRatings    models.CategoryRatings `json:"category_ratings,omitempty"`
	PositiveComment    *string                `json:"positive_comment" validate:"omitempty,max=2000"`
	ImprovementComment *string                `json:"improvement_comment" validate:"omitempty,max=2000"`
}

type EvaluationListResponse struct {
	Evaluations []*models.Evaluation `json:"evaluations"`
	Total       int64                `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

type evaluationService struct {
	repo      repositories.Repository
	notifier  EventNotifier
	logger    *slog.Logger
	opLogger  *ServiceLogger
	validator *validator.Validator
}

func NewEvaluationService(repo repositories.Repository, notifier EventNotifier, logger *slog.Logger, validator *validator.Validator) EvaluationService {
	return &evaluationService{
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "evaluation"),
		validator: validator,
	}
}

// Submit records one student's evaluation of one teacher
func (s *evaluationService) Submit(ctx context.Context, studentID string, req *SubmitEvaluationRequest) (evaluation *models.Evaluation, err error) {
	done := s.opLogger.Track(ctx, "submit", studentID, "evaluation", req.TeacherID)
	defer func() { done(err) }()

	if strings.TrimSpace(studentID) == "" {
		return nil, ErrUnauthorized
	}
	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, req.TeacherID)
	if err != nil {
		return nil, mapNotFound(err, ErrTeacherNotFound)
	}
	if !teacher.IsActive {
		return nil, ErrTeacherInactive
	}

	catalog, err := s.repo.Question().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluation form: %w", err)
	}
	if len(catalog) == 0 {
		return nil, ErrNoActiveQuestions
	}
	if errs := s.validator.Question().ValidateAnswers(catalog, req.Answers); len(errs) > 0 {
		return nil, errs
	}

	exists, err := s.repo.Evaluation().ExistsForStudent(ctx, teacher.ID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing evaluation: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEvaluation
	}

	ratings := aggregator.DeriveCategoryRatings(catalog, req.Answers)
	if err = checkSuppliedRatings(req.CategoryRatings, ratings); err != nil {
		return nil, err
	}

	evaluation = &models.Evaluation{
		TeacherID:          teacher.ID,
		TeacherName:        teacher.Name,
		StudentID:          studentID,
		Answers:            datatypes.NewJSONType(req.Answers),
		CategoryRatings:    datatypes.NewJSONType(ratings),
		PositiveComment:    trimmedPtr(req.PositiveComment),
		ImprovementComment: trimmedPtr(req.ImprovementComment),
	}

	if err = s.repo.Evaluation().Create(ctx, evaluation); err != nil {
		if IsConflict(err) {
			// lost a race against a concurrent submission from the same student
			return nil, ErrDuplicateEvaluation
		}
		return nil, fmt.Errorf("failed to save evaluation: %w", err)
	}

	s.notifier.EvaluationSubmitted(ctx, evaluation)
	return evaluation, nil
}

func (s *evaluationService) GetByID(ctx context.Context, id string) (*models.Evaluation, error) {
	evaluation, err := s.repo.Evaluation().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrEvaluationNotFound)
	}
	return evaluation, nil
}

func (s *evaluationService) Delete(ctx context.Context, id string, actorID string) (err error) {
	done := s.opLogger.Track(ctx, "delete", actorID, "evaluation", id)
	defer func() { done(err) }()

	evaluation, err := s.repo.Evaluation().GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, ErrEvaluationNotFound)
	}
	if err = s.repo.Evaluation().Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrEvaluationNotFound)
	}

	s.notifier.EvaluationDeleted(ctx, evaluation, actorID)
	return nil
}

func (s *evaluationService) ListByTeacher(ctx context.Context, teacherID string, filters repositories.EvaluationFilters) (*EvaluationListResponse, error) {
	if _, err := s.repo.Teacher().GetByID(ctx, teacherID); err != nil {
		return nil, mapNotFound(err, ErrTeacherNotFound)
	}

	evaluations, total, err := s.repo.Evaluation().ListByTeacher(ctx, teacherID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return &EvaluationListResponse{
		Evaluations: evaluations,
		Total:       total,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
	}, nil
}

// checkSuppliedRatings accepts client ratings only when they match the ones derived from the answers
func checkSuppliedRatings(supplied, derived models.CategoryRatings) error {
	if len(supplied) == 0 {
		return nil
	}
	if len(supplied) != len(derived) {
		return NewValidationError("category_ratings", "must match the submitted answers", supplied)
	}
	for code, score := range supplied {
		want, ok := derived[code]
		if !ok || score != want {
			return NewValidationError(fmt.Sprintf("category_ratings[%s]", code), "must match the submitted answers", score)
		}
	}
	return nil
}
