package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/evaluation-service/internal/validator"
)

type CreateQuestionRequest struct {
	Category     string  `json:"category" validate:"required,category_code"`
	CategoryName *string `json:"category_name" validate:"omitempty,max=150"`
	Text         string  `json:"text" validate:"required,min=3,max=1000"`
	Order        int     `json:"order" validate:"min=0"`
	IsActive     *bool   `json:"is_active"`
}

type UpdateQuestionRequest struct {
	Category     *string `json:"category" validate:"omitempty,category_code"`
	CategoryName *string `json:"category_name" validate:"omitempty,max=150"`
	Text         *string `json:"text" validate:"omitempty,min=3,max=1000"`
	Order        *int    `json:"order" validate:"omitempty,min=0"`
	IsActive     *bool   `json:"is_active"`
}

type QuestionListResponse struct {
	Questions []*models.Question `json:"questions"`
	Total     int64              `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

type questionService struct {
	repo      repositories.Repository
	notifier  EventNotifier
	logger    *slog.Logger
	opLogger  *ServiceLogger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, notifier EventNotifier, logger *slog.Logger, validator *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "question"),
		validator: validator,
	}
}

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest, actorID string) (question *models.Question, err error) {
	done := s.opLogger.Track(ctx, "create", actorID, "question", "")
	defer func() { done(err) }()

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	question = &models.Question{
		Category:     strings.TrimSpace(req.Category),
		CategoryName: trimmedPtr(req.CategoryName),
		Text:         strings.TrimSpace(req.Text),
		Order:        req.Order,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if errs := s.validator.Question().ValidateQuestion(question); len(errs) > 0 {
		return nil, errs
	}

	if err = s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.notifier.QuestionChanged(ctx, events.EventQuestionCreated, question)
	return question, nil
}

func (s *questionService) GetByID(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrQuestionNotFound)
	}
	return question, nil
}

func (s *questionService) Update(ctx context.Context, id string, req *UpdateQuestionRequest, actorID string) (question *models.Question, err error) {
	done := s.opLogger.Track(ctx, "update", actorID, "question", id)
	defer func() { done(err) }()

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	question, err = s.repo.Question().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrQuestionNotFound)
	}

	if req.Category != nil {
		question.Category = strings.TrimSpace(*req.Category)
	}
	if req.CategoryName != nil {
		question.CategoryName = trimmedPtr(req.CategoryName)
	}
	if req.Text != nil {
		question.Text = strings.TrimSpace(*req.Text)
	}
	if req.Order != nil {
		question.Order = *req.Order
	}
	if req.IsActive != nil {
		question.IsActive = *req.IsActive
	}
	if errs := s.validator.Question().ValidateQuestion(question); len(errs) > 0 {
		return nil, errs
	}

	if err = s.repo.Question().Update(ctx, question); err != nil {
		return nil, mapNotFound(err, ErrQuestionNotFound)
	}

	s.notifier.QuestionChanged(ctx, events.EventQuestionUpdated, question)
	return question, nil
}

func (s *questionService) Delete(ctx context.Context, id string, actorID string) (err error) {
	done := s.opLogger.Track(ctx, "delete", actorID, "question", id)
	defer func() { done(err) }()

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, ErrQuestionNotFound)
	}
	if err = s.repo.Question().Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrQuestionNotFound)
	}

	s.notifier.QuestionChanged(ctx, events.EventQuestionDeleted, question)
	return nil
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error) {
	questions, total, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return &QuestionListResponse{
		Questions: questions,
		Total:     total,
		Limit:     filters.Limit,
		Offset:    filters.Offset,
	}, nil
}

func (s *questionService) ListActive(ctx context.Context) ([]*models.Question, error) {
	questions, err := s.repo.Question().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluation form: %w", err)
	}
	return questions, nil
}

func trimmedPtr(p *string) *string {
	if p == nil {
		return nil
	}
	return models.StringPtr(strings.TrimSpace(*p))
}
