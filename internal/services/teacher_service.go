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

type CreateTeacherRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=150"`
	Department string  `json:"department" validate:"omitempty,max=150"`
	Email      *string `json:"email" validate:"omitempty,email"`
}

type UpdateTeacherRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=150"`
	Department *string `json:"department" validate:"omitempty,max=150"`
	Email      *string `json:"email" validate:"omitempty,email"`
	IsActive   *bool   `json:"is_active"`
}

type TeacherListResponse struct {
	Teachers []*models.Teacher `json:"teachers"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

type teacherService struct {
	repo      repositories.Repository
	notifier  EventNotifier
	logger    *slog.Logger
	opLogger  *ServiceLogger
	validator *validator.Validator
}

func NewTeacherService(repo repositories.Repository, notifier EventNotifier, logger *slog.Logger, validator *validator.Validator) TeacherService {
	return &teacherService{
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "teacher"),
		validator: validator,
	}
}

func (s *teacherService) Create(ctx context.Context, req *CreateTeacherRequest, actorID string) (teacher *models.Teacher, err error) {
	done := s.opLogger.Track(ctx, "create", actorID, "teacher", "")
	defer func() { done(err) }()

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.Teacher().ExistsByName(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check teacher name: %w", err)
	}
	if exists {
		return nil, ErrTeacherDuplicateName
	}

	teacher = &models.Teacher{
		Name:       name,
		Department: strings.TrimSpace(req.Department),
		Email:      req.Email,
	}
	if err = s.repo.Teacher().Create(ctx, teacher); err != nil {
		if IsConflict(err) {
			return nil, ErrTeacherDuplicateName
		}
		return nil, err
	}

	s.logger.Info("Teacher created", "teacher_id", teacher.ID)
	return teacher, nil
}

func (s *teacherService) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.Teacher().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrTeacherNotFound)
	}

	count, err := s.repo.Evaluation().CountByTeacher(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count evaluations: %w", err)
	}
	teacher.EvaluationCount = count

	return teacher, nil
}

func (s *teacherService) Update(ctx context.Context, id string, req *UpdateTeacherRequest, actorID string) (teacher *models.Teacher, err error) {
	done := s.opLogger.Track(ctx, "update", actorID, "teacher", id)
	defer func() { done(err) }()

	if err = s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	teacher, err = s.repo.Teacher().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrTeacherNotFound)
	}

	renamed := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		exists, err := s.repo.Teacher().ExistsByName(ctx, name, &id)
		if err != nil {
			return nil, fmt.Errorf("failed to check teacher name: %w", err)
		}
		if exists {
			return nil, ErrTeacherDuplicateName
		}
		renamed = name != teacher.Name
		teacher.Name = name
	}
	if req.Department != nil {
		teacher.Department = strings.TrimSpace(*req.Department)
	}
	if req.Email != nil {
		teacher.Email = models.StringPtr(strings.TrimSpace(*req.Email))
	}
	if req.IsActive != nil {
		teacher.IsActive = *req.IsActive
	}

	// evaluations carry the teacher name they were submitted under; a rename rewrites them with the teacher row
	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Teacher().Update(ctx, teacher); err != nil {
			return mapNotFound(err, ErrTeacherNotFound)
		}
		if !renamed {
			return nil
		}
		rows, err := tx.Evaluation().RenameTeacher(ctx, teacher.ID, teacher.Name)
		if err != nil {
			return fmt.Errorf("failed to rename teacher on evaluations: %w", err)
		}
		s.logger.Debug("Teacher renamed on evaluations", "teacher_id", teacher.ID, "evaluations", rows)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.TeacherChanged(ctx, events.EventTeacherUpdated, teacher)
	return teacher, nil
}

// Delete removes a teacher that has never been evaluated. Teachers with evaluations
// are deactivated instead so their reports stay intact.
func (s *teacherService) Delete(ctx context.Context, id string, actorID string) (err error) {
	done := s.opLogger.Track(ctx, "delete", actorID, "teacher", id)
	defer func() { done(err) }()

	teacher, err := s.repo.Teacher().GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, ErrTeacherNotFound)
	}

	count, err := s.repo.Evaluation().CountByTeacher(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count evaluations: %w", err)
	}
	if count > 0 {
		return NewBusinessRuleError("teacher_has_evaluations",
			"teacher has submitted evaluations; deactivate the teacher instead",
			map[string]interface{}{"teacher_id": id, "evaluation_count": count})
	}

	if err = s.repo.Teacher().Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrTeacherNotFound)
	}

	s.notifier.TeacherChanged(ctx, events.EventTeacherDeleted, teacher)
	return nil
}

func (s *teacherService) List(ctx context.Context, filters repositories.TeacherFilters) (*TeacherListResponse, error) {
	teachers, total, err := s.repo.Teacher().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}

	ids := make([]string, len(teachers))
	for i, t := range teachers {
		ids[i] = t.ID
	}
	counts, err := s.repo.Evaluation().CountByTeachers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count evaluations: %w", err)
	}
	for _, t := range teachers {
		t.EvaluationCount = counts[t.ID]
	}

	return &TeacherListResponse{
		Teachers: teachers,
		Total:    total,
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	}, nil
}
