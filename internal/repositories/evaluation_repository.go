package repositories

import (
	"context"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// EvaluationRepository interface for submitted evaluations
type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *models.Evaluation) error
	GetByID(ctx context.Context, id string) (*models.Evaluation, error)
	Delete(ctx context.Context, id string) error

	ExistsForStudent(ctx context.Context, teacherID, studentID string) (bool, error)
	ListByTeacher(ctx context.Context, teacherID string, filters EvaluationFilters) ([]*models.Evaluation, int64, error)

	// ListForReport returns at most limit evaluations in submission order; limit <= 0 means no bound
	ListForReport(ctx context.Context, limit int) ([]*models.Evaluation, error)
	// ListForTeacherReport is ListForReport restricted to one teacher
	ListForTeacherReport(ctx context.Context, teacherID string, limit int) ([]*models.Evaluation, error)

	// RenameTeacher rewrites the teacher name stored on every evaluation of teacherID
	RenameTeacher(ctx context.Context, teacherID, name string) (int64, error)

	CountByTeacher(ctx context.Context, teacherID string) (int64, error)
	CountByTeachers(ctx context.Context, teacherIDs []string) (map[string]int64, error)
}
