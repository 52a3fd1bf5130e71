package repositories

import (
	"context"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// TeacherRepository interface for teacher operations
type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filters TeacherFilters) ([]*models.Teacher, int64, error)

	// ExistsByName reports whether another teacher already uses name (case-insensitive)
	ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error)
}
