package repositories

import (
	"context"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// QuestionRepository interface for question catalog operations
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id string) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id string) error

	// Bulk operations
	CreateBatch(ctx context.Context, questions []*models.Question) error

	// Query operations
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	// ListActive returns the live catalog ordered by order, then creation time
	ListActive(ctx context.Context) ([]*models.Question, error)
}
