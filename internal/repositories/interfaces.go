package repositories

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the requested row does not exist (or is soft deleted)
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated
	ErrDuplicate = errors.New("duplicate record")
)

// ===== SHARED FILTER STRUCTS =====

type TeacherFilters struct {
	Department *string `json:"department"`
	IsActive   *bool   `json:"is_active"`
	Search     string  `json:"search"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	SortBy     string  `json:"sort_by"`    // "name", "department", "created_at"
	SortOrder  string  `json:"sort_order"` // "asc", "desc"
}

type QuestionFilters struct {
	Category  *string `json:"category"`
	IsActive  *bool   `json:"is_active"`
	Search    string  `json:"search"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`    // "order", "category", "created_at"
	SortOrder string  `json:"sort_order"` // "asc", "desc"
}

type EvaluationFilters struct {
	StudentID *string `json:"student_id"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortOrder string  `json:"sort_order"` // by submitted_at; "asc", "desc"
}

// Repository aggregates every repository and runs units of work
type Repository interface {
	Teacher() TeacherRepository
	Question() QuestionRepository
	Evaluation() EvaluationRepository

	// Transaction runs fn against a repository bound to one database transaction.
	// Returning an error from fn rolls the transaction back.
	Transaction(ctx context.Context, fn func(repo Repository) error) error
}
