package postgres

import (
	"context"

	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db         *gorm.DB
	teacher    repositories.TeacherRepository
	question   repositories.QuestionRepository
	evaluation repositories.EvaluationRepository
}

// NewRepository wires the gorm-backed repositories around one connection
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:         db,
		teacher:    NewTeacherPostgreSQL(db),
		question:   NewQuestionPostgreSQL(db),
		evaluation: NewEvaluationPostgreSQL(db),
	}
}

func (r *repository) Teacher() repositories.TeacherRepository {
	return r.teacher
}

func (r *repository) Question() repositories.QuestionRepository {
	return r.question
}

func (r *repository) Evaluation() repositories.EvaluationRepository {
	return r.evaluation
}

func (r *repository) Transaction(ctx context.Context, fn func(repo repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
