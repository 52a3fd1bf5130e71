package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"gorm.io/gorm"
)

const questionBatchSize = 100

var questionSortColumns = map[string]string{
	"order":      "sort_order",
	"category":   "category",
	"created_at": "created_at",
}

type QuestionPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(),
	}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	// is_active has a database default, so an explicit false must be written after insert
	active := question.IsActive
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return translateError(err, "failed to create question")
		}
		if !active {
			if err := tx.Model(question).Update("is_active", false).Error; err != nil {
				return translateError(err, "failed to create question")
			}
		}
		return nil
	})
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, translateError(err, "failed to get question %s", id)
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	question.UpdatedAt = time.Now()
	result := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", question.ID).
		Select("category", "category_name", "text", "sort_order", "is_active", "updated_at").
		Updates(question)
	if result.Error != nil {
		return translateError(result.Error, "failed to update question %s", question.ID)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "failed to update question %s", question.ID)
	}
	return nil
}

// Delete soft deletes a question; stored answers referencing it are kept
func (q *QuestionPostgreSQL) Delete(ctx context.Context, id string) error {
	result := q.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Question{})
	if result.Error != nil {
		return translateError(result.Error, "failed to delete question %s", id)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "failed to delete question %s", id)
	}
	return nil
}

func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	for _, question := range questions {
		question.IsActive = true
	}
	if err := q.db.WithContext(ctx).CreateInBatches(questions, questionBatchSize).Error; err != nil {
		return translateError(err, "failed to create %d questions", len(questions))
	}
	return nil
}

func (q *QuestionPostgreSQL) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	query := q.db.WithContext(ctx).Model(&models.Question{})

	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if strings.TrimSpace(filters.Search) != "" {
		query = query.Where("LOWER(text) LIKE ? ESCAPE '\\'", q.helpers.ContainsPattern(filters.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "failed to count questions")
	}

	query = q.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, questionSortColumns, "order", filters.Limit, filters.Offset)
	if filters.SortBy == "" || filters.SortBy == "order" {
		query = query.Order("created_at ASC")
	}

	var questions []*models.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, translateError(err, "failed to list questions")
	}
	return questions, total, nil
}

func (q *QuestionPostgreSQL) ListActive(ctx context.Context) ([]*models.Question, error) {
	var questions []*models.Question
	err := q.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&questions).Error
	if err != nil {
		return nil, translateError(err, "failed to list active questions")
	}
	return questions, nil
}
