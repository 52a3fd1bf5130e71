package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"gorm.io/gorm"
)

var teacherSortColumns = map[string]string{
	"name":       "name",
	"department": "department",
	"created_at": "created_at",
}

type TeacherPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewTeacherPostgreSQL(db *gorm.DB) repositories.TeacherRepository {
	return &TeacherPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(),
	}
}

// Create inserts a teacher; a new teacher is always active
func (t *TeacherPostgreSQL) Create(ctx context.Context, teacher *models.Teacher) error {
	teacher.IsActive = true
	if err := t.db.WithContext(ctx).Create(teacher).Error; err != nil {
		return translateError(err, "failed to create teacher")
	}
	return nil
}

func (t *TeacherPostgreSQL) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := t.db.WithContext(ctx).Where("id = ?", id).First(&teacher).Error; err != nil {
		return nil, translateError(err, "failed to get teacher %s", id)
	}
	return &teacher, nil
}

// Update writes every column, so is_active=false is persisted
func (t *TeacherPostgreSQL) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now()
	result := t.db.WithContext(ctx).
		Model(&models.Teacher{}).
		Where("id = ?", teacher.ID).
		Select("name", "department", "email", "is_active", "updated_at").
		Updates(teacher)
	if result.Error != nil {
		return translateError(result.Error, "failed to update teacher %s", teacher.ID)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "failed to update teacher %s", teacher.ID)
	}
	return nil
}

// Delete soft deletes a teacher
func (t *TeacherPostgreSQL) Delete(ctx context.Context, id string) error {
	result := t.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Teacher{})
	if result.Error != nil {
		return translateError(result.Error, "failed to delete teacher %s", id)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "failed to delete teacher %s", id)
	}
	return nil
}

// List retrieves teachers with filters and pagination
func (t *TeacherPostgreSQL) List(ctx context.Context, filters repositories.TeacherFilters) ([]*models.Teacher, int64, error) {
	query := t.db.WithContext(ctx).Model(&models.Teacher{})

	if filters.Department != nil {
		query = query.Where("department = ?", *filters.Department)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if strings.TrimSpace(filters.Search) != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", t.helpers.ContainsPattern(filters.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "failed to count teachers")
	}

	query = t.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, teacherSortColumns, "name", filters.Limit, filters.Offset)

	var teachers []*models.Teacher
	if err := query.Find(&teachers).Error; err != nil {
		return nil, 0, translateError(err, "failed to list teachers")
	}
	return teachers, total, nil
}

func (t *TeacherPostgreSQL) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	query := t.db.WithContext(ctx).Model(&models.Teacher{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, translateError(err, "failed to check teacher name")
	}
	return count > 0, nil
}
