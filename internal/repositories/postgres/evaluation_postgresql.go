package postgres

import (
	"context"
	"strings"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"gorm.io/gorm"
)

type EvaluationPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewEvaluationPostgreSQL(db *gorm.DB) repositories.EvaluationRepository {
	return &EvaluationPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(),
	}
}

// Create inserts an evaluation; a second one for the same teacher/student pair is ErrDuplicate
func (e *EvaluationPostgreSQL) Create(ctx context.Context, evaluation *models.Evaluation) error {
	if err := e.db.WithContext(ctx).Create(evaluation).Error; err != nil {
		return translateError(err, "failed to create evaluation")
	}
	return nil
}

func (e *EvaluationPostgreSQL) GetByID(ctx context.Context, id string) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := e.db.WithContext(ctx).Where("id = ?", id).First(&evaluation).Error; err != nil {
		return nil, translateError(err, "failed to get evaluation %s", id)
	}
	return &evaluation, nil
}

func (e *EvaluationPostgreSQL) Delete(ctx context.Context, id string) error {
	result := e.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Evaluation{})
	if result.Error != nil {
		return translateError(result.Error, "failed to delete evaluation %s", id)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "failed to delete evaluation %s", id)
	}
	return nil
}

func (e *EvaluationPostgreSQL) ExistsForStudent(ctx context.Context, teacherID, studentID string) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).Model(&models.Evaluation{}).
		Where("teacher_id = ? AND student_id = ?", teacherID, studentID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, "failed to check existing evaluation")
	}
	return count > 0, nil
}

func (e *EvaluationPostgreSQL) ListByTeacher(ctx context.Context, teacherID string, filters repositories.EvaluationFilters) ([]*models.Evaluation, int64, error) {
	query := e.db.WithContext(ctx).Model(&models.Evaluation{}).Where("teacher_id = ?", teacherID)
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "failed to count evaluations")
	}

	direction := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		direction = "ASC"
	}

	var evaluations []*models.Evaluation
	err := query.
		Order("submitted_at " + direction).
		Order("id ASC").
		Limit(clampLimit(filters.Limit)).
		Offset(max(filters.Offset, 0)).
		Find(&evaluations).Error
	if err != nil {
		return nil, 0, translateError(err, "failed to list evaluations")
	}
	return evaluations, total, nil
}

func (e *EvaluationPostgreSQL) ListForReport(ctx context.Context, limit int) ([]*models.Evaluation, error) {
	return e.listForReport(e.db.WithContext(ctx), limit)
}

func (e *EvaluationPostgreSQL) ListForTeacherReport(ctx context.Context, teacherID string, limit int) ([]*models.Evaluation, error) {
	return e.listForReport(e.db.WithContext(ctx).Where("teacher_id = ?", teacherID), limit)
}

func (e *EvaluationPostgreSQL) listForReport(query *gorm.DB, limit int) ([]*models.Evaluation, error) {
	query = query.Order("submitted_at ASC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var evaluations []*models.Evaluation
	if err := query.Find(&evaluations).Error; err != nil {
		return nil, translateError(err, "failed to load evaluations for report")
	}
	return evaluations, nil
}

func (e *EvaluationPostgreSQL) RenameTeacher(ctx context.Context, teacherID, name string) (int64, error) {
	result := e.db.WithContext(ctx).Model(&models.Evaluation{}).
		Where("teacher_id = ? AND teacher_name <> ?", teacherID, name).
		Update("teacher_name", name)
	if result.Error != nil {
		return 0, translateError(result.Error, "failed to rename teacher %s on evaluations", teacherID)
	}
	return result.RowsAffected, nil
}

func (e *EvaluationPostgreSQL) CountByTeacher(ctx context.Context, teacherID string) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).Model(&models.Evaluation{}).
		Where("teacher_id = ?", teacherID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err, "failed to count evaluations for teacher %s", teacherID)
	}
	return count, nil
}

func (e *EvaluationPostgreSQL) CountByTeachers(ctx context.Context, teacherIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(teacherIDs))
	if len(teacherIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TeacherID string
		Total     int64
	}
	err := e.db.WithContext(ctx).Model(&models.Evaluation{}).
		Select("teacher_id, COUNT(*) AS total").
		Where("teacher_id IN ?", teacherIDs).
		Group("teacher_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err, "failed to count evaluations")
	}

	for _, row := range rows {
		counts[row.TeacherID] = row.Total
	}
	return counts, nil
}
