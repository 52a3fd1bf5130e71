package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func newEvaluation(teacher *models.Teacher, studentID string, submittedAt time.Time) *models.Evaluation {
	return &models.Evaluation{
		TeacherID:   teacher.ID,
		TeacherName: teacher.Name,
		StudentID:   studentID,
		Answers:     datatypes.NewJSONType(models.Answers{"q1": 4}),
		CategoryRatings: datatypes.NewJSONType(models.CategoryRatings{
			"A": {Score: 4, Max: 5},
		}),
		SubmittedAt: submittedAt,
	}
}

func TestTeacherRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewTeacherPostgreSQL(setupTestDB(t))

	teacher := &models.Teacher{Name: "Ada Lovelace", Department: "Math"}
	require.NoError(t, repo.Create(ctx, teacher))
	require.NotEmpty(t, teacher.ID)
	assert.True(t, teacher.IsActive)

	got, err := repo.GetByID(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)

	got.IsActive = false
	got.Department = "Computing"
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.GetByID(ctx, teacher.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, "Computing", reloaded.Department)

	exists, err := repo.ExistsByName(ctx, "ada lovelace", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "Ada Lovelace", &teacher.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Delete(ctx, teacher.ID))
	_, err = repo.GetByID(ctx, teacher.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, teacher.ID), repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &models.Teacher{ID: "missing", Name: "x"}), repositories.ErrNotFound)
}

func TestTeacherRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewTeacherPostgreSQL(setupTestDB(t))

	for _, name := range []string{"Carol", "alice", "Bob"} {
		require.NoError(t, repo.Create(ctx, &models.Teacher{Name: name, Department: "Science"}))
	}
	require.NoError(t, repo.Create(ctx, &models.Teacher{Name: "Dan", Department: "Arts"}))

	dept := "Science"
	teachers, total, err := repo.List(ctx, repositories.TeacherFilters{Department: &dept, SortBy: "name"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, teachers, 3)
	assert.Equal(t, "Bob", teachers[0].Name)

	teachers, total, err = repo.List(ctx, repositories.TeacherFilters{Search: "AL"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "alice", teachers[0].Name)

	teachers, total, err = repo.List(ctx, repositories.TeacherFilters{Limit: 2, Offset: 2, SortBy: "bogus; DROP TABLE teachers"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, teachers, 2)
}

func TestQuestionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewQuestionPostgreSQL(setupTestDB(t))

	require.NoError(t, repo.CreateBatch(ctx, []*models.Question{
		{Category: "B", Text: "Second", Order: 2},
		{Category: "A", Text: "First", Order: 1, CategoryName: models.StringPtr("Alpha")},
	}))

	inactive := &models.Question{Category: "A", Text: "Retired", Order: 0, IsActive: false}
	require.NoError(t, repo.Create(ctx, inactive))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "First", active[0].Text)
	assert.Equal(t, "Alpha", active[0].DisplayCategory())

	cat := "A"
	list, total, err := repo.List(ctx, repositories.QuestionFilters{Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	first := active[0]
	first.Text = "First, reworded"
	first.IsActive = false
	require.NoError(t, repo.Update(ctx, first))

	active, err = repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Second", active[0].Text)

	require.NoError(t, repo.Delete(ctx, active[0].ID))
	_, err = repo.GetByID(ctx, active[0].ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestEvaluationRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	teachers := NewTeacherPostgreSQL(db)
	repo := NewEvaluationPostgreSQL(db)

	ada := &models.Teacher{Name: "Ada"}
	bob := &models.Teacher{Name: "Bob"}
	require.NoError(t, teachers.Create(ctx, ada))
	require.NoError(t, teachers.Create(ctx, bob))

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newEvaluation(ada, "s1", base)))
	require.NoError(t, repo.Create(ctx, newEvaluation(ada, "s2", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newEvaluation(bob, "s1", base.Add(2*time.Hour))))

	err := repo.Create(ctx, newEvaluation(ada, "s1", base))
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	exists, err := repo.ExistsForStudent(ctx, ada.ID, "s2")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsForStudent(ctx, bob.ID, "s2")
	require.NoError(t, err)
	assert.False(t, exists)

	list, total, err := repo.ListByTeacher(ctx, ada.ID, repositories.EvaluationFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].StudentID)
	assert.Equal(t, models.Answers{"q1": 4}, list[0].Answers.Data())
	assert.Equal(t, 4.0, list[0].CategoryRatings.Data()["A"].Score)

	report, err := repo.ListForReport(ctx, 0)
	require.NoError(t, err)
	require.Len(t, report, 3)
	assert.Equal(t, "s1", report[0].StudentID)
	assert.Equal(t, ada.ID, report[0].TeacherID)

	report, err = repo.ListForReport(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, report, 2)

	report, err = repo.ListForTeacherReport(ctx, bob.ID, 0)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, bob.ID, report[0].TeacherID)

	count, err := repo.CountByTeacher(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	counts, err := repo.CountByTeachers(ctx, []string{ada.ID, bob.ID, "nobody"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{ada.ID: 2, bob.ID: 1}, counts)

	renamed, err := repo.RenameTeacher(ctx, ada.ID, "Ada King")
	require.NoError(t, err)
	assert.Equal(t, int64(2), renamed)
	report, err = repo.ListForTeacherReport(ctx, ada.ID, 0)
	require.NoError(t, err)
	for _, e := range report {
		assert.Equal(t, "Ada King", e.TeacherName)
	}
	report, err = repo.ListForTeacherReport(ctx, bob.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Bob", report[0].TeacherName)

	require.NoError(t, repo.Delete(ctx, list[0].ID))
	_, err = repo.GetByID(ctx, list[0].ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRepository_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))
	boom := errors.New("abort")

	err := repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Question().CreateBatch(ctx, []*models.Question{{Category: "A", Text: "Kept?"}}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	active, err := repo.Question().ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, repo.Transaction(ctx, func(tx repositories.Repository) error {
		return tx.Question().CreateBatch(ctx, []*models.Question{{Category: "A", Text: "Committed"}})
	}))
	active, err = repo.Question().ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
