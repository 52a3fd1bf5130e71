package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/cache"
	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTeacherService(f *serviceFixture) TeacherService {
	return NewTeacherService(f.repo, f.notifier, f.logger, f.validator)
}

func TestTeacherService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.teachers.On("ExistsByName", mock.Anything, "Grace Hopper", (*string)(nil)).Return(false, nil)
		f.repo.teachers.On("Create", mock.Anything, mock.MatchedBy(func(teacher *models.Teacher) bool {
			return teacher.Name == "Grace Hopper" && teacher.Department == "Computing"
		})).Return(nil)

		teacher, err := newTeacherService(f).Create(ctx, &CreateTeacherRequest{Name: " Grace Hopper ", Department: "Computing "}, "admin")
		require.NoError(t, err)
		assert.NotEmpty(t, teacher.ID)
		f.repo.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.teachers.On("ExistsByName", mock.Anything, "Grace Hopper", (*string)(nil)).Return(true, nil)

		_, err := newTeacherService(f).Create(ctx, &CreateTeacherRequest{Name: "Grace Hopper"}, "admin")
		assert.ErrorIs(t, err, ErrTeacherDuplicateName)
		assert.True(t, IsConflict(err))
	})

	t.Run("invalid email", func(t *testing.T) {
		f := newServiceFixture()
		email := "not-an-email"
		_, err := newTeacherService(f).Create(ctx, &CreateTeacherRequest{Name: "Grace", Email: &email}, "admin")
		assert.True(t, IsValidation(err))
	})
}

func TestTeacherService_Update(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	service := newTeacherService(f)

	f.repo.teachers.On("GetByID", mock.Anything, "t1").Return(activeTeacher(), nil)
	f.repo.teachers.On("Update", mock.Anything, mock.MatchedBy(func(teacher *models.Teacher) bool {
		return !teacher.IsActive && teacher.Name == "Ada Lovelace"
	})).Return(nil)
	f.repo.teachers.On("GetByID", mock.Anything, "missing").Return(nil, repositories.ErrNotFound)

	inactive := false
	teacher, err := service.Update(ctx, "t1", &UpdateTeacherRequest{IsActive: &inactive}, "admin")
	require.NoError(t, err)
	assert.False(t, teacher.IsActive)
	assert.Equal(t, []events.EventType{events.EventTeacherUpdated}, f.publisher.EventTypes())

	_, err = service.Update(ctx, "missing", &UpdateTeacherRequest{IsActive: &inactive}, "admin")
	assert.ErrorIs(t, err, ErrTeacherNotFound)
	f.repo.evaluations.AssertNotCalled(t, "RenameTeacher", mock.Anything, mock.Anything, mock.Anything)
}

func TestTeacherService_Update_RenameRewritesEvaluations(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	id := "t1"
	name := "Ada King"
	f.repo.teachers.On("GetByID", mock.Anything, id).Return(activeTeacher(), nil)
	f.repo.teachers.On("ExistsByName", mock.Anything, name, &id).Return(false, nil)
	f.repo.teachers.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.repo.evaluations.On("RenameTeacher", mock.Anything, id, name).Return(int64(4), nil)

	teacher, err := newTeacherService(f).Update(ctx, id, &UpdateTeacherRequest{Name: &name}, "admin")
	require.NoError(t, err)
	assert.Equal(t, name, teacher.Name)
	f.repo.AssertExpectations(t)
}

func TestTeacherService_RenameShowsInOverview(t *testing.T) {
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	repo := postgres.NewRepository(db)
	f := newServiceFixture()
	require.NoError(t, repo.Question().CreateBatch(ctx, []*models.Question{
		{Category: "A", Text: "Explains clearly", IsActive: true},
	}))
	catalog, err := repo.Question().ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 1)

	teachers := NewTeacherService(repo, f.notifier, f.logger, f.validator)
	evaluations := NewEvaluationService(repo, f.notifier, f.logger, f.validator)
	memory := cache.NewMemoryCache()
	reports := NewReportService(repo, cache.NewReadThrough(memory, f.logger),
		ReportConfig{CacheTTL: time.Minute}, f.logger, f.validator)

	teacher, err := teachers.Create(ctx, &CreateTeacherRequest{Name: "Ada Lovelace"}, "admin")
	require.NoError(t, err)
	_, err = evaluations.Submit(ctx, "s1", &SubmitEvaluationRequest{
		TeacherID: teacher.ID,
		Answers:   models.Answers{catalog[0].ID: 4},
	})
	require.NoError(t, err)

	overview, err := reports.GetOverview(ctx, "")
	require.NoError(t, err)
	require.Len(t, overview.Teachers, 1)
	assert.Equal(t, "Ada Lovelace", overview.Teachers[0].TeacherName)

	name := "Ada King"
	_, err = teachers.Update(ctx, teacher.ID, &UpdateTeacherRequest{Name: &name}, "admin")
	require.NoError(t, err)
	require.NoError(t, reports.InvalidateReports(ctx))

	overview, err = reports.GetOverview(ctx, "")
	require.NoError(t, err)
	require.Len(t, overview.Teachers, 1)
	assert.Equal(t, name, overview.Teachers[0].TeacherName)

	report, err := reports.GetTeacherReport(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, overview.Teachers[0].TeacherName, report.Teacher.TeacherName)
}

func TestTeacherService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("has evaluations", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.teachers.On("GetByID", mock.Anything, "t1").Return(activeTeacher(), nil)
		f.repo.evaluations.On("CountByTeacher", mock.Anything, "t1").Return(int64(3), nil)

		err := newTeacherService(f).Delete(ctx, "t1", "admin")
		assert.True(t, IsBusinessRule(err))
		f.repo.teachers.AssertNotCalled(t, "Delete", mock.Anything, "t1")
	})

	t.Run("never evaluated", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.teachers.On("GetByID", mock.Anything, "t1").Return(activeTeacher(), nil)
		f.repo.evaluations.On("CountByTeacher", mock.Anything, "t1").Return(int64(0), nil)
		f.repo.teachers.On("Delete", mock.Anything, "t1").Return(nil)

		require.NoError(t, newTeacherService(f).Delete(ctx, "t1", "admin"))
		assert.Equal(t, []events.EventType{events.EventTeacherDeleted}, f.publisher.EventTypes())
	})
}

func TestTeacherService_List(t *testing.T) {
	f := newServiceFixture()
	filters := repositories.TeacherFilters{Limit: 20}
	f.repo.teachers.On("List", mock.Anything, filters).Return([]*models.Teacher{{ID: "t1"}, {ID: "t2"}}, int64(2), nil)
	f.repo.evaluations.On("CountByTeachers", mock.Anything, []string{"t1", "t2"}).Return(map[string]int64{"t1": 4}, nil)

	resp, err := newTeacherService(f).List(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Teachers[0].EvaluationCount)
	assert.Equal(t, int64(0), resp.Teachers[1].EvaluationCount)
}
