package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/aggregator"
	"github.com/SAP-F-2025/evaluation-service/internal/cache"
	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/evaluation-service/internal/validator"
	"golang.org/x/sync/errgroup"
)

const (
	SortByName   = "name"
	SortByRating = "rating"
)

type ReportConfig struct {
	CacheTTL time.Duration
	// MaxSubmissions bounds how many evaluations one report may load; <= 0 means unbounded
	MaxSubmissions int
}

type OverviewReport struct {
	Categories       []aggregator.Category         `json:"categories"`
	Teachers         []aggregator.TeacherAggregate `json:"teachers"`
	TotalEvaluations int                           `json:"total_evaluations"`
	GeneratedAt      time.Time                     `json:"generated_at"`
}

type Comment struct {
	Positive    *string   `json:"positive_comment,omitempty"`
	Improvement *string   `json:"improvement_comment,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type TeacherReport struct {
	Teacher     aggregator.TeacherAggregate  `json:"teacher"`
	Department  string                       `json:"department,omitempty"`
	Categories  []aggregator.Category        `json:"categories"`
	Questions   []aggregator.QuestionSummary `json:"questions"`
	Comments    []Comment                    `json:"comments"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

type reportService struct {
	repo      repositories.Repository
	cache     *cache.ReadThrough
	config    ReportConfig
	logger    *slog.Logger
	validator *validator.Validator
}

func NewReportService(repo repositories.Repository, readThrough *cache.ReadThrough, config ReportConfig, logger *slog.Logger, validator *validator.Validator) ReportService {
	if readThrough == nil {
		readThrough = cache.NewReadThrough(cache.NoopCache{}, logger)
	}
	return &reportService{
		repo:      repo,
		cache:     readThrough,
		config:    config,
		logger:    logger,
		validator: validator,
	}
}

// GetOverview aggregates every evaluated teacher. The unsorted report is cached;
// sorting happens per request.
func (s *reportService) GetOverview(ctx context.Context, sortKey string) (*OverviewReport, error) {
	if err := s.validator.Var(sortKey, "sort_key"); err != nil {
		return nil, NewValidationError("sort", "must be one of: name, rating", sortKey)
	}

	report, err := cache.CacheOrExecute(ctx, s.cache, cache.OverviewReportKey, s.config.CacheTTL, s.buildOverview)
	if err != nil {
		return nil, err
	}

	sorted := *report
	sorted.Teachers = append([]aggregator.TeacherAggregate(nil), report.Teachers...)
	SortAggregates(sorted.Teachers, sortKey)
	return &sorted, nil
}

func (s *reportService) buildOverview(ctx context.Context) (*OverviewReport, error) {
	var (
		catalog     []*models.Question
		evaluations []*models.Evaluation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = s.repo.Question().ListActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		evaluations, err = s.repo.Evaluation().ListForReport(gctx, s.fetchLimit())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load report data: %w", err)
	}
	if err := s.checkBound(len(evaluations)); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &OverviewReport{
		Categories:       aggregator.Categories(catalog),
		Teachers:         aggregator.Aggregate(catalog, evaluations),
		TotalEvaluations: len(evaluations),
		GeneratedAt:      time.Now().UTC(),
	}

	s.logger.Debug("Overview report built",
		"teachers", len(report.Teachers),
		"evaluations", len(evaluations),
		"duration", time.Since(start))

	return report, nil
}

func (s *reportService) GetTeacherReport(ctx context.Context, teacherID string) (*TeacherReport, error) {
	return cache.CacheOrExecute(ctx, s.cache, cache.TeacherReportKey(teacherID), s.config.CacheTTL,
		func(ctx context.Context) (*TeacherReport, error) {
			return s.buildTeacherReport(ctx, teacherID)
		})
}

func (s *reportService) buildTeacherReport(ctx context.Context, teacherID string) (*TeacherReport, error) {
	teacher, err := s.repo.Teacher().GetByID(ctx, teacherID)
	if err != nil {
		return nil, mapNotFound(err, ErrTeacherNotFound)
	}

	var (
		catalog     []*models.Question
		evaluations []*models.Evaluation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = s.repo.Question().ListActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		evaluations, err = s.repo.Evaluation().ListForTeacherReport(gctx, teacherID, s.fetchLimit())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load report data: %w", err)
	}
	if len(evaluations) == 0 {
		return nil, ErrNoEvaluations
	}
	if err := s.checkBound(len(evaluations)); err != nil {
		return nil, err
	}

	aggregates := aggregator.Aggregate(catalog, evaluations)
	if len(aggregates) != 1 {
		return nil, fmt.Errorf("expected one aggregate for teacher %s, got %d", teacherID, len(aggregates))
	}
	aggregate := aggregates[0]
	aggregate.TeacherName = teacher.Name

	return &TeacherReport{
		Teacher:     aggregate,
		Department:  teacher.Department,
		Categories:  aggregator.Categories(catalog),
		Questions:   aggregator.SummarizeAnswers(catalog, evaluations),
		Comments:    collectComments(evaluations),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (s *reportService) InvalidateReports(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx, cache.ReportKeyPattern, cache.OverviewReportKey); err != nil {
		return fmt.Errorf("failed to invalidate reports: %w", err)
	}
	s.logger.Debug("Report cache invalidated")
	return nil
}

func (s *reportService) HandleEvent(ctx context.Context, event *events.Event) error {
	s.logger.Debug("Invalidating reports after event", "event_type", event.Type, "event_id", event.ID)
	return s.InvalidateReports(ctx)
}

// fetchLimit asks for one row past the bound so an oversized report can be detected
func (s *reportService) fetchLimit() int {
	if s.config.MaxSubmissions <= 0 {
		return 0
	}
	return s.config.MaxSubmissions + 1
}

func (s *reportService) checkBound(n int) error {
	if s.config.MaxSubmissions > 0 && n > s.config.MaxSubmissions {
		s.logger.Warn("Report exceeds submission bound", "limit", s.config.MaxSubmissions)
		return ErrReportTooLarge
	}
	return nil
}

// collectComments returns the non-empty comments without identifying the student
func collectComments(evaluations []*models.Evaluation) []Comment {
	comments := make([]Comment, 0)
	for _, e := range evaluations {
		if e == nil || (e.PositiveComment == nil && e.ImprovementComment == nil) {
			continue
		}
		comments = append(comments, Comment{
			Positive:    e.PositiveComment,
			Improvement: e.ImprovementComment,
			SubmittedAt: e.SubmittedAt,
		})
	}
	return comments
}

// SortAggregates orders rows by teacher name (default) or by overall rating, highest first.
// Ties fall back to name, then teacher id.
func SortAggregates(rows []aggregator.TeacherAggregate, sortKey string) {
	byName := func(a, b aggregator.TeacherAggregate) bool {
		an, bn := strings.ToLower(a.TeacherName), strings.ToLower(b.TeacherName)
		if an != bn {
			return an < bn
		}
		return a.TeacherID < b.TeacherID
	}

	if sortKey == SortByRating {
		sort.SliceStable(rows, func(i, j int) bool {
			ri, rj := ratingValue(rows[i].OverallRating), ratingValue(rows[j].OverallRating)
			if ri != rj {
				return ri > rj
			}
			return byName(rows[i], rows[j])
		})
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return byName(rows[i], rows[j])
	})
}

func ratingValue(rating string) float64 {
	v, err := strconv.ParseFloat(rating, 64)
	if err != nil {
		return 0
	}
	return v
}
