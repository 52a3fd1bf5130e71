// Package seed loads a YAML catalog of teachers and questions into the database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
	"github.com/SAP-F-2025/evaluation-service/internal/validator"
	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Teachers  []TeacherEntry  `yaml:"teachers"`
	Questions []QuestionEntry `yaml:"questions"`
}

type TeacherEntry struct {
	Name       string `yaml:"name"`
	Department string `yaml:"department"`
	Email      string `yaml:"email"`
}

type QuestionEntry struct {
	Category     string `yaml:"category"`
	CategoryName string `yaml:"category_name"`
	Text         string `yaml:"text"`
	Order        int    `yaml:"order"`
}

// Result counts what Apply created and skipped
type Result struct {
	TeachersCreated  int
	TeachersSkipped  int
	QuestionsCreated int
	QuestionsSkipped bool
}

// Parse decodes a catalog, rejecting unknown keys
func Parse(r io.Reader) (*Catalog, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var catalog Catalog
	if err := decoder.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return &catalog, nil
		}
		return nil, fmt.Errorf("invalid seed catalog: %w", err)
	}
	return &catalog, nil
}

// Validate checks every question the way the importer does
func (c *Catalog) Validate(v *validator.Validator) error {
	for i, t := range c.Teachers {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("teachers[%d]: name is required", i)
		}
	}
	for i, q := range c.Questions {
		if errs := v.Question().ValidateQuestion(q.model()); len(errs) > 0 {
			return fmt.Errorf("questions[%d]: %w", i, errs)
		}
	}
	return nil
}

func (q QuestionEntry) model() *models.Question {
	return &models.Question{
		Category:     strings.TrimSpace(q.Category),
		CategoryName: models.StringPtr(strings.TrimSpace(q.CategoryName)),
		Text:         strings.TrimSpace(q.Text),
		Order:        q.Order,
		IsActive:     true,
	}
}

// Apply inserts teachers whose name is not taken yet. Questions are only
// inserted into an empty catalog so reruns don't duplicate the form.
func Apply(ctx context.Context, repo repositories.Repository, catalog *Catalog, logger *slog.Logger) (*Result, error) {
	result := &Result{}

	err := repo.Transaction(ctx, func(tx repositories.Repository) error {
		for _, entry := range catalog.Teachers {
			name := strings.TrimSpace(entry.Name)
			exists, err := tx.Teacher().ExistsByName(ctx, name, nil)
			if err != nil {
				return err
			}
			if exists {
				result.TeachersSkipped++
				continue
			}
			teacher := &models.Teacher{
				Name:       name,
				Department: strings.TrimSpace(entry.Department),
				Email:      models.StringPtr(strings.TrimSpace(entry.Email)),
			}
			if err := tx.Teacher().Create(ctx, teacher); err != nil {
				return fmt.Errorf("failed to create teacher %q: %w", name, err)
			}
			result.TeachersCreated++
		}

		if len(catalog.Questions) == 0 {
			return nil
		}
		_, total, err := tx.Question().List(ctx, repositories.QuestionFilters{Limit: 1})
		if err != nil {
			return err
		}
		if total > 0 {
			result.QuestionsSkipped = true
			return nil
		}

		questions := make([]*models.Question, 0, len(catalog.Questions))
		for _, entry := range catalog.Questions {
			questions = append(questions, entry.model())
		}
		if err := tx.Question().CreateBatch(ctx, questions); err != nil {
			return fmt.Errorf("failed to create questions: %w", err)
		}
		result.QuestionsCreated = len(questions)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Seed applied",
		"teachers_created", result.TeachersCreated,
		"teachers_skipped", result.TeachersSkipped,
		"questions_created", result.QuestionsCreated,
		"questions_skipped", result.QuestionsSkipped)
	return result, nil
}
