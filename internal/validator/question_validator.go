package validator

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/SAP-F-2025/evaluation-service/internal/errors"
	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// QuestionValidator handles catalog-aware validation of questions and answer sets
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion checks the fields a question must carry before it is stored
func (v *QuestionValidator) ValidateQuestion(question *models.Question) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	if strings.TrimSpace(question.Text) == "" {
		errs = append(errs, apperrors.ValidationError{Field: "text", Message: "is required", Rule: "required"})
	}
	if !categoryCodePattern.MatchString(question.Category) {
		errs = append(errs, apperrors.ValidationError{
			Field:   "category",
			Message: "must be 1-50 letters, digits, '-' or '_'",
			Value:   question.Category,
			Rule:    "category_code",
		})
	}
	if question.Order < 0 {
		errs = append(errs, apperrors.ValidationError{Field: "order", Message: "must be at least 0", Value: question.Order, Rule: "min"})
	}

	return errs
}

// ValidateAnswers checks an answer set against the active catalog: every key must be an
// active question and every rating must be within 1..MaxRating. At least one answer is required.
func (v *QuestionValidator) ValidateAnswers(catalog []*models.Question, answers models.Answers) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	if len(answers) == 0 {
		return append(errs, apperrors.ValidationError{Field: "answers", Message: "must contain at least one rating", Rule: "required"})
	}

	active := make(map[string]struct{}, len(catalog))
	for _, q := range catalog {
		if q != nil {
			active[q.ID] = struct{}{}
		}
	}

	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		field := fmt.Sprintf("answers[%s]", id)
		if _, ok := active[id]; !ok {
			errs = append(errs, apperrors.ValidationError{Field: field, Message: "is not an active question", Value: id, Rule: "active_question"})
			continue
		}
		if rating := answers[id]; rating < 1 || rating > models.MaxRating {
			errs = append(errs, apperrors.ValidationError{Field: field, Message: "must be a rating between 1 and 5", Value: rating, Rule: "rating"})
		}
	}

	return errs
}
