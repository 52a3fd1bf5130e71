package aggregator

import (
	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// QuestionSummary is one row of a teacher's question-by-question matrix.
type QuestionSummary struct {
	QuestionID    string  `json:"question_id"`
	Text          string  `json:"text"`
	Category      string  `json:"category"`
	AnsweredCount int     `json:"answered_count"`
	TotalRating   int     `json:"total_rating"`
	AverageRating float64 `json:"average_rating"`
	Percentage    float64 `json:"percentage"`
}

// SummarizeAnswers computes per-question rating totals over the given evaluations, in
// catalog order. Ratings outside 1..MaxRating count as unanswered.
func SummarizeAnswers(questions []*models.Question, evaluations []*models.Evaluation) []QuestionSummary {
	rows := make([]QuestionSummary, 0, len(questions))
	index := make(map[string]int, len(questions))

	for _, q := range questions {
		if q == nil {
			continue
		}
		if _, dup := index[q.ID]; dup {
			continue
		}
		index[q.ID] = len(rows)
		rows = append(rows, QuestionSummary{
			QuestionID: q.ID,
			Text:       q.Text,
			Category:   q.Category,
		})
	}

	for _, e := range evaluations {
		if e == nil {
			continue
		}
		for questionID, rating := range e.Answers.Data() {
			i, ok := index[questionID]
			if !ok || !ValidRating(rating) {
				continue
			}
			rows[i].AnsweredCount++
			rows[i].TotalRating += rating
		}
	}

	for i := range rows {
		if rows[i].AnsweredCount == 0 {
			continue
		}
		rows[i].AverageRating = Round2(float64(rows[i].TotalRating) / float64(rows[i].AnsweredCount))
		rows[i].Percentage = Percentage(float64(rows[i].TotalRating), float64(rows[i].AnsweredCount*models.MaxRating))
	}
	return rows
}

// DeriveCategoryRatings folds raw answers into per-category {score, max} pairs: score is
// the sum of ratings, max is MaxRating per answered question. Answers to unknown
// questions and out-of-range ratings are skipped.
func DeriveCategoryRatings(questions []*models.Question, answers models.Answers) models.CategoryRatings {
	categoryOf := make(map[string]string, len(questions))
	for _, q := range questions {
		if q != nil {
			categoryOf[q.ID] = q.Category
		}
	}

	ratings := make(models.CategoryRatings)
	for questionID, rating := range answers {
		category, ok := categoryOf[questionID]
		if !ok || !ValidRating(rating) {
			continue
		}
		ratings[category] = ratings[category].Add(models.CategoryScore{
			Score: float64(rating),
			Max:   models.MaxRating,
		})
	}
	return ratings
}

func ValidRating(rating int) bool {
	return rating >= 1 && rating <= models.MaxRating
}
