// Package aggregator turns stored evaluations into per-teacher report figures.
//
// Everything here is a pure function over already-fetched rows: no I/O, no shared state,
// safe to call from any number of goroutines.
package aggregator

import (
	"fmt"
	"math"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
)

// ZeroRating is the overall rating reported when no score was possible.
const ZeroRating = "0.00"

// Category is a distinct question category, in catalog order.
type Category struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
}

// TeacherAggregate is the derived report row for one evaluated teacher.
type TeacherAggregate struct {
	TeacherID            string                          `json:"teacher_id"`
	TeacherName          string                          `json:"teacher_name"`
	TotalRespondents     int                             `json:"total_respondents"`
	CategoryTotals       map[string]models.CategoryScore `json:"category_totals"`
	AccumulatedScore     float64                         `json:"accumulated_score"`
	HighestPossibleScore int                             `json:"highest_possible_score"`
	OverallRating        string                          `json:"overall_rating"`
	CategoryBreakdown    map[string]float64              `json:"category_breakdown"`
}

// Categories returns the distinct categories of the catalog. The first non-empty
// category name seen for a code wins.
func Categories(questions []*models.Question) []Category {
	index := make(map[string]int)
	categories := make([]Category, 0)

	for _, q := range questions {
		if q == nil {
			continue
		}
		i, ok := index[q.Category]
		if !ok {
			index[q.Category] = len(categories)
			categories = append(categories, Category{Code: q.Category})
			i = len(categories) - 1
		}
		categories[i].QuestionCount++
		if categories[i].Name == "" && q.CategoryName != nil {
			categories[i].Name = *q.CategoryName
		}
	}

	for i := range categories {
		if categories[i].Name == "" {
			categories[i].Name = categories[i].Code
		}
	}
	return categories
}

// Aggregate builds one TeacherAggregate per teacher referenced by at least one evaluation.
// The output order is unspecified.
func Aggregate(questions []*models.Question, evaluations []*models.Evaluation) []TeacherAggregate {
	categories := Categories(questions)
	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[c.Code] = struct{}{}
	}

	questionCount := 0
	for _, q := range questions {
		if q != nil {
			questionCount++
		}
	}

	groups := make(map[string]*TeacherAggregate)
	order := make([]string, 0)

	for _, e := range evaluations {
		if e == nil {
			continue
		}

		agg, ok := groups[e.TeacherID]
		if !ok {
			agg = &TeacherAggregate{
				TeacherID:      e.TeacherID,
				CategoryTotals: make(map[string]models.CategoryScore),
			}
			groups[e.TeacherID] = agg
			order = append(order, e.TeacherID)
		}
		if agg.TeacherName == "" {
			agg.TeacherName = e.TeacherName
		}
		agg.TotalRespondents++

		for code, score := range e.CategoryRatings.Data() {
			if _, ok := known[code]; !ok {
				continue
			}
			score = models.CategoryScore{
				Score: models.Finite(score.Score),
				Max:   models.Finite(score.Max),
			}
			agg.CategoryTotals[code] = agg.CategoryTotals[code].Add(score)
		}
	}

	out := make([]TeacherAggregate, 0, len(groups))
	for _, teacherID := range order {
		agg := groups[teacherID]

		agg.CategoryBreakdown = make(map[string]float64, len(categories))
		for _, c := range categories {
			total := agg.CategoryTotals[c.Code]
			agg.AccumulatedScore += total.Score
			agg.CategoryBreakdown[c.Code] = Percentage(total.Score, total.Max)
		}

		agg.HighestPossibleScore = HighestPossibleScore(questionCount, agg.TotalRespondents)
		agg.OverallRating = OverallRating(agg.AccumulatedScore, agg.HighestPossibleScore)
		out = append(out, *agg)
	}
	return out
}

// HighestPossibleScore is questions × respondents × the rating ceiling.
func HighestPossibleScore(questionCount, respondents int) int {
	return questionCount * respondents * models.MaxRating
}

// OverallRating formats accumulated/highest as a two-decimal percentage.
func OverallRating(accumulated float64, highest int) string {
	if highest <= 0 {
		return ZeroRating
	}
	return fmt.Sprintf("%.2f", Round2(accumulated/float64(highest)*100))
}

// Percentage returns score/max as a percentage rounded to two decimals, or 0 when max is not positive.
func Percentage(score, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return Round2(models.Finite(score / max * 100))
}

func Round2(f float64) float64 {
	return math.Round(models.Finite(f)*100) / 100
}
