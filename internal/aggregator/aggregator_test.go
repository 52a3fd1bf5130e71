package aggregator

import (
	"encoding/json"
	"math"
	"sort"
	"testing"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func strPtr(s string) *string { return &s }

func question(id, category string, name *string) *models.Question {
	return &models.Question{ID: id, Category: category, CategoryName: name, Text: "Question " + id, IsActive: true}
}

// catalog has two questions in A and three in B.
func catalog() []*models.Question {
	return []*models.Question{
		question("q1", "A", strPtr("Teaching Effectiveness")),
		question("q2", "A", nil),
		question("q3", "B", strPtr("Classroom Management")),
		question("q4", "B", nil),
		question("q5", "B", nil),
	}
}

func evaluation(teacherID, studentID string, ratings models.CategoryRatings) *models.Evaluation {
	return &models.Evaluation{
		TeacherID:       teacherID,
		TeacherName:     "Teacher " + teacherID,
		StudentID:       studentID,
		CategoryRatings: datatypes.NewJSONType(ratings),
	}
}

func byTeacher(aggs []TeacherAggregate) map[string]TeacherAggregate {
	out := make(map[string]TeacherAggregate, len(aggs))
	for _, a := range aggs {
		out[a.TeacherID] = a
	}
	return out
}

func TestAggregate_TwoRespondents(t *testing.T) {
	ratings := models.CategoryRatings{
		"A": {Score: 8, Max: 10},
		"B": {Score: 12, Max: 15},
	}
	evals := []*models.Evaluation{
		evaluation("t1", "s1", ratings),
		evaluation("t1", "s2", ratings),
	}

	result := Aggregate(catalog(), evals)

	require.Len(t, result, 1)
	agg := result[0]
	assert.Equal(t, "t1", agg.TeacherID)
	assert.Equal(t, "Teacher t1", agg.TeacherName)
	assert.Equal(t, 2, agg.TotalRespondents)
	assert.Equal(t, 40.0, agg.AccumulatedScore)
	assert.Equal(t, 50, agg.HighestPossibleScore)
	assert.Equal(t, "80.00", agg.OverallRating)
	assert.Equal(t, models.CategoryScore{Score: 16, Max: 20}, agg.CategoryTotals["A"])
	assert.Equal(t, models.CategoryScore{Score: 24, Max: 30}, agg.CategoryTotals["B"])
	assert.Equal(t, 80.0, agg.CategoryBreakdown["A"])
	assert.Equal(t, 80.0, agg.CategoryBreakdown["B"])
}

func TestAggregate_OmittedCategoryContributesZero(t *testing.T) {
	evals := []*models.Evaluation{
		evaluation("t1", "s1", models.CategoryRatings{"A": {Score: 10, Max: 10}}),
	}

	result := Aggregate(catalog(), evals)

	require.Len(t, result, 1)
	agg := result[0]
	assert.Equal(t, 1, agg.TotalRespondents)
	assert.Equal(t, 10.0, agg.AccumulatedScore)
	assert.Equal(t, 25, agg.HighestPossibleScore)
	assert.Equal(t, "40.00", agg.OverallRating)
	assert.Equal(t, 100.0, agg.CategoryBreakdown["A"])
	assert.Equal(t, 0.0, agg.CategoryBreakdown["B"])
}

func TestAggregate_EmptySubmissions(t *testing.T) {
	assert.Empty(t, Aggregate(catalog(), nil))
	assert.Empty(t, Aggregate(nil, nil))
	assert.Empty(t, Aggregate(catalog(), []*models.Evaluation{}))
}

func TestAggregate_EmptyCatalogYieldsZeroSentinel(t *testing.T) {
	evals := []*models.Evaluation{
		evaluation("t1", "s1", models.CategoryRatings{"A": {Score: 10, Max: 10}}),
	}

	result := Aggregate(nil, evals)

	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].TotalRespondents)
	assert.Equal(t, 0, result[0].HighestPossibleScore)
	assert.Equal(t, ZeroRating, result[0].OverallRating)
	assert.Equal(t, 0.0, result[0].AccumulatedScore)
}

func TestAggregate_UnknownCategoryIgnored(t *testing.T) {
	evals := []*models.Evaluation{
		evaluation("t1", "s1", models.CategoryRatings{
			"A": {Score: 5, Max: 10},
			"Z": {Score: 100, Max: 100},
		}),
	}

	agg := Aggregate(catalog(), evals)[0]

	assert.Equal(t, 5.0, agg.AccumulatedScore)
	assert.NotContains(t, agg.CategoryTotals, "Z")
	assert.NotContains(t, agg.CategoryBreakdown, "Z")
}

func TestAggregate_RespondentCountedWithoutCatalogOverlap(t *testing.T) {
	evals := []*models.Evaluation{
		evaluation("t1", "s1", models.CategoryRatings{"A": {Score: 10, Max: 10}}),
		evaluation("t1", "s2", models.CategoryRatings{"OLD": {Score: 9, Max: 10}}),
		evaluation("t1", "s3", nil),
	}

	agg := Aggregate(catalog(), evals)[0]

	assert.Equal(t, 3, agg.TotalRespondents)
	assert.Equal(t, 75, agg.HighestPossibleScore)
	assert.Equal(t, 10.0, agg.AccumulatedScore)
	assert.Equal(t, "13.33", agg.OverallRating)
}

func TestAggregate_NonFiniteScoresTreatedAsZero(t *testing.T) {
	evals := []*models.Evaluation{
		evaluation("t1", "s1", models.CategoryRatings{
			"A": {Score: math.NaN(), Max: 10},
			"B": {Score: 15, Max: math.Inf(1)},
		}),
	}

	agg := Aggregate(catalog(), evals)[0]

	assert.Equal(t, 15.0, agg.AccumulatedScore)
	assert.Equal(t, "60.00", agg.OverallRating)
	assert.Equal(t, 0.0, agg.CategoryBreakdown["A"])
	assert.Equal(t, 0.0, agg.CategoryBreakdown["B"])
}

func TestAggregate_MalformedStoredRatingsTreatedAsZero(t *testing.T) {
	var ratings models.CategoryRatings
	require.NoError(t, json.Unmarshal([]byte(`{"A":{"score":"abc","max":10},"B":{"score":"12","max":"15"}}`), &ratings))

	agg := Aggregate(catalog(), []*models.Evaluation{evaluation("t1", "s1", ratings)})[0]

	assert.Equal(t, 12.0, agg.AccumulatedScore)
	assert.Equal(t, models.CategoryScore{Score: 0, Max: 10}, agg.CategoryTotals["A"])
	assert.Equal(t, "48.00", agg.OverallRating)
}

func TestAggregate_GroupsPerTeacher(t *testing.T) {
	evals := []*models.Evaluation{
		evaluation("t1", "s1", models.CategoryRatings{"A": {Score: 10, Max: 10}}),
		evaluation("t2", "s1", models.CategoryRatings{"B": {Score: 15, Max: 15}}),
		evaluation("t1", "s2", models.CategoryRatings{"A": {Score: 6, Max: 10}}),
		nil,
	}

	result := byTeacher(Aggregate(catalog(), evals))

	require.Len(t, result, 2)
	assert.Equal(t, 2, result["t1"].TotalRespondents)
	assert.Equal(t, 16.0, result["t1"].AccumulatedScore)
	assert.Equal(t, 1, result["t2"].TotalRespondents)
	assert.Equal(t, 15.0, result["t2"].AccumulatedScore)
	assert.NotContains(t, result, "t3")
}

func TestAggregate_Invariants(t *testing.T) {
	questions := catalog()
	evals := []*models.Evaluation{
		evaluation("t1", "s1", models.CategoryRatings{"A": {Score: 7, Max: 10}, "B": {Score: 11, Max: 15}}),
		evaluation("t1", "s2", models.CategoryRatings{"A": {Score: 9, Max: 10}}),
		evaluation("t2", "s3", models.CategoryRatings{"B": {Score: 3, Max: 15}}),
		evaluation("t3", "s4", nil),
	}

	for _, agg := range Aggregate(questions, evals) {
		assert.Equal(t, len(questions)*agg.TotalRespondents*models.MaxRating, agg.HighestPossibleScore)

		var sum float64
		for _, total := range agg.CategoryTotals {
			sum += total.Score
		}
		assert.Equal(t, sum, agg.AccumulatedScore, "teacher %s", agg.TeacherID)

		if agg.HighestPossibleScore == 0 {
			assert.Equal(t, ZeroRating, agg.OverallRating)
		}
	}
}

func TestAggregate_IdempotentUnderReordering(t *testing.T) {
	questions := catalog()
	evals := []*models.Evaluation{
		evaluation("t1", "s1", models.CategoryRatings{"A": {Score: 7, Max: 10}}),
		evaluation("t2", "s1", models.CategoryRatings{"B": {Score: 11, Max: 15}}),
		evaluation("t1", "s2", models.CategoryRatings{"B": {Score: 9, Max: 15}}),
	}

	first := Aggregate(questions, evals)

	reversedQuestions := make([]*models.Question, len(questions))
	for i, q := range questions {
		reversedQuestions[len(questions)-1-i] = q
	}
	reversedEvals := []*models.Evaluation{evals[2], evals[1], evals[0]}
	second := Aggregate(reversedQuestions, reversedEvals)

	sortByID := func(aggs []TeacherAggregate) {
		sort.Slice(aggs, func(i, j int) bool { return aggs[i].TeacherID < aggs[j].TeacherID })
	}
	sortByID(first)
	sortByID(second)

	assert.Equal(t, first, second)
}

func TestCategories(t *testing.T) {
	questions := []*models.Question{
		question("q1", "B", nil),
		question("q2", "A", strPtr("First Name")),
		question("q3", "A", strPtr("Second Name")),
		question("q4", "B", strPtr("Late Name")),
		nil,
	}

	categories := Categories(questions)

	require.Len(t, categories, 2)
	assert.Equal(t, Category{Code: "B", Name: "Late Name", QuestionCount: 2}, categories[0])
	assert.Equal(t, Category{Code: "A", Name: "First Name", QuestionCount: 2}, categories[1])
}

func TestCategories_FallsBackToCode(t *testing.T) {
	categories := Categories([]*models.Question{question("q1", "C", nil)})

	require.Len(t, categories, 1)
	assert.Equal(t, "C", categories[0].Name)
}

func TestOverallRating(t *testing.T) {
	tests := []struct {
		name        string
		accumulated float64
		highest     int
		want        string
	}{
		{"zero highest", 10, 0, "0.00"},
		{"negative highest", 10, -5, "0.00"},
		{"exact", 40, 50, "80.00"},
		{"repeating", 1, 3, "33.33"},
		{"rounds half up", 2, 3, "66.67"},
		{"full marks", 25, 25, "100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverallRating(tt.accumulated, tt.highest))
		})
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(5, 0))
	assert.Equal(t, 50.0, Percentage(5, 10))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 0.0, Percentage(math.NaN(), 10))
}
