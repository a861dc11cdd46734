package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/campus-pms-api/internal/models"
)

func evaluationWith(rating int, level models.RecommendationLevel, rehire bool) models.MentorEvaluation {
	return models.MentorEvaluation{
		TechnicalSkills: models.TechnicalSkills{
			DomainKnowledge: rating,
			ProblemSolving:  rating,
			CodeQuality:     rating,
			LearningAgility: rating,
			ToolProficiency: rating,
		},
		SoftSkills: models.SoftSkills{
			Punctuality:   rating,
			Teamwork:      rating,
			Communication: rating,
			Leadership:    rating,
			Adaptability:  rating,
			WorkEthic:     rating,
		},
		RecommendationLevel: level,
		WouldRehire:         rehire,
	}
}

func TestSummarizeEvaluationPerfectScores(t *testing.T) {
	summary := SummarizeEvaluation(evaluationWith(10, models.RecommendationHigh, true))

	assert.Equal(t, 10.0, summary.OverallRating)
	assert.Equal(t, models.GradeOutstanding, summary.PerformanceGrade)
	assert.Equal(t, 100, summary.EmployabilityScore)
}

func TestSummarizeEvaluationFloorScores(t *testing.T) {
	summary := SummarizeEvaluation(evaluationWith(1, models.RecommendationNone, false))

	assert.Equal(t, 1.0, summary.OverallRating)
	assert.Equal(t, models.GradeFail, summary.PerformanceGrade)
	assert.Equal(t, 12, summary.EmployabilityScore)
}

func TestSummarizeEvaluationGradeBoundaries(t *testing.T) {
	cases := []struct {
		rating int
		grade  models.PerformanceGrade
	}{
		{9, models.GradeOutstanding},
		{8, models.GradeA},
		{7, models.GradeBPlus},
		{6, models.GradeB},
		{5, models.GradeC},
		{4, models.GradePass},
		{3, models.GradeFail},
	}
	for _, tc := range cases {
		summary := SummarizeEvaluation(evaluationWith(tc.rating, models.RecommendationNeutral, false))
		assert.Equal(t, tc.grade, summary.PerformanceGrade, "rating %d", tc.rating)
		assert.Equal(t, float64(tc.rating), summary.OverallRating)
	}
}

func TestSummarizeEvaluationMixedRatings(t *testing.T) {
	eval := models.MentorEvaluation{
		TechnicalSkills: models.TechnicalSkills{
			DomainKnowledge: 8,
			ProblemSolving:  9,
			CodeQuality:     7,
			LearningAgility: 9,
			ToolProficiency: 8,
		},
		SoftSkills: models.SoftSkills{
			Punctuality:   9,
			Teamwork:      8,
			Communication: 8,
			Leadership:    7,
			Adaptability:  8,
			WorkEthic:     9,
		},
		RecommendationLevel: models.RecommendationNormal,
		WouldRehire:         true,
	}

	summary := SummarizeEvaluation(eval)

	// 90 points over 11 dimensions.
	assert.Equal(t, 8.2, summary.OverallRating)
	assert.Equal(t, models.GradeA, summary.PerformanceGrade)
	assert.Equal(t, 82, summary.EmployabilityScore)
}

func TestSummarizeEvaluationMonotonicInRecommendation(t *testing.T) {
	levels := []models.RecommendationLevel{
		models.RecommendationNone,
		models.RecommendationNeutral,
		models.RecommendationNormal,
		models.RecommendationHigh,
	}
	previous := -1
	for _, level := range levels {
		summary := SummarizeEvaluation(evaluationWith(7, level, false))
		assert.Greater(t, summary.EmployabilityScore, previous, "level %s", level)
		previous = summary.EmployabilityScore
	}
}

func TestSummarizeEvaluationDeterministic(t *testing.T) {
	eval := evaluationWith(6, models.RecommendationNormal, true)
	first := SummarizeEvaluation(eval)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, SummarizeEvaluation(eval))
	}
}
