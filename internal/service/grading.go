package service

import (
	"math"

	"github.com/noah-isme/campus-pms-api/internal/models"
)

// Grade thresholds over the 1-10 overall rating. Monotonic and gap-free: every
// rating in range maps to exactly one grade.
var gradeThresholds = []struct {
	min   float64
	grade models.PerformanceGrade
}{
	{9.0, models.GradeOutstanding},
	{8.5, models.GradeAPlus},
	{8.0, models.GradeA},
	{7.0, models.GradeBPlus},
	{6.0, models.GradeB},
	{5.0, models.GradeC},
	{4.0, models.GradePass},
}

// Employability weighting. Technical and soft skill means carry 35 points
// each, the mentor's recommendation 20 and the rehire flag 10, totalling 100.
// Teamwork, communication and work ethic count double inside the soft mean.
const (
	employTechWeight = 3.5
	employSoftWeight = 3.5
	employRecWeight  = 2.0
	employRehire     = 10.0
)

// SummarizeEvaluation derives the passport summary from a submitted mentor
// evaluation. It is deterministic and side-effect free: replaying it on the
// stored evaluation must reproduce the persisted summary byte for byte.
func SummarizeEvaluation(eval models.MentorEvaluation) models.PassportSummary {
	overall := roundTenth(overallRating(eval.TechnicalSkills, eval.SoftSkills))
	return models.PassportSummary{
		OverallRating:      overall,
		PerformanceGrade:   gradeFor(overall),
		EmployabilityScore: employabilityScore(eval),
	}
}

func overallRating(tech models.TechnicalSkills, soft models.SoftSkills) float64 {
	sum := tech.DomainKnowledge + tech.ProblemSolving + tech.CodeQuality + tech.LearningAgility + tech.ToolProficiency +
		soft.Punctuality + soft.Teamwork + soft.Communication + soft.Leadership + soft.Adaptability + soft.WorkEthic
	return float64(sum) / 11.0
}

func gradeFor(overall float64) models.PerformanceGrade {
	for _, threshold := range gradeThresholds {
		if overall >= threshold.min {
			return threshold.grade
		}
	}
	return models.GradeFail
}

func employabilityScore(eval models.MentorEvaluation) int {
	tech := eval.TechnicalSkills
	soft := eval.SoftSkills

	techMean := float64(tech.DomainKnowledge+tech.ProblemSolving+tech.CodeQuality+tech.LearningAgility+tech.ToolProficiency) / 5.0
	softWeighted := float64(soft.Punctuality+soft.Leadership+soft.Adaptability+
		2*(soft.Teamwork+soft.Communication+soft.WorkEthic)) / 9.0

	score := employTechWeight*techMean + employSoftWeight*softWeighted + employRecWeight*recommendationPoints(eval.RecommendationLevel)
	if eval.WouldRehire {
		score += employRehire
	}

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func recommendationPoints(level models.RecommendationLevel) float64 {
	switch level {
	case models.RecommendationHigh:
		return 10.0
	case models.RecommendationNormal:
		return 7.5
	case models.RecommendationNone:
		return 2.5
	default:
		return 5.0
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
