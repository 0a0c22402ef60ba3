package scoring

import (
	"fmt"

	"github.com/okian/talentfit/internal/domain/model"
	"github.com/okian/talentfit/internal/domain/skill"
)

// analysisThreshold is the similarity above which a required skill counts as
// covered in the explanation payload.
const analysisThreshold = 0.8

// Recommendation rule thresholds.
const (
	skillGapThreshold      = 0.7
	experienceGapThreshold = 0.6
	locationThreshold      = 0.5
	salaryThreshold        = 0.4
	strongMatchThreshold   = 0.8
)

// Recommendation severities.
const (
	severityMedium   = "medium"
	severityHigh     = "high"
	severityPositive = "positive"
)

// buildMetadata derives matched/missing/additional skills, the experience
// gap, and rule-based recommendations from the computed sub-scores.
func buildMetadata(req model.JobRequirements, prof model.CandidateProfile, required, candidate []string, scores model.Scores) model.Metadata {
	analysis := skillsAnalysis(required, candidate)
	return model.Metadata{
		SkillsAnalysis: analysis,
		ExperienceAnalysis: model.ExperienceAnalysis{
			Required:  req.Experience.Min,
			Candidate: prof.Experience,
			Gap:       req.Experience.Min - prof.Experience,
		},
		Recommendations: recommendations(req, prof, scores, analysis),
	}
}

// skillsAnalysis classifies every required skill by its best candidate match
// and surfaces candidate skills that satisfy no requirement.
func skillsAnalysis(required, candidate []string) model.SkillsAnalysis {
	out := model.SkillsAnalysis{
		RequiredCount:    len(required),
		CandidateCount:   len(candidate),
		MatchingSkills:   []model.SkillPair{},
		MissingSkills:    []string{},
		AdditionalSkills: []string{},
	}

	for _, req := range required {
		match, sim := skill.BestMatch(req, candidate)
		if sim >= analysisThreshold {
			out.MatchingSkills = append(out.MatchingSkills, model.SkillPair{
				Required:   req,
				Matched:    match,
				Similarity: sim,
			})
		} else {
			out.MissingSkills = append(out.MissingSkills, req)
		}
	}

	for _, cand := range candidate {
		if _, sim := skill.BestMatch(cand, required); sim < analysisThreshold {
			out.AdditionalSkills = append(out.AdditionalSkills, cand)
		}
	}
	return out
}

// recommendations applies the explanation rules in fixed insertion order.
// Rules are independent and may all fire for the same result.
func recommendations(req model.JobRequirements, prof model.CandidateProfile, scores model.Scores, analysis model.SkillsAnalysis) []model.Recommendation {
	recs := []model.Recommendation{}

	if scores.SkillMatch < skillGapThreshold {
		recs = append(recs, model.Recommendation{
			Type:     "skill_gap",
			Message:  fmt.Sprintf("candidate is missing %d of %d required skills", len(analysis.MissingSkills), analysis.RequiredCount),
			Severity: severityMedium,
		})
	}
	if scores.ExperienceMatch < experienceGapThreshold {
		recs = append(recs, model.Recommendation{
			Type:     "experience_gap",
			Message:  fmt.Sprintf("candidate has %.1f years of experience; the role asks for at least %.1f", prof.Experience, req.Experience.Min),
			Severity: severityHigh,
		})
	}
	if scores.LocationMatch < locationThreshold && !req.Location.IsRemote {
		recs = append(recs, model.Recommendation{
			Type:     "location_mismatch",
			Message:  "candidate is outside the job's location and the role is not remote",
			Severity: severityMedium,
		})
	}
	if scores.SalaryMatch < salaryThreshold {
		recs = append(recs, model.Recommendation{
			Type:     "salary_mismatch",
			Message:  "candidate's salary expectation is well above the job's budget",
			Severity: severityHigh,
		})
	}
	if scores.OverallFit >= strongMatchThreshold {
		recs = append(recs, model.Recommendation{
			Type:     "strong_match",
			Message:  "strong overall fit across skills, experience and compensation",
			Severity: severityPositive,
		})
	}
	return recs
}

// Fit label thresholds for UI display.
const (
	labelHighlyRecommended = 0.9
	labelRecommended       = 0.8
	labelGoodMatch         = 0.7
	labelPotentialMatch    = 0.6
)

// FitLabel classifies an overall fit score into a display label.
func FitLabel(overallFit float64) string {
	switch {
	case overallFit >= labelHighlyRecommended:
		return "Highly Recommended"
	case overallFit >= labelRecommended:
		return "Recommended"
	case overallFit >= labelGoodMatch:
		return "Good Match"
	case overallFit >= labelPotentialMatch:
		return "Potential Match"
	default:
		return "Not Recommended"
	}
}
