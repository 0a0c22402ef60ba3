// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// ExperienceRange bounds the years of experience a job asks for.
// A zero Max means "unspecified" and is defaulted by the engine.
type ExperienceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Location describes where a job is based or where a candidate lives.
// IsRemote is only meaningful on the job side.
type Location struct {
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country,omitempty"`
	IsRemote bool   `json:"is_remote,omitempty"`
}

// SalaryRange is the job's budget in a single implied currency.
// Zero values mean "unspecified".
type SalaryRange struct {
	Min float64 `json:"min,omitempty"`
	Max float64 `json:"max,omitempty"`
}

// SalaryExpectation is what the candidate asks for. Zero means "not stated".
type SalaryExpectation struct {
	Amount float64 `json:"amount,omitempty"`
}

// JobRequirements is the job side of a match comparison.
type JobRequirements struct {
	Skills     SkillList       `json:"skills"`
	Experience ExperienceRange `json:"experience"`
	Education  string          `json:"education,omitempty"` // "any", "high-school", "diploma", "bachelor", "master", "phd"
	Location   Location        `json:"location"`
	Salary     SalaryRange     `json:"salary"`
}

// EducationRecord is one entry in a candidate's education history.
// Degree is free text; the engine infers a level from it by keyword.
type EducationRecord struct {
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution,omitempty"`
}

// UnmarshalJSON accepts either a structured record or a bare degree string.
func (e *EducationRecord) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Degree = s
		return nil
	}
	type plain EducationRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = EducationRecord(p)
	return nil
}

// CandidateProfile is the candidate side of a match comparison.
type CandidateProfile struct {
	Skills            SkillList         `json:"skills"`
	Experience        float64           `json:"experience"` // total years
	Education         []EducationRecord `json:"education,omitempty"`
	Location          Location          `json:"location"`
	SalaryExpectation SalaryExpectation `json:"salary_expectation"`
}

// SkillList is an ordered sequence of raw skill strings. It decodes from an
// array of strings, an array of {name} objects, or a single delimited string.
type SkillList []string

// UnmarshalJSON tolerates the heterogeneous skill shapes clients send.
func (l *SkillList) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*l = coerceSkills(v)
	return nil
}

// coerceSkills flattens any accepted skill shape into plain strings.
// Unrecognized elements are dropped rather than rejected.
func coerceSkills(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		out := make([]string, 0)
		for _, part := range strings.FieldsFunc(t, func(r rune) bool {
			return r == ',' || r == ';' || r == '|' || r == '\n'
		}) {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			switch it := item.(type) {
			case string:
				if s := strings.TrimSpace(it); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				if name, ok := it["name"].(string); ok {
					if s := strings.TrimSpace(name); s != "" {
						out = append(out, s)
					}
				}
			}
		}
		return out
	default:
		return nil
	}
}

// SkillsFromAny adapts a duck-typed skills value (string slice, {name} maps,
// delimited string, or nil) into a SkillList for programmatic callers.
func SkillsFromAny(v any) SkillList {
	switch t := v.(type) {
	case SkillList:
		return t
	case []string:
		return SkillList(t)
	default:
		return SkillList(coerceSkills(v))
	}
}

// Scores holds the five sub-scores plus the weighted aggregate, all in [0,1].
// OverallFit is rounded to 2 decimals for display; RawFit keeps full
// precision for deterministic ranking.
type Scores struct {
	SkillMatch      float64 `json:"skill_match"`
	ExperienceMatch float64 `json:"experience_match"`
	EducationMatch  float64 `json:"education_match"`
	LocationMatch   float64 `json:"location_match"`
	SalaryMatch     float64 `json:"salary_match"`
	OverallFit      float64 `json:"overall_fit"`
	RawFit          float64 `json:"-"`
}

// SkillPair records which candidate skill satisfied a required one.
type SkillPair struct {
	Required   string  `json:"required"`
	Matched    string  `json:"matched"`
	Similarity float64 `json:"similarity"`
}

// SkillsAnalysis summarizes required vs. candidate skill coverage.
type SkillsAnalysis struct {
	RequiredCount    int         `json:"required_count"`
	CandidateCount   int         `json:"candidate_count"`
	MatchingSkills   []SkillPair `json:"matching_skills"`
	MissingSkills    []string    `json:"missing_skills"`
	AdditionalSkills []string    `json:"additional_skills"`
}

// ExperienceAnalysis reports the years gap between requirement and candidate.
// Gap is negative when the candidate exceeds the requirement.
type ExperienceAnalysis struct {
	Required  float64 `json:"required"`
	Candidate float64 `json:"candidate"`
	Gap       float64 `json:"gap"`
}

// Recommendation is one rule-derived explanation for the score.
type Recommendation struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Metadata carries the explanation payload attached to a score.
type Metadata struct {
	SkillsAnalysis     SkillsAnalysis     `json:"skills_analysis"`
	ExperienceAnalysis ExperienceAnalysis `json:"experience_analysis"`
	Recommendations    []Recommendation   `json:"recommendations"`
}

// ScoreResult is the full output of one job/candidate comparison. It is
// constructed fresh on every scoring call and never mutated after return.
type ScoreResult struct {
	Scores   Scores    `json:"scores"`
	Metadata Metadata  `json:"metadata"`
	Label    string    `json:"label"`
	ScoredAt time.Time `json:"scored_at"`
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
}

// Candidate pairs an identifier with a profile for batch scoring.
type Candidate struct {
	ID      string           `json:"id"`
	Name    string           `json:"name,omitempty"`
	Profile CandidateProfile `json:"profile"`
}

// ScoredCandidate decorates a candidate with its scoring result.
type ScoredCandidate struct {
	Candidate
	Scoring ScoreResult `json:"scoring"`
}

// ScoreRequest is the unit of work flowing through the async pipeline.
type ScoreRequest struct {
	RequestID    string           // unique id for idempotency
	JobID        string           // job the candidate applied to
	CandidateID  string           // subject identifier
	Requirements JobRequirements  // job side of the comparison
	Profile      CandidateProfile // candidate side of the comparison
	TS           time.Time        // submission timestamp
}
