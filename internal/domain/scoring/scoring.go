// Package scoring computes an explainable, weighted fitness score between a
// job's requirements and a candidate's profile.
package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/talentfit/internal/domain/model"
	"github.com/okian/talentfit/internal/domain/skill"
)

// Weights used by the aggregator. They must sum to 1.00.
type Weights struct {
	Skill      float64
	Experience float64
	Education  float64
	Location   float64
	Salary     float64
}

// Sum returns the total of all five weights.
func (w Weights) Sum() float64 {
	return w.Skill + w.Experience + w.Education + w.Location + w.Salary
}

// DefaultWeights is the standard category weighting.
func DefaultWeights() Weights {
	return Weights{
		Skill:      0.40,
		Experience: 0.25,
		Education:  0.15,
		Location:   0.10,
		Salary:     0.10,
	}
}

const weightSumTolerance = 1e-9

// neutralScore fills every dimension when scoring fails.
const neutralScore = 0.5

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights overrides the aggregation weights. Ignored unless the weights
// sum to 1.00.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		if math.Abs(w.Sum()-1.0) <= weightSumTolerance {
			e.weights = w
		}
	}
}

// WithClock overrides the timestamp source. Used by tests for determinism.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Scorer computes a score result from a job/candidate pair. Implementations
// must always return a structurally valid result, never panic.
type Scorer interface {
	Score(ctx context.Context, req model.JobRequirements, prof model.CandidateProfile) model.ScoreResult
}

// Engine implements Scorer as a pure computation. It holds only read-only
// configuration, so a single Engine is safe for concurrent use.
type Engine struct {
	weights Weights
	now     func() time.Time
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		weights: DefaultWeights(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weights returns the aggregation weights in effect.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Score compares a job's requirements against a candidate's profile and
// returns the weighted fitness score with explanations. The context is
// accepted for interface symmetry; scoring is pure computation with no
// cancellation points. Score never panics: any internal failure is converted
// into a Success:false result with neutral scores.
func (e *Engine) Score(_ context.Context, req model.JobRequirements, prof model.CandidateProfile) (result model.ScoreResult) {
	defer func() {
		if r := recover(); r != nil {
			result = e.failureResult(fmt.Sprintf("scoring failed: %v", r))
		}
	}()

	required := skill.Extract([]string(req.Skills))
	candidate := skill.Extract([]string(prof.Skills))

	scores := model.Scores{
		SkillMatch:      skillMatchScore(required, candidate),
		ExperienceMatch: experienceMatchScore(req.Experience, prof.Experience),
		EducationMatch:  educationMatchScore(req.Education, prof.Education),
		LocationMatch:   locationMatchScore(req.Location, prof.Location),
		SalaryMatch:     salaryMatchScore(req.Salary, prof.SalaryExpectation),
	}

	raw := scores.SkillMatch*e.weights.Skill +
		scores.ExperienceMatch*e.weights.Experience +
		scores.EducationMatch*e.weights.Education +
		scores.LocationMatch*e.weights.Location +
		scores.SalaryMatch*e.weights.Salary
	scores.RawFit = raw
	scores.OverallFit = math.Round(raw*100) / 100

	return model.ScoreResult{
		Scores:   scores,
		Metadata: buildMetadata(req, prof, required, candidate, scores),
		Label:    FitLabel(scores.OverallFit),
		ScoredAt: e.now().UTC(),
		Success:  true,
	}
}

// failureResult builds the all-neutral result so downstream sorting and
// averaging never break on a bad record.
func (e *Engine) failureResult(msg string) model.ScoreResult {
	return model.ScoreResult{
		Scores: model.Scores{
			SkillMatch:      neutralScore,
			ExperienceMatch: neutralScore,
			EducationMatch:  neutralScore,
			LocationMatch:   neutralScore,
			SalaryMatch:     neutralScore,
			OverallFit:      neutralScore,
			RawFit:          neutralScore,
		},
		Metadata: model.Metadata{
			SkillsAnalysis:  emptySkillsAnalysis(),
			Recommendations: []model.Recommendation{},
		},
		Label:    FitLabel(neutralScore),
		ScoredAt: e.now().UTC(),
		Success:  false,
		Error:    msg,
	}
}

func emptySkillsAnalysis() model.SkillsAnalysis {
	return model.SkillsAnalysis{
		MatchingSkills:   []model.SkillPair{},
		MissingSkills:    []string{},
		AdditionalSkills: []string{},
	}
}
