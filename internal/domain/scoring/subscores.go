package scoring

import (
	"math"
	"strings"

	"github.com/okian/talentfit/internal/domain/model"
	"github.com/okian/talentfit/internal/domain/skill"
)

// Similarity thresholds for classifying a required skill's best match.
const (
	fullMatchThreshold    = 0.9
	partialMatchThreshold = 0.6
	partialMatchWeight    = 0.5
)

// Skill bonus for candidates carrying more skills than required.
const (
	extraSkillBonus    = 0.02
	extraSkillBonusCap = 0.1
)

// Experience defaults and penalty curve.
const (
	defaultMaxExperience = 20.0
	underGapPenalty      = 0.2
	underScoreFloor      = 0.2
	overExcessPenalty    = 0.05
	overScoreFloor       = 0.7
)

// Education ordinals inferred from degree text.
const (
	levelHighSchool = 1
	levelDiploma    = 2
	levelBachelor   = 3
	levelMaster     = 4
	levelPhD        = 5
)

// Salary scoring bounds.
const (
	defaultSalaryCap   = 1e9 // effectively unbounded when the job states no budget
	salaryExcessMinor  = 0.10
	salaryExcessMedium = 0.20
)

// skillMatchScore scores required-skill coverage. Each required skill is
// matched against the candidate's best similar skill: full matches count 1,
// partial matches 0.5. A small bonus rewards candidates with more skills
// than required. Zero required skills cannot penalize the candidate, but
// evident skill still beats having none.
func skillMatchScore(required, candidate []string) float64 {
	if len(required) == 0 {
		if len(candidate) > 0 {
			return 0.8
		}
		return 0.5
	}

	var sum float64
	for _, req := range required {
		_, sim := skill.BestMatch(req, candidate)
		switch {
		case sim >= fullMatchThreshold:
			sum += 1
		case sim >= partialMatchThreshold:
			sum += partialMatchWeight
		}
	}

	score := sum / float64(len(required))
	if extra := len(candidate) - len(required); extra > 0 {
		score += math.Min(extraSkillBonusCap, float64(extra)*extraSkillBonus)
	}
	return math.Min(1.0, score)
}

// experienceMatchScore scores the candidate's total years against the
// required range. Under-qualification decays faster than over-qualification.
func experienceMatchScore(rng model.ExperienceRange, years float64) float64 {
	minYears := math.Max(0, rng.Min)
	maxYears := rng.Max
	if maxYears <= 0 {
		maxYears = defaultMaxExperience
	}
	if maxYears < minYears {
		maxYears = minYears
	}
	if years < 0 {
		years = 0
	}

	switch {
	case years >= minYears && years <= maxYears:
		return 1.0
	case years < minYears:
		gap := minYears - years
		switch {
		case gap <= 1:
			return 0.8
		case gap <= 2:
			return 0.6
		default:
			return math.Max(underScoreFloor, 1-gap*underGapPenalty)
		}
	default:
		excess := years - maxYears
		if excess <= 2 {
			return 0.9
		}
		return math.Max(overScoreFloor, 1-excess*overExcessPenalty)
	}
}

// educationMatchScore compares the required education level against the
// candidate's highest attained level. An unconstrained requirement or an
// empty education history scores a neutral 0.7.
func educationMatchScore(required string, records []model.EducationRecord) float64 {
	req := strings.ToLower(strings.TrimSpace(required))
	if req == "" || req == "any" || req == "none" || len(records) == 0 {
		return 0.7
	}

	requiredLevel := requirementLevel(req)
	candidateLevel := 0
	for _, rec := range records {
		if lvl := degreeLevel(rec.Degree); lvl > candidateLevel {
			candidateLevel = lvl
		}
	}
	if candidateLevel == 0 {
		candidateLevel = levelBachelor
	}

	diff := float64(candidateLevel - requiredLevel)
	switch {
	case diff == 0:
		return 1.0
	case diff > 0:
		return math.Min(1.0, 0.8+diff*0.1)
	default:
		return math.Max(0.3, 1+diff*0.2)
	}
}

// requirementLevel maps a declared requirement to its ordinal.
// Unrecognized values default to a bachelor-equivalent expectation.
func requirementLevel(req string) int {
	switch req {
	case "high-school", "high school":
		return levelHighSchool
	case "diploma":
		return levelDiploma
	case "bachelor":
		return levelBachelor
	case "master":
		return levelMaster
	case "phd":
		return levelPhD
	default:
		return levelBachelor
	}
}

// degreeLevel infers an ordinal from free-text degree descriptions.
// The high-school keywords are checked before "diploma" so that
// "High School Diploma" reads as a high-school credential.
// Unrecognized but non-empty text defaults to bachelor-equivalent.
func degreeLevel(degree string) int {
	d := strings.ToLower(degree)
	switch {
	case strings.TrimSpace(d) == "":
		return 0
	case strings.Contains(d, "phd") || strings.Contains(d, "doctorate"):
		return levelPhD
	case strings.Contains(d, "master") || strings.Contains(d, "mba"):
		return levelMaster
	case strings.Contains(d, "high school") || strings.Contains(d, "12th"):
		return levelHighSchool
	case strings.Contains(d, "bachelor") || strings.Contains(d, "degree"):
		return levelBachelor
	case strings.Contains(d, "diploma"):
		return levelDiploma
	default:
		return levelBachelor
	}
}

// locationMatchScore scores geographic compatibility. Remote jobs always
// score 1.0 regardless of either side's location.
func locationMatchScore(job, cand model.Location) float64 {
	if job.IsRemote {
		return 1.0
	}

	jobCity := skill.Normalize(job.City)
	candCity := skill.Normalize(cand.City)
	if jobCity == "" || candCity == "" {
		return 0.5
	}
	if jobCity == candCity {
		return 1.0
	}
	if sameField(job.State, cand.State) {
		return 0.7
	}
	if sameField(job.Country, cand.Country) {
		return 0.4
	}
	return 0.2
}

func sameField(a, b string) bool {
	na, nb := skill.Normalize(a), skill.Normalize(b)
	return na != "" && na == nb
}

// salaryMatchScore scores the candidate's expectation against the job's
// budget. Cheaper than budget earns a slight bonus; over budget decays with
// the relative excess.
func salaryMatchScore(sal model.SalaryRange, exp model.SalaryExpectation) float64 {
	hasBudget := sal.Min > 0 || sal.Max > 0
	expectation := exp.Amount

	if !hasBudget && expectation <= 0 {
		return 0.7
	}
	if expectation <= 0 {
		return 0.8 // budget stated, candidate negotiable
	}

	jobMin := math.Max(0, sal.Min)
	jobMax := sal.Max
	if jobMax <= 0 {
		if sal.Min > 0 {
			jobMax = sal.Min * 1.5
		} else {
			jobMax = defaultSalaryCap
		}
	}
	if jobMax < jobMin {
		jobMax = jobMin
	}

	switch {
	case expectation >= jobMin && expectation <= jobMax:
		return 1.0
	case expectation < jobMin:
		relDiff := (jobMin - expectation) / jobMin
		return math.Min(1.0, 0.9+relDiff*0.1)
	default:
		relExcess := (expectation - jobMax) / jobMax
		switch {
		case relExcess <= salaryExcessMinor:
			return 0.8
		case relExcess <= salaryExcessMedium:
			return 0.6
		default:
			return math.Max(0.2, 0.6-relExcess*0.5)
		}
	}
}
