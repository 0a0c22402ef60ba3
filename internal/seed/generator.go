package seed

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/talentfit/internal/domain/model"
)

// randomFloatDivisor bounds the crypto/rand float helper.
const randomFloatDivisor = 1000000

// application is the wire shape for POST /applications.
type application struct {
	RequestID       string                 `json:"request_id"`
	JobID           string                 `json:"job_id"`
	CandidateID     string                 `json:"candidate_id"`
	JobRequirements model.JobRequirements  `json:"job_requirements"`
	Profile         model.CandidateProfile `json:"candidate_profile"`
	TS              string                 `json:"ts"`
}

// archetype describes one candidate population to draw from.
type archetype struct {
	skills     []string
	minYears   float64
	yearsRange float64
	degree     string
	field      string
	city       string
	state      string
	country    string
	minSalary  float64
	salaryGap  float64
}

// archetypes covers strong, partial, and poor fits for the seeded job so the
// resulting ranking has a spread of labels.
var archetypes = []archetype{
	{
		skills:     []string{"Python", "Django", "PostgreSQL", "Docker", "AWS"},
		minYears:   4, yearsRange: 4,
		degree: "Bachelor of Science", field: "Computer Science",
		city: "San Francisco", state: "CA", country: "USA",
		minSalary: 110000, salaryGap: 30000,
	},
	{
		skills:     []string{"Python", "Flask", "MySQL"},
		minYears:   1, yearsRange: 3,
		degree: "Bachelor of Arts", field: "Mathematics",
		city: "Austin", state: "TX", country: "USA",
		minSalary: 80000, salaryGap: 25000,
	},
	{
		skills:     []string{"Java", "Spring", "Oracle"},
		minYears:   5, yearsRange: 6,
		degree: "Master of Science", field: "Software Engineering",
		city: "Berlin", state: "", country: "Germany",
		minSalary: 95000, salaryGap: 40000,
	},
	{
		skills:     []string{"JavaScript", "React", "Node.js"},
		minYears:   0, yearsRange: 2,
		degree: "High School Diploma", field: "",
		city: "Toronto", state: "ON", country: "Canada",
		minSalary: 60000, salaryGap: 20000,
	},
}

// seedRequirements is the job every generated candidate applies to.
func seedRequirements() model.JobRequirements {
	return model.JobRequirements{
		Skills:     model.SkillList{"Python", "Django", "PostgreSQL"},
		Experience: model.ExperienceRange{Min: 3, Max: 7},
		Education:  "bachelor",
		Location:   model.Location{City: "San Francisco", State: "CA", Country: "USA", IsRemote: false},
		Salary:     model.SalaryRange{Min: 90000, Max: 140000},
	}
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// pick returns a random index below n.
func pick(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateApplications builds synthetic applications against the seeded job.
func generateApplications(config *Config) []application {
	req := seedRequirements()
	apps := make([]application, config.NumCandidates)
	now := time.Now().UTC().Format(time.RFC3339)

	for i := range apps {
		a := archetypes[pick(len(archetypes))]
		candidateID := uuid.New().String()

		profile := model.CandidateProfile{
			Skills:     append(model.SkillList{}, a.skills...),
			Experience: a.minYears + getRandomFloat()*a.yearsRange,
			Location:   model.Location{City: a.city, State: a.state, Country: a.country},
			SalaryExpectation: model.SalaryExpectation{
				Amount: a.minSalary + getRandomFloat()*a.salaryGap,
			},
		}
		if a.degree != "" {
			profile.Education = []model.EducationRecord{{Degree: a.degree, Field: a.field}}
		}

		apps[i] = application{
			RequestID:       "seed_" + strconv.Itoa(i) + "_" + candidateID,
			JobID:           config.JobID,
			CandidateID:     candidateID,
			JobRequirements: req,
			Profile:         profile,
			TS:              now,
		}
	}
	return apps
}
