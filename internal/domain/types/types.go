// Package types contains common types used across the application
package types

// RankedCandidate represents one row in a job's candidate ranking.
type RankedCandidate struct {
	Rank        int     `json:"rank"`
	JobID       string  `json:"job_id"`
	CandidateID string  `json:"candidate_id"`
	Fit         float64 `json:"fit"`
	Label       string  `json:"label"`
}
