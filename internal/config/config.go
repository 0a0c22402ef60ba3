// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory score-request queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the application-id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRankingLimit caps GET /ranking/{job_id}?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// BatchLimit caps how many candidates one batch call scores.
	BatchLimit int `koanf:"batch_limit"`

	// BatchConcurrency bounds the batch scoring fan-out.
	BatchConcurrency int `koanf:"batch_concurrency"`

	// Aggregation weights for the five scoring dimensions. They must sum to
	// exactly 1.00; Load rejects any other total.
	SkillWeight      float64 `koanf:"skill_weight"`
	ExperienceWeight float64 `koanf:"experience_weight"`
	EducationWeight  float64 `koanf:"education_weight"`
	LocationWeight   float64 `koanf:"location_weight"`
	SalaryWeight     float64 `koanf:"salary_weight"`
}

// New creates a Config using defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		QueueSize:        100_000,
		WorkerCount:      runtime.NumCPU() * 4,
		DedupeSize:       500_000,
		MaxRankingLimit:  100,
		BatchLimit:       50,
		BatchConcurrency: runtime.NumCPU(),
		SkillWeight:      0.40,
		ExperienceWeight: 0.25,
		EducationWeight:  0.15,
		LocationWeight:   0.10,
		SalaryWeight:     0.10,
	}
}

// WeightSum returns the total of the five scoring weights.
func (c *Config) WeightSum() float64 {
	return c.SkillWeight + c.ExperienceWeight + c.EducationWeight + c.LocationWeight + c.SalaryWeight
}
