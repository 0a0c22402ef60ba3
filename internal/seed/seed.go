// Package seed generates synthetic candidate applications and submits them
// to a running talentfit instance. It is a development tool for exercising
// the async scoring pipeline and the ranking endpoints.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/okian/talentfit/pkg/logger"
)

// Config holds seeding run parameters.
type Config struct {
	BaseURL       string
	JobID         string
	NumCandidates int
	TopN          int
	Workers       int
	Timeout       time.Duration
	Verbose       bool
}

// Stats accumulates the outcome of a seeding run.
type Stats struct {
	Generated  int
	Submitted  int
	Successful int
	Duplicate  int
	Failed     int
	Elapsed    time.Duration
}

// Run generates candidates, submits them, and fetches the resulting ranking.
func Run(ctx context.Context, config *Config) error {
	start := time.Now()
	stats := &Stats{}

	applications := generateApplications(config)
	stats.Generated = len(applications)
	logger.Get().Info(ctx, "generated applications",
		logger.Int("count", stats.Generated),
		logger.String("jobID", config.JobID),
	)

	if err := submitApplications(ctx, config, applications, stats); err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	// Give the async pipeline a moment to drain before querying the ranking.
	waitForPipeline(ctx, config, stats)

	if err := fetchRanking(ctx, config); err != nil {
		return fmt.Errorf("ranking fetch failed: %w", err)
	}

	stats.Elapsed = time.Since(start)
	log.Printf("seeding completed in %s: submitted=%d success=%d duplicate=%d failed=%d",
		stats.Elapsed.Round(time.Millisecond), stats.Submitted, stats.Successful, stats.Duplicate, stats.Failed)
	return nil
}

// waitForPipeline polls /stats until the queue drains or a short deadline hits.
func waitForPipeline(ctx context.Context, config *Config, stats *Stats) {
	const (
		pollInterval = 200 * time.Millisecond
		maxWait      = 30 * time.Second
	)

	deadline := time.Now().Add(maxWait)
	client := newHTTPClient(config.Timeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(pollInterval):
		}
		queueLen, err := fetchQueueLength(client, config.BaseURL)
		if err != nil {
			continue
		}
		if queueLen == 0 {
			return
		}
		if config.Verbose {
			log.Printf("waiting for pipeline: queue length %d", queueLen)
		}
	}
	log.Printf("pipeline did not drain within %s; ranking may be partial", maxWait)
}
