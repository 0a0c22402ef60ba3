package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/talentfit/internal/seed"
	"github.com/okian/talentfit/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumCandidates = 1000
	defaultTopN          = 20
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultRunTimeout    = 10 * time.Minute
)

func main() {
	var (
		baseURL       = flag.String("url", "http://localhost:9080", "Base URL of the service")
		jobID         = flag.String("job", "seed-job", "Job ID to apply candidates against")
		numCandidates = flag.Int("candidates", defaultNumCandidates, "Number of candidates to generate and submit")
		topN          = flag.Int("top", defaultTopN, "Number of top entries to fetch from the ranking")
		workers       = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout       = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seed.Config{
		BaseURL:       *baseURL,
		JobID:         *jobID,
		NumCandidates: *numCandidates,
		TopN:          *topN,
		Workers:       *workers,
		Timeout:       *timeout,
		Verbose:       *verbose,
	}

	if err := seed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		return
	}
}
