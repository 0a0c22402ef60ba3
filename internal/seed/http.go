package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// httpClient wraps http.Client with a timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{
		client: &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) post(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// ackResponse mirrors the service's application acknowledgement.
type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// rankedEntry mirrors one row of GET /ranking/{job_id}.
type rankedEntry struct {
	Rank        int     `json:"rank"`
	CandidateID string  `json:"candidate_id"`
	Fit         float64 `json:"fit"`
	Label       string  `json:"label"`
}

// submitApplications submits applications concurrently using a worker pool.
func submitApplications(ctx context.Context, config *Config, apps []application, stats *Stats) error {
	log.Printf("submitting %d applications with %d workers", len(apps), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/applications"

	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	appChan := make(chan application, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for app := range appChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				switch submitSingleApplication(ctx, client, url, app) {
				case "accepted":
					atomic.AddInt64(&successful, 1)
				case "duplicate":
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
				if total := atomic.AddInt64(&submitted, 1); config.Verbose && total%1000 == 0 {
					log.Printf("progress: %d/%d submitted", total, len(apps))
				}
			}
		}()
	}

	go func() {
		defer close(appChan)
		for _, app := range apps {
			select {
			case <-ctx.Done():
				return
			case appChan <- app:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Successful = int(atomic.LoadInt64(&successful))
	stats.Duplicate = int(atomic.LoadInt64(&duplicate))
	stats.Failed = int(atomic.LoadInt64(&failed))
	return nil
}

// submitSingleApplication posts one application and classifies the outcome.
func submitSingleApplication(ctx context.Context, client *httpClient, url string, app application) string {
	resp, err := client.post(ctx, url, app)
	if err != nil {
		return "failed"
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case http.StatusAccepted:
		return "accepted"
	case http.StatusOK:
		var ack ackResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}

// fetchRanking retrieves and prints the top of the seeded job's ranking.
func fetchRanking(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/ranking/" + config.JobID + "?limit=" + strconv.Itoa(config.TopN)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.client.Do(req)
	if err != nil {
		return fmt.Errorf("ranking request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ranking request returned status %d", resp.StatusCode)
	}

	var entries []rankedEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode ranking: %w", err)
	}

	log.Printf("top %d candidates for job %s:", len(entries), config.JobID)
	for _, e := range entries {
		log.Printf("  #%d %s fit=%.2f (%s)", e.Rank, e.CandidateID, e.Fit, e.Label)
	}
	return nil
}

// fetchQueueLength reads the pending queue length from GET /stats.
func fetchQueueLength(client *httpClient, baseURL string) (int, error) {
	resp, err := client.client.Get(baseURL + "/stats")
	if err != nil {
		return 0, fmt.Errorf("stats request failed: %w", err)
	}
	defer resp.Body.Close()

	var stats map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return 0, fmt.Errorf("failed to decode stats: %w", err)
	}
	if v, ok := stats["queueLength"].(float64); ok {
		return int(v), nil
	}
	return 0, nil
}
