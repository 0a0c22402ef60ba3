package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"
)

// floatEqual compares two float64 values with a small tolerance for floating-point precision
func floatEqual(a, b float64) bool {
	const tolerance = 1e-10
	return math.Abs(a-b) < tolerance
}

func mustUpdate(t *testing.T, store *MatchStore, jobID, candidateID string, fit float64) bool {
	t.Helper()
	changed, err := store.UpdateFit(context.Background(), jobID, candidateID, fit, "Good Match", time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return changed
}

func TestMatchStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMatchStore(ctx)

	// Test empty store
	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	// Test inserting first entry
	if !mustUpdate(t, store, "job1", "cand1", 0.85) {
		t.Error("expected update to report a change")
	}

	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
	if count := store.CountJob(ctx, "job1"); count != 1 {
		t.Errorf("expected job count 1, got %d", count)
	}

	// Test rank query
	entry, err := store.Rank(ctx, "job1", "cand1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 {
		t.Errorf("expected rank 1, got %d", entry.Rank)
	}
	if !floatEqual(entry.Fit, 0.85) {
		t.Errorf("expected fit 0.85, got %f", entry.Fit)
	}
	if entry.JobID != "job1" {
		t.Errorf("expected job1, got %s", entry.JobID)
	}
	if entry.Label != "Good Match" {
		t.Errorf("expected label Good Match, got %s", entry.Label)
	}

	// Test TopN
	entries, err := store.TopN(ctx, "job1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].CandidateID != "cand1" {
		t.Errorf("expected cand1, got %s", entries[0].CandidateID)
	}
}

func TestMatchStore_RescoreReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewMatchStore(ctx)

	mustUpdate(t, store, "job1", "cand1", 0.50)

	// A re-score with a lower fit still replaces the stored value
	if !mustUpdate(t, store, "job1", "cand1", 0.40) {
		t.Error("expected lower re-score to report a change")
	}
	entry, err := store.Rank(ctx, "job1", "cand1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !floatEqual(entry.Fit, 0.40) {
		t.Errorf("expected fit 0.40 after re-score, got %f", entry.Fit)
	}

	// Re-score with an identical fit reports no change
	if mustUpdate(t, store, "job1", "cand1", 0.40) {
		t.Error("expected identical re-score to report no change")
	}

	// Count stays at one; replace never duplicates
	if count := store.CountJob(ctx, "job1"); count != 1 {
		t.Errorf("expected job count 1, got %d", count)
	}
}

func TestMatchStore_Ordering(t *testing.T) {
	ctx := context.Background()
	store := NewMatchStore(ctx)

	candidates := []struct {
		id  string
		fit float64
	}{
		{"cand1", 0.85},
		{"cand2", 0.95},
		{"cand3", 0.75},
		{"cand4", 1.00},
		{"cand5", 0.80},
	}
	for _, c := range candidates {
		mustUpdate(t, store, "job1", c.id, c.fit)
	}

	entries, err := store.TopN(ctx, "job1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantOrder := []string{"cand4", "cand2", "cand1", "cand5", "cand3"}
	if len(entries) != len(wantOrder) {
		t.Fatalf("expected %d entries, got %d", len(wantOrder), len(entries))
	}
	for i, want := range wantOrder {
		if entries[i].CandidateID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, entries[i].CandidateID)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, entries[i].Rank)
		}
	}

	// Truncated TopN keeps the best
	top2, err := store.TopN(ctx, "job1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top2) != 2 || top2[0].CandidateID != "cand4" || top2[1].CandidateID != "cand2" {
		t.Errorf("unexpected top2: %+v", top2)
	}
}

func TestMatchStore_Ties(t *testing.T) {
	ctx := context.Background()
	store := NewMatchStore(ctx)

	mustUpdate(t, store, "job1", "bbb", 0.80)
	mustUpdate(t, store, "job1", "aaa", 0.80)
	mustUpdate(t, store, "job1", "ccc", 0.70)

	entries, err := store.TopN(ctx, "job1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Tied fits share a rank and order by candidate id asc
	if entries[0].CandidateID != "aaa" || entries[0].Rank != 1 {
		t.Errorf("expected aaa at rank 1, got %s rank %d", entries[0].CandidateID, entries[0].Rank)
	}
	if entries[1].CandidateID != "bbb" || entries[1].Rank != 1 {
		t.Errorf("expected bbb at rank 1, got %s rank %d", entries[1].CandidateID, entries[1].Rank)
	}
	if entries[2].CandidateID != "ccc" || entries[2].Rank != 2 {
		t.Errorf("expected ccc at rank 2, got %s rank %d", entries[2].CandidateID, entries[2].Rank)
	}
}

func TestMatchStore_JobIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMatchStore(ctx)

	mustUpdate(t, store, "job1", "cand1", 0.90)
	mustUpdate(t, store, "job2", "cand1", 0.40)
	mustUpdate(t, store, "job2", "cand2", 0.80)

	// Same candidate ranks independently per job
	e1, err := store.Rank(ctx, "job1", "cand1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e1.Rank != 1 || !floatEqual(e1.Fit, 0.90) {
		t.Errorf("job1 rank: got %+v", e1)
	}

	e2, err := store.Rank(ctx, "job2", "cand1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e2.Rank != 2 || !floatEqual(e2.Fit, 0.40) {
		t.Errorf("job2 rank: got %+v", e2)
	}

	if count := store.Count(ctx); count != 3 {
		t.Errorf("expected total count 3, got %d", count)
	}
	if count := store.CountJob(ctx, "job2"); count != 2 {
		t.Errorf("expected job2 count 2, got %d", count)
	}
}

func TestMatchStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMatchStore(ctx)

	mustUpdate(t, store, "job1", "cand1", 0.5)

	if _, err := store.Rank(ctx, "missing-job", "cand1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown job, got %v", err)
	}
	if _, err := store.Rank(ctx, "job1", "missing-cand"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown candidate, got %v", err)
	}

	// Unknown job yields an empty ranking, not an error
	entries, err := store.TopN(ctx, "missing-job", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty ranking, got %d entries", len(entries))
	}

	// Invalid limit is rejected
	if _, err := store.TopN(ctx, "job1", 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestMatchStore_FixedPointClamping(t *testing.T) {
	ctx := context.Background()
	store := NewMatchStore(ctx)

	mustUpdate(t, store, "job1", "low", -0.5)
	mustUpdate(t, store, "job1", "high", 1.5)
	mustUpdate(t, store, "job1", "nan", math.NaN())

	entries, err := store.TopN(ctx, "job1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, e := range entries {
		if e.Fit < 0 || e.Fit > 1 {
			t.Errorf("fit out of bounds for %s: %f", e.CandidateID, e.Fit)
		}
	}
	if entries[0].CandidateID != "high" {
		t.Errorf("expected high first, got %s", entries[0].CandidateID)
	}
}

func TestMatchStore_WithJobs(t *testing.T) {
	ctx := context.Background()
	store := NewMatchStore(ctx, WithJobs("job1", "job2"))

	// Pre-created jobs answer queries without candidates
	entries, err := store.TopN(ctx, "job1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty ranking, got %d entries", len(entries))
	}
	if count := store.CountJob(ctx, "job2"); count != 0 {
		t.Errorf("expected 0, got %d", count)
	}
}

func TestMatchStore_Concurrency(t *testing.T) {
	ctx := context.Background()
	store := NewMatchStore(ctx)

	const writers = 8
	const perWriter = 200

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(w)))
			for i := 0; i < perWriter; i++ {
				jobID := fmt.Sprintf("job%d", i%3)
				candID := fmt.Sprintf("cand-%d-%d", w, i)
				_, _ = store.UpdateFit(ctx, jobID, candID, r.Float64(), "Good Match", time.Now().UTC())
				if i%10 == 0 {
					_, _ = store.TopN(ctx, jobID, 10)
				}
			}
		}(w)
	}
	wg.Wait()

	if count := store.Count(ctx); count != writers*perWriter {
		t.Errorf("expected %d candidates, got %d", writers*perWriter, count)
	}

	// Every job's ranking must be sorted desc after concurrent writes
	for j := 0; j < 3; j++ {
		jobID := fmt.Sprintf("job%d", j)
		entries, err := store.TopN(ctx, jobID, writers*perWriter)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := 1; i < len(entries); i++ {
			if entries[i].Fit > entries[i-1].Fit {
				t.Fatalf("ranking out of order at %d: %f > %f", i, entries[i].Fit, entries[i-1].Fit)
			}
		}
	}
}
