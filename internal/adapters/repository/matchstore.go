// Package repository defines the match-ranking store interface and errors.
package repository

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/okian/talentfit/pkg/metrics"
)

// Treap-based, in-memory Store implementation keeping one ordered index per
// job.
//
// Ordering: fit DESC, then candidateID ASC (deterministic). The BST
// comparator treats "less" as "ranks earlier", so an in-order traversal
// yields the ranking from best to worst.

// fitScale controls fixed-point scaling from float64. Fits live in [0,1] and
// ranking must stay deterministic below the 2-decimal display rounding, so
// twelve decimal places are kept.
const fitScale = 1_000_000_000_000

type fitFP int64

func toFixedPoint(x float64) fitFP {
	if math.IsNaN(x) {
		return 0
	}
	if x < 0 {
		return 0
	}
	if x > 1 {
		return fitFP(fitScale)
	}
	return fitFP(math.Round(x * fitScale))
}

func toFloat(x fitFP) float64 {
	return float64(x) / fitScale
}

// record stores the fixed-point fit plus display metadata for a candidate.
type record struct {
	fit      fitFP
	label    string
	scoredAt time.Time
}

// treap node
type node struct {
	id    string
	fit   fitFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aFit, aID) ranks earlier than (bFit, bID).
func less(aFit fitFP, aID string, bFit fitFP, bID string) bool {
	if aFit != bFit {
		return aFit > bFit // higher fit ranks earlier
	}
	return aID < bID // tie-breaker by id asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// fitToPriority keeps higher fits higher in the treap.
func fitToPriority(fit fitFP) uint64 {
	const offset = uint64(1) << 63
	return uint64(fit) + offset
}

func insert(n *node, id string, fit fitFP) *node {
	if n == nil {
		return &node{id: id, fit: fit, prio: fitToPriority(fit), size: 1}
	}
	if less(fit, id, n.fit, n.id) {
		n.left = insert(n.left, id, fit)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, fit)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, fit fitFP) *node {
	if n == nil {
		return nil
	}
	if fit == n.fit && id == n.id {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, fit)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, fit)
		}
	} else if less(fit, id, n.fit, n.id) {
		n.left = deleteNode(n.left, id, fit)
	} else {
		n.right = deleteNode(n.right, id, fit)
	}
	fix(n)
	return n
}

// collect appends up to limit entries for jobID in rank order.
func collect(n *node, jobID string, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collect(n.left, jobID, limit, records, out)
	if len(*out) < limit {
		if rec, exists := records[n.id]; exists {
			*out = append(*out, Entry{
				JobID:       jobID,
				CandidateID: n.id,
				Fit:         toFloat(rec.fit),
				Label:       rec.label,
				ScoredAt:    rec.scoredAt,
			})
		}
	}
	if len(*out) < limit {
		collect(n.right, jobID, limit, records, out)
	}
}

// jobIndex is one job's ordered candidate ranking.
type jobIndex struct {
	root *node
	byID map[string]record
}

// MatchStore keeps an in-memory treap ranking per job.
type MatchStore struct {
	mu   sync.RWMutex
	jobs map[string]*jobIndex
}

// NewMatchStore constructs an empty match store.
func NewMatchStore(ctx context.Context, opts ...StoreOption) *MatchStore {
	s := &MatchStore{
		jobs: make(map[string]*jobIndex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdateFit implements Store.UpdateFit with O(log n) expected time per job.
func (s *MatchStore) UpdateFit(ctx context.Context, jobID, candidateID string, fit float64, label string, scoredAt time.Time) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	nf := toFixedPoint(fit)

	s.mu.Lock()
	idx, ok := s.jobs[jobID]
	if !ok {
		idx = &jobIndex{byID: make(map[string]record)}
		s.jobs[jobID] = idx
	}

	changed := true
	if old, exists := idx.byID[candidateID]; exists {
		if old.fit == nf {
			changed = false
		}
		idx.root = deleteNode(idx.root, candidateID, old.fit)
	}
	idx.byID[candidateID] = record{fit: nf, label: label, scoredAt: scoredAt}
	idx.root = insert(idx.root, candidateID, nf)
	total := s.countLocked()
	s.mu.Unlock()

	metrics.UpdateTrackedCandidates(total)
	return changed, nil
}

// Rank returns the current rank and fit for a candidate within a job.
func (s *MatchStore) Rank(ctx context.Context, jobID, candidateID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.jobs[jobID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	if _, ok := idx.byID[candidateID]; !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}

	all := make([]Entry, 0, len(idx.byID))
	collect(idx.root, jobID, len(idx.byID), idx.byID, &all)
	assignRanksWithTies(all)

	for _, entry := range all {
		if entry.CandidateID == candidateID {
			return entry, nil
		}
	}
	return Entry{}, ErrNotFound
}

// TopN returns a job's top-N candidates ordered by fit desc.
func (s *MatchStore) TopN(ctx context.Context, jobID string, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.jobs[jobID]
	if !ok {
		return []Entry{}, nil
	}

	out := make([]Entry, 0, n)
	collect(idx.root, jobID, n, idx.byID, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the number of candidates tracked across all jobs.
func (s *MatchStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countLocked()
}

// CountJob returns the number of candidates tracked for one job.
func (s *MatchStore) CountJob(ctx context.Context, jobID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx, ok := s.jobs[jobID]; ok {
		return len(idx.byID)
	}
	return 0
}

func (s *MatchStore) countLocked() int {
	total := 0
	for _, idx := range s.jobs {
		total += len(idx.byID)
	}
	return total
}

// assignRanksWithTies assigns ranks with proper tie handling. Candidates
// with the same fit share a rank; the next distinct fit takes the following
// consecutive rank.
func assignRanksWithTies(entries []Entry) {
	if len(entries) == 0 {
		return
	}

	currentRank := 1
	for i := 0; i < len(entries); i++ {
		entries[i].Rank = currentRank

		sameFitCount := 1
		for j := i + 1; j < len(entries) && entries[j].Fit == entries[i].Fit; j++ {
			entries[j].Rank = currentRank
			sameFitCount++
		}

		currentRank++
		i += sameFitCount - 1
	}
}
