package repository

// StoreOption applies a configuration option to the MatchStore.
type StoreOption func(*MatchStore)

// WithJobs pre-creates empty rankings for the given job ids so reads against
// known jobs never distinguish "unknown job" from "no candidates yet".
func WithJobs(jobIDs ...string) StoreOption {
	return func(s *MatchStore) {
		for _, id := range jobIDs {
			if id == "" {
				continue
			}
			if _, ok := s.jobs[id]; !ok {
				s.jobs[id] = &jobIndex{byID: make(map[string]record)}
			}
		}
	}
}
