package batch

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/jonathan/days-to-hire/internal/stats"
)

// Summary is the bookkeeping of one statistics run.
type Summary struct {
	RunID       uuid.UUID
	MinPostings int
	JobIDs      int
	Countries   int
	Saved       int
	Failed      int
	// FailedGroups maps a job id to the labels ("global" or a country code)
	// of its groups that were not persisted, in processing order.
	FailedGroups map[string][]string

	errs *multierror.Error
}

func newSummary(minPostings int) *Summary {
	return &Summary{
		RunID:        uuid.New(),
		MinPostings:  minPostings,
		FailedGroups: make(map[string][]string),
	}
}

func (s *Summary) recordSuccess() {
	s.Saved++
}

func (s *Summary) recordFailure(key stats.GroupKey, err error) {
	s.Failed++
	s.FailedGroups[key.StandardJobID] = append(s.FailedGroups[key.StandardJobID], key.Label())
	s.errs = multierror.Append(s.errs, fmt.Errorf("%s in %s: %w", key.StandardJobID, key.Label(), err))
}

// FailedJobIDs returns the job ids with at least one failed group, sorted.
func (s *Summary) FailedJobIDs() []string {
	ids := make([]string, 0, len(s.FailedGroups))
	for id := range s.FailedGroups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Err returns every per-group failure joined into one error, or nil.
func (s *Summary) Err() error {
	return s.errs.ErrorOrNil()
}
