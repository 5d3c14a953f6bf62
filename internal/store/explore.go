package store

import (
	"sort"
	"strings"

	"github.com/mesh-intelligence/jobdesk/internal/jsonfile"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// Explore is the exploreJobs.json sub-store of reference listings. It is
// read-only to users; Replace is the admin import path.
type Explore struct {
	s *Store
	t *jsonfile.Table[types.ExploreJob]
}

// ExploreQuery filters explore listings. Title matches as a
// case-insensitive substring of the job name, Country as a case-insensitive
// equality. Empty fields do not filter.
type ExploreQuery struct {
	Title   string
	Country string
}

// All returns every listing.
func (e *Explore) All() []types.ExploreJob {
	return e.t.LoadAll()
}

// Filter returns the listings matching q.
func (e *Explore) Filter(q ExploreQuery) []types.ExploreJob {
	title := strings.ToLower(strings.TrimSpace(q.Title))
	country := strings.TrimSpace(q.Country)
	return e.t.Filter(func(j types.ExploreJob) bool {
		if title != "" && !strings.Contains(strings.ToLower(j.Job), title) {
			return false
		}
		if country != "" && !strings.EqualFold(strings.TrimSpace(j.Country), country) {
			return false
		}
		return true
	})
}

// Countries returns the distinct non-empty countries, sorted. Spellings
// that differ only in case count once; the first one seen is kept.
func (e *Explore) Countries() []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, j := range e.t.LoadAll() {
		c := strings.TrimSpace(j.Country)
		if c == "" {
			continue
		}
		k := strings.ToLower(c)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Replace overwrites the table with listings. Entries without a job name
// are dropped.
func (e *Explore) Replace(listings []types.ExploreJob) types.Result[[]types.ExploreJob] {
	kept := make([]types.ExploreJob, 0, len(listings))
	for _, l := range listings {
		l.Job = strings.TrimSpace(l.Job)
		if l.Job == "" {
			continue
		}
		l.Country = strings.TrimSpace(l.Country)
		kept = append(kept, l)
	}
	if !e.t.SaveAll(kept) {
		return types.Fail[[]types.ExploreJob](writeFailed(e.t))
	}
	e.s.log.Info("explore jobs imported", "count", len(kept), "dropped", len(listings)-len(kept))
	return types.OK(kept)
}
