package store

import (
	"fmt"

	"github.com/mesh-intelligence/jobdesk/internal/jsonfile"
	"github.com/mesh-intelligence/jobdesk/internal/sanitize"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// Applied is the appliedJobs.json sub-store. Each user has one record whose
// jobs list is newest first.
type Applied struct {
	s *Store
	t *jsonfile.Table[types.AppliedJobs]
}

// All returns every user's application record.
func (a *Applied) All() []types.AppliedJobs {
	return a.t.LoadAll()
}

// ListByUser returns the user's applications, newest first.
func (a *Applied) ListByUser(userID string) []types.AppliedJob {
	userID, ok := normKey(userID)
	if !ok {
		return []types.AppliedJob{}
	}
	rec, exists := a.t.Find(appliedOf(userID))
	if !exists || rec.Jobs == nil {
		return []types.AppliedJob{}
	}
	return rec.Jobs
}

// Apply records an application. An earlier application with the same job
// id, or with the same title and company when there is no id, is replaced;
// the new entry goes to the front with appliedDate set to now.
func (a *Applied) Apply(userID string, entry any) types.Result[types.AppliedJobs] {
	userID, ok := normKey(userID)
	if !ok {
		return types.Fail[types.AppliedJobs](types.ErrInvalidKey)
	}
	job, ok := sanitize.AppliedJob(entry)
	if !ok {
		return types.Fail[types.AppliedJobs](fmt.Errorf("%w: jobTitle and company are required", types.ErrInvalidKey))
	}
	now := a.s.Now()
	job.AppliedDate = now
	dedup := job.DedupKey()

	push := func(r *types.AppliedJobs) {
		jobs := make([]types.AppliedJob, 0, len(r.Jobs)+1)
		jobs = append(jobs, job)
		for _, prior := range r.Jobs {
			if prior.DedupKey() == dedup {
				continue
			}
			jobs = append(jobs, prior)
		}
		r.Jobs = jobs
		r.UpdatedAt = now
	}

	res := upsert(a.t, appliedOf(userID),
		func() types.AppliedJobs {
			r := types.AppliedJobs{UserID: userID}
			push(&r)
			return r
		},
		push,
	)
	if res.Success {
		a.s.log.Debug("job applied", "user", userID, "job", dedup)
	}
	return res
}

func appliedOf(userID string) func(types.AppliedJobs) bool {
	return func(r types.AppliedJobs) bool { return r.UserID == userID }
}
