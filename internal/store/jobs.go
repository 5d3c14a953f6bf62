package store

import (
	"strings"

	"github.com/mesh-intelligence/jobdesk/internal/clock"
	"github.com/mesh-intelligence/jobdesk/internal/jsonfile"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// Jobs is the jobs.json sub-store of listings matched against preferences.
type Jobs struct {
	s *Store
	t *jsonfile.Table[types.Job]
}

// All returns every job.
func (j *Jobs) All() []types.Job {
	return j.t.LoadAll()
}

// Find returns the job with id, or nil.
func (j *Jobs) Find(id string) *types.Job {
	id, ok := normKey(id)
	if !ok {
		return nil
	}
	return found[types.Job](j.t.Find(func(r types.Job) bool { return r.ID == id }))
}

// Replace overwrites the table with jobs. Jobs without a title are dropped
// and missing ids are filled with "job_<token>".
func (j *Jobs) Replace(jobs []types.Job) types.Result[[]types.Job] {
	kept := make([]types.Job, 0, len(jobs))
	for _, job := range jobs {
		job.Title = strings.TrimSpace(job.Title)
		if job.Title == "" {
			continue
		}
		if strings.TrimSpace(job.ID) == "" {
			job.ID = clock.Prefixed("job", j.s.ids)
		}
		kept = append(kept, job)
	}
	if !j.t.SaveAll(kept) {
		return types.Fail[[]types.Job](writeFailed(j.t))
	}
	j.s.log.Info("jobs imported", "count", len(kept), "dropped", len(jobs)-len(kept))
	return types.OK(kept)
}

// Recommend returns the jobs matching the user's stored preference. A user
// without a preference gets an empty list.
func (j *Jobs) Recommend(userID string) []types.Job {
	pref := j.s.prefs.FindByUserID(userID)
	if pref == nil {
		return []types.Job{}
	}
	return MatchJobs(j.All(), *pref)
}

// MatchJobs keeps the jobs whose title contains any preferred role, or whose
// country equals any preferred country, both ignoring case. A preference
// with no roles and no countries matches nothing.
func MatchJobs(jobs []types.Job, pref types.JobPreference) []types.Job {
	roles := lowered(pref.Roles)
	countries := lowered(pref.Countries)
	out := []types.Job{}
	if len(roles) == 0 && len(countries) == 0 {
		return out
	}
	for _, job := range jobs {
		if matchesRole(job.Title, roles) || matchesCountry(job.Country, countries) {
			out = append(out, job)
		}
	}
	return out
}

func matchesRole(title string, roles []string) bool {
	title = strings.ToLower(title)
	for _, r := range roles {
		if strings.Contains(title, r) {
			return true
		}
	}
	return false
}

func matchesCountry(country string, countries []string) bool {
	country = strings.ToLower(strings.TrimSpace(country))
	if country == "" {
		return false
	}
	for _, c := range countries {
		if country == c {
			return true
		}
	}
	return false
}

// lowered trims and lower-cases values, dropping empties.
func lowered(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
