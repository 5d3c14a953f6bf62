package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/jobdesk/internal/clock"
	"github.com/mesh-intelligence/jobdesk/internal/jsonfile"
	"github.com/mesh-intelligence/jobdesk/internal/sanitize"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// Profiles is the profileData.json sub-store.
type Profiles struct {
	s *Store
	t *jsonfile.Table[types.Profile]
}

// ProfilePatch carries untrusted profile fields as decoded from JSON. Each
// field is sanitized before it is merged; a nil or unrecognized field leaves
// the stored value alone.
type ProfilePatch struct {
	Preferences    any `json:"preferences,omitempty"`
	Skills         any `json:"skills,omitempty"`
	Analytics      any `json:"analytics,omitempty"`
	WeeklyActivity any `json:"weeklyActivity,omitempty"`
	RecentJobs     any `json:"recentJobs,omitempty"`
}

// Activity kinds counted by RecordActivity.
type Activity string

const (
	ActivityCV  Activity = "cv"
	ActivityJob Activity = "job"
)

// ParseActivity maps "cv" and "job" (any case) to an Activity.
func ParseActivity(s string) (Activity, error) {
	switch a := Activity(strings.ToLower(strings.TrimSpace(s))); a {
	case ActivityCV, ActivityJob:
		return a, nil
	}
	return "", fmt.Errorf("%w: activity %q", types.ErrInvalidKey, s)
}

// FindByUserID returns the stored profile, or nil.
func (p *Profiles) FindByUserID(userID string) *types.Profile {
	userID, ok := normKey(userID)
	if !ok {
		return nil
	}
	return found[types.Profile](p.t.Find(profileOf(userID)))
}

// Upsert creates the profile from the defaults plus patch, or merges patch
// into the stored profile. Preferences and analytics merge key by key;
// skills, weeklyActivity and recentJobs are replaced wholesale.
func (p *Profiles) Upsert(userID string, patch ProfilePatch) types.Result[types.Profile] {
	userID, ok := normKey(userID)
	if !ok {
		return types.Fail[types.Profile](types.ErrInvalidKey)
	}
	now := p.s.Now()

	prefs, hasPrefs := sanitize.Preferences(patch.Preferences)
	skills, hasSkills := sanitize.Skills(patch.Skills)
	analytics, hasAnalytics := sanitize.Analytics(patch.Analytics)
	weekly, hasWeekly := sanitize.WeeklyActivity(patch.WeeklyActivity)
	recent, hasRecent := sanitize.RecentJobs(patch.RecentJobs, now, p.s.ids)

	merge := func(r *types.Profile) {
		if hasPrefs {
			if r.Preferences == nil {
				r.Preferences = map[string]bool{}
			}
			for k, v := range prefs {
				r.Preferences[k] = v
			}
		}
		if hasAnalytics {
			if r.Analytics == nil {
				r.Analytics = map[string]types.Metric{}
			}
			for k, v := range analytics {
				r.Analytics[k] = v
			}
		}
		if hasSkills {
			r.Skills = skills
		}
		if hasWeekly {
			r.WeeklyActivity = weekly
		}
		if hasRecent {
			r.RecentJobs = recent
		}
		r.UpdatedAt = now
	}

	return upsert(p.t, profileOf(userID),
		func() types.Profile {
			r := newProfile(userID, now)
			merge(&r)
			return r
		},
		merge,
	)
}

// View compiles the stable-shape profile for userID. A user without a
// stored profile gets the defaults with IsDefault set.
func (p *Profiles) View(userID string) types.ProfileView {
	userID = strings.TrimSpace(userID)
	return types.CompileProfile(userID, p.FindByUserID(userID), p.s.cfg.RecentJobsLimit)
}

// RecordActivity counts one action at time at: the weekday bucket and the
// matching analytics counter both go up by one. The profile is created when
// missing.
func (p *Profiles) RecordActivity(userID string, kind Activity, at time.Time) types.Result[types.Profile] {
	userID, ok := normKey(userID)
	if !ok {
		return types.Fail[types.Profile](types.ErrInvalidKey)
	}
	if kind != ActivityCV && kind != ActivityJob {
		return types.Fail[types.Profile](fmt.Errorf("%w: activity %q", types.ErrInvalidKey, kind))
	}
	now := p.s.Now()
	if at.IsZero() {
		at = now
	}
	day := types.WeekdayName(at)
	metricName := types.MetricCVsCreated
	if kind == ActivityJob {
		metricName = types.MetricJobsApplied
	}

	bump := func(r *types.Profile) {
		idx := -1
		for i := range r.WeeklyActivity {
			if types.SameDay(r.WeeklyActivity[i].Name, day) {
				idx = i
				break
			}
		}
		if idx < 0 {
			r.WeeklyActivity = append(r.WeeklyActivity, types.DayActivity{Name: day})
			idx = len(r.WeeklyActivity) - 1
		}
		if kind == ActivityCV {
			r.WeeklyActivity[idx].CVs++
		} else {
			r.WeeklyActivity[idx].Jobs++
		}

		if r.Analytics == nil {
			r.Analytics = map[string]types.Metric{}
		}
		m, exists := r.Analytics[metricName]
		if !exists {
			m = types.Metric{TrendUp: true}
		}
		m.Value++
		r.Analytics[metricName] = m
		r.UpdatedAt = now
	}

	return upsert(p.t, profileOf(userID),
		func() types.Profile {
			r := newProfile(userID, now)
			bump(&r)
			return r
		},
		bump,
	)
}

// AddRecentJob puts job at the front of the recent jobs list. An existing
// entry with the same id, or the same title and company, is dropped, and
// the list is capped at the configured limit.
func (p *Profiles) AddRecentJob(userID string, job types.RecentJob) types.Result[types.Profile] {
	userID, ok := normKey(userID)
	if !ok {
		return types.Fail[types.Profile](types.ErrInvalidKey)
	}
	job.Title = strings.TrimSpace(job.Title)
	job.Company = strings.TrimSpace(job.Company)
	if job.Title == "" {
		return types.Fail[types.Profile](fmt.Errorf("%w: recent job title is required", types.ErrInvalidKey))
	}
	now := p.s.Now()
	if strings.TrimSpace(job.ID) == "" {
		job.ID = clock.Prefixed("job", p.s.ids)
	}
	if job.AppliedAt.IsZero() {
		job.AppliedAt = now
	}
	limit := p.s.cfg.RecentJobsLimit

	push := func(r *types.Profile) {
		list := make([]types.RecentJob, 0, len(r.RecentJobs)+1)
		list = append(list, job)
		for _, existing := range r.RecentJobs {
			if existing.ID == job.ID || sameRecentJob(existing, job) {
				continue
			}
			list = append(list, existing)
		}
		if limit > 0 && len(list) > limit {
			list = list[:limit]
		}
		r.RecentJobs = list
		r.UpdatedAt = now
	}

	return upsert(p.t, profileOf(userID),
		func() types.Profile {
			r := newProfile(userID, now)
			push(&r)
			return r
		},
		push,
	)
}

func sameRecentJob(a, b types.RecentJob) bool {
	return strings.EqualFold(strings.TrimSpace(a.Title), b.Title) &&
		strings.EqualFold(strings.TrimSpace(a.Company), b.Company)
}

func profileOf(userID string) func(types.Profile) bool {
	return func(r types.Profile) bool { return r.UserID == userID }
}

// newProfile returns the default profile created on first touch.
func newProfile(userID string, now time.Time) types.Profile {
	return types.Profile{
		UserID:         userID,
		Preferences:    types.DefaultPreferences(),
		Skills:         []string{},
		Analytics:      types.DefaultAnalytics(),
		WeeklyActivity: types.DefaultWeeklyActivity(),
		RecentJobs:     []types.RecentJob{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
