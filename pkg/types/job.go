package types

import (
	"strings"
	"time"
)

// JobPreference is the per-user record in userJobPreferences.json.
type JobPreference struct {
	UserID    string    `json:"userId"`
	Roles     []string  `json:"roles"`
	Countries []string  `json:"countries"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Empty reports whether the preference carries no roles and no countries.
func (p JobPreference) Empty() bool {
	return len(p.Roles) == 0 && len(p.Countries) == 0
}

// AppliedJobs is the per-user record in appliedJobs.json. Jobs is newest first.
type AppliedJobs struct {
	UserID    string       `json:"userId"`
	Jobs      []AppliedJob `json:"jobs"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// AppliedJob is one application entry.
type AppliedJob struct {
	JobID       string    `json:"jobId,omitempty"`
	JobTitle    string    `json:"jobTitle"`
	Company     string    `json:"company"`
	AppliedDate time.Time `json:"appliedDate"`
	Country     string    `json:"country,omitempty"`
}

// DedupKey identifies an application: the job ID when present, otherwise the
// lower-cased "title|company" pair.
func (a AppliedJob) DedupKey() string {
	if id := strings.TrimSpace(a.JobID); id != "" {
		return "id:" + id
	}
	return "tc:" + strings.ToLower(strings.TrimSpace(a.JobTitle)) + "|" + strings.ToLower(strings.TrimSpace(a.Company))
}

// ExploreJob is a read-only reference listing in exploreJobs.json.
type ExploreJob struct {
	Job         string `json:"job"`
	Country     string `json:"country"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email,omitempty"`
	SourceURL   string `json:"sourceURL,omitempty"`
	Location    string `json:"location,omitempty"`
	Salary      string `json:"salary,omitempty"`
	PostedDate  string `json:"postedDate,omitempty"`
}

// Job is a listing in jobs.json, matched against job preferences.
type Job struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Country     string `json:"country"`
	Location    string `json:"location,omitempty"`
	Type        string `json:"type,omitempty"`
	Salary      string `json:"salary,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	PostedAt    string `json:"postedAt,omitempty"`
}
