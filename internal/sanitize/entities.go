package sanitize

import (
	"strings"
	"time"

	"github.com/mesh-intelligence/jobdesk/internal/clock"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// Preferences keeps the boolean-valued entries of an object.
func Preferences(v any) (map[string]bool, bool) {
	obj, ok := object(v)
	if !ok {
		return nil, false
	}
	out := make(map[string]bool, len(obj))
	for k, raw := range obj {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if b, isBool := Bool(raw); isBool {
			out[k] = b
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// Skills may legitimately be empty.
func Skills(v any) ([]string, bool) {
	return Strings(v)
}

// Analytics sanitizes an object of metric objects. A metric survives when
// any of value, trend or trendUp is recognized; the rest take the metric
// defaults (zero, zero, up).
func Analytics(v any) (map[string]types.Metric, bool) {
	obj, ok := object(v)
	if !ok {
		return nil, false
	}
	out := make(map[string]types.Metric, len(obj))
	for k, raw := range obj {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if m, isMetric := metric(raw); isMetric {
			out[k] = m
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func metric(v any) (types.Metric, bool) {
	obj, ok := object(v)
	if !ok {
		return types.Metric{}, false
	}
	m := types.Metric{TrendUp: true}
	var seen bool
	if f, ok := Number(obj["value"]); ok {
		m.Value = f
		seen = true
	}
	if f, ok := Trend(obj["trend"]); ok {
		m.Trend = f
		seen = true
	}
	if b, ok := Bool(obj["trendUp"]); ok {
		m.TrendUp = b
		seen = true
	}
	return m, seen
}

// WeeklyActivity keeps the named day buckets of an array. Counts are
// coerced to non-negative integers and default to zero.
func WeeklyActivity(v any) ([]types.DayActivity, bool) {
	arr, ok := array(v)
	if !ok {
		return nil, false
	}
	out := make([]types.DayActivity, 0, len(arr))
	for _, elem := range arr {
		obj, isObj := object(elem)
		if !isObj {
			continue
		}
		name, hasName := String(obj["name"])
		if !hasName {
			continue
		}
		day := types.DayActivity{Name: name}
		day.CVs, _ = Count(obj["cvs"])
		day.Jobs, _ = Count(obj["jobs"])
		out = append(out, day)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// RecentJobs keeps the array entries that carry a title. Missing ids become
// "job_<token>" and unparseable dates become now.
func RecentJobs(v any, now time.Time, gen clock.IDGenerator) ([]types.RecentJob, bool) {
	arr, ok := array(v)
	if !ok {
		return nil, false
	}
	out := make([]types.RecentJob, 0, len(arr))
	for _, elem := range arr {
		obj, isObj := object(elem)
		if !isObj {
			continue
		}
		title, hasTitle := String(obj["title"])
		if !hasTitle {
			continue
		}
		company, _ := String(obj["company"])
		out = append(out, types.RecentJob{
			ID:        ID(obj["id"], "job", gen),
			Title:     title,
			Company:   company,
			AppliedAt: Date(obj["appliedAt"], now),
		})
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// PersonalDetails keeps the scalar entries of an object as strings.
func PersonalDetails(v any) (map[string]string, bool) {
	obj, ok := object(v)
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(obj))
	for k, raw := range obj {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if s, isString := String(raw); isString {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// CVBodyPatch carries the recognized sections of a cvContent object. A nil
// field was absent from the input and leaves the stored section alone.
type CVBodyPatch struct {
	ProfessionalSummary *string
	Experience          []types.Experience
	Education           []types.Education
	Skills              []string
}

// Apply replaces the sections of body that the patch carries.
func (p CVBodyPatch) Apply(body *types.CVBody) {
	if p.ProfessionalSummary != nil {
		body.ProfessionalSummary = *p.ProfessionalSummary
	}
	if p.Experience != nil {
		body.Experience = p.Experience
	}
	if p.Education != nil {
		body.Education = p.Education
	}
	if p.Skills != nil {
		body.Skills = p.Skills
	}
}

// CVBody sanitizes a cvContent object. It is absent when no section is
// recognized.
func CVBody(v any) (CVBodyPatch, bool) {
	obj, ok := object(v)
	if !ok {
		return CVBodyPatch{}, false
	}
	var p CVBodyPatch
	seen := false
	if s, ok := String(obj["professionalSummary"]); ok {
		p.ProfessionalSummary = &s
		seen = true
	}
	if exp, ok := experience(obj["experience"]); ok {
		p.Experience = exp
		seen = true
	}
	if edu, ok := education(obj["education"]); ok {
		p.Education = edu
		seen = true
	}
	if skills, ok := Skills(obj["skills"]); ok {
		p.Skills = skills
		seen = true
	}
	return p, seen
}

func experience(v any) ([]types.Experience, bool) {
	arr, ok := array(v)
	if !ok {
		return nil, false
	}
	out := make([]types.Experience, 0, len(arr))
	for _, elem := range arr {
		obj, isObj := object(elem)
		if !isObj {
			continue
		}
		e := types.Experience{}
		e.Title, _ = String(obj["title"])
		e.Company, _ = String(obj["company"])
		if e.Title == "" && e.Company == "" {
			continue
		}
		e.Location, _ = String(obj["location"])
		e.StartDate, _ = String(obj["startDate"])
		e.EndDate, _ = String(obj["endDate"])
		e.Description, _ = String(obj["description"])
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func education(v any) ([]types.Education, bool) {
	arr, ok := array(v)
	if !ok {
		return nil, false
	}
	out := make([]types.Education, 0, len(arr))
	for _, elem := range arr {
		obj, isObj := object(elem)
		if !isObj {
			continue
		}
		e := types.Education{}
		e.Degree, _ = String(obj["degree"])
		e.Institution, _ = String(obj["institution"])
		if e.Degree == "" && e.Institution == "" {
			continue
		}
		e.StartDate, _ = String(obj["startDate"])
		e.EndDate, _ = String(obj["endDate"])
		e.Grade, _ = String(obj["grade"])
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// AppliedJob sanitizes an application entry. jobTitle and company are
// required; jobId and country are optional. AppliedDate is left zero for the
// store to stamp.
func AppliedJob(v any) (types.AppliedJob, bool) {
	obj, ok := object(v)
	if !ok {
		return types.AppliedJob{}, false
	}
	title, hasTitle := String(obj["jobTitle"])
	company, hasCompany := String(obj["company"])
	if !hasTitle || !hasCompany {
		return types.AppliedJob{}, false
	}
	job := types.AppliedJob{JobTitle: title, Company: company}
	job.JobID, _ = String(obj["jobId"])
	job.Country, _ = String(obj["country"])
	return job, true
}
