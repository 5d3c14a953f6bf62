// Profile entity, its default templates, and the compiled presentation view.
package types

import (
	"strings"
	"time"
)

// Preference flag names.
const (
	PrefEmailNotifications = "emailNotifications"
	PrefJobRecommendations = "jobRecommendations"
	PrefApplicationUpdates = "applicationUpdates"
	PrefMarketingEmails    = "marketingEmails"
)

// Analytics metric names.
const (
	MetricCVsCreated   = "cvsCreated"
	MetricJobsApplied  = "jobsApplied"
	MetricProfileViews = "profileViews"
	MetricInterviews   = "interviews"
)

// AnalyticsKeys is the fixed analytics template, in display order.
var AnalyticsKeys = []string{MetricCVsCreated, MetricJobsApplied, MetricProfileViews, MetricInterviews}

// Weekdays is the fixed weekly activity template, in display order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Profile is the per-user record in profileData.json.
type Profile struct {
	UserID         string            `json:"userId"`
	Preferences    map[string]bool   `json:"preferences"`
	Skills         []string          `json:"skills"`
	Analytics      map[string]Metric `json:"analytics"`
	WeeklyActivity []DayActivity     `json:"weeklyActivity"`
	RecentJobs     []RecentJob       `json:"recentJobs"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Metric is one named analytics counter. Trend is always non-negative;
// its direction lives in TrendUp.
type Metric struct {
	Value   float64 `json:"value"`
	Trend   float64 `json:"trend"`
	TrendUp bool    `json:"trendUp"`
}

// DayActivity is one weekly activity bucket.
type DayActivity struct {
	Name string `json:"name"`
	CVs  int    `json:"cvs"`
	Jobs int    `json:"jobs"`
}

// RecentJob is an entry in a profile's recent jobs list.
type RecentJob struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	AppliedAt time.Time `json:"appliedAt"`
}

// ProfileView is the stable-shape profile served to clients: stored values
// layered over the default templates.
type ProfileView struct {
	UserID         string            `json:"userId"`
	Preferences    map[string]bool   `json:"preferences"`
	Skills         []string          `json:"skills"`
	Analytics      map[string]Metric `json:"analytics"`
	WeeklyActivity []DayActivity     `json:"weeklyActivity"`
	RecentJobs     []RecentJob       `json:"recentJobs"`
	IsDefault      bool              `json:"isDefault"`
	UpdatedAt      *time.Time        `json:"updatedAt,omitempty"`
}

// DefaultPreferences returns the preference flags of a user with no profile.
func DefaultPreferences() map[string]bool {
	return map[string]bool{
		PrefEmailNotifications: true,
		PrefJobRecommendations: true,
		PrefApplicationUpdates: true,
		PrefMarketingEmails:    false,
	}
}

// DefaultAnalytics returns the four zeroed metrics.
func DefaultAnalytics() map[string]Metric {
	m := make(map[string]Metric, len(AnalyticsKeys))
	for _, k := range AnalyticsKeys {
		m[k] = Metric{TrendUp: true}
	}
	return m
}

// DefaultWeeklyActivity returns seven zeroed buckets, Monday first.
func DefaultWeeklyActivity() []DayActivity {
	days := make([]DayActivity, len(Weekdays))
	for i, name := range Weekdays {
		days[i] = DayActivity{Name: name}
	}
	return days
}

// WeekdayName returns the template bucket name for t.
func WeekdayName(t time.Time) string {
	// time.Weekday starts at Sunday.
	return Weekdays[(int(t.Weekday())+6)%7]
}

// SameDay reports whether a stored bucket name refers to the template day.
// "Monday", "mon" and "Mon" all match "Mon".
func SameDay(stored, template string) bool {
	s := strings.ToLower(strings.TrimSpace(stored))
	if len(s) < 3 {
		return false
	}
	return s[:3] == strings.ToLower(template)
}

// CompileProfile builds the ProfileView for userID. A nil profile yields the
// defaults with IsDefault set. recentLimit caps RecentJobs when positive.
func CompileProfile(userID string, p *Profile, recentLimit int) ProfileView {
	view := ProfileView{
		UserID:         userID,
		Preferences:    DefaultPreferences(),
		Skills:         []string{},
		Analytics:      DefaultAnalytics(),
		WeeklyActivity: DefaultWeeklyActivity(),
		RecentJobs:     []RecentJob{},
		IsDefault:      p == nil,
	}
	if p == nil {
		return view
	}

	for k, v := range p.Preferences {
		view.Preferences[k] = v
	}
	if p.Skills != nil {
		view.Skills = append(view.Skills, p.Skills...)
	}
	for k, v := range p.Analytics {
		view.Analytics[k] = v
	}
	for i := range view.WeeklyActivity {
		for _, stored := range p.WeeklyActivity {
			if SameDay(stored.Name, view.WeeklyActivity[i].Name) {
				view.WeeklyActivity[i].CVs = stored.CVs
				view.WeeklyActivity[i].Jobs = stored.Jobs
				break
			}
		}
	}
	recent := p.RecentJobs
	if recentLimit > 0 && len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	view.RecentJobs = append(view.RecentJobs, recent...)

	updated := p.UpdatedAt
	view.UpdatedAt = &updated
	return view
}
