package types

// Table file names inside the data directory. Each file holds one JSON array.
const (
	UsersTable          = "users.json"
	ProfilesTable       = "profileData.json"
	CVsTable            = "cvs.json"
	CVContentTable      = "cvData.json"
	JobPreferencesTable = "userJobPreferences.json"
	AppliedJobsTable    = "appliedJobs.json"
	ExploreJobsTable    = "exploreJobs.json"
	JobsTable           = "jobs.json"
)

// TableNames lists every table file for enumeration.
var TableNames = []string{
	UsersTable,
	ProfilesTable,
	CVsTable,
	CVContentTable,
	JobPreferencesTable,
	AppliedJobsTable,
	ExploreJobsTable,
	JobsTable,
}

// tableAliases maps short CLI-friendly names to table files.
var tableAliases = map[string]string{
	"users":       UsersTable,
	"profiles":    ProfilesTable,
	"cvs":         CVsTable,
	"cvdata":      CVContentTable,
	"preferences": JobPreferencesTable,
	"applied":     AppliedJobsTable,
	"explore":     ExploreJobsTable,
	"jobs":        JobsTable,
}

// ResolveTable accepts either a short alias ("users") or a file name
// ("users.json") and returns the file name. Returns ErrUnknownTable otherwise.
func ResolveTable(name string) (string, error) {
	if file, ok := tableAliases[name]; ok {
		return file, nil
	}
	for _, t := range TableNames {
		if t == name {
			return t, nil
		}
	}
	return "", ErrUnknownTable
}
