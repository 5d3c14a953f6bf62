package schema

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jobdesk/internal/store"
	"github.com/mesh-intelligence/jobdesk/internal/testutil"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

func TestEverySchemaCompiles(t *testing.T) {
	for _, table := range types.TableNames {
		t.Run(table, func(t *testing.T) {
			s, err := Load(table)
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestLoadUnknownTable(t *testing.T) {
	_, err := Load("bogus")
	assert.ErrorIs(t, err, types.ErrUnknownTable)
}

func TestCompileBrokenSchema(t *testing.T) {
	_, err := compile("broken.schema.json", []byte(`{"type": 12}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "broken.schema.json", loadErr.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		table     string
		doc       string
		wantField string
	}{
		{"empty table", "users", `[]`, ""},
		{"valid user", "users", `[{"id": "1", "email": "a@b.co", "authProvider": "email"}]`, ""},
		{"unknown provider", "users", `[{"id": "1", "email": "a@b.co", "authProvider": "github"}]`, "0.authProvider"},
		{"missing user id", "users", `[{"email": "a@b.co", "authProvider": "email"}]`, "0"},
		{"negative trend", "profiles", `[{"userId": "u", "analytics": {"a": {"trend": -1}}}]`, "0.analytics.a.trend"},
		{"fractional count", "profiles", `[{"userId": "u", "weeklyActivity": [{"name": "Mon", "cvs": 1.5}]}]`, "0.weeklyActivity.0.cvs"},
		{"applied without company", "applied", `[{"userId": "u", "jobs": [{"jobTitle": "Dev"}]}]`, "0.jobs.0"},
		{"not an array", "jobs", `{"id": "1"}`, "(root)"},
		{"bad date", "preferences", `[{"userId": "u", "updatedAt": "yesterday"}]`, "0.updatedAt"},
		{"invalid json", "explore", `[{`, "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.table, []byte(tt.doc))
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			fields := make([]string, 0, len(ve.Errors))
			for _, fe := range ve.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.wantField)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

// Files written by the store must always pass the schemas.
func TestCheckDirOnStoreOutput(t *testing.T) {
	dir := t.TempDir()
	s, err := store.Open(types.Config{DataDir: dir},
		store.WithClock(testutil.FixedClock()),
		store.WithIDGenerator(testutil.NewStubIDGenerator()),
	)
	require.NoError(t, err)
	defer s.Close()

	user := s.Users().Create(store.NewUser{Email: "a@example.com", PasswordHash: "h", FullName: "A"})
	require.True(t, user.Success)
	uid := user.Data.ID
	require.True(t, s.Profiles().RecordActivity(uid, store.ActivityJob, time.Time{}).Success)
	require.True(t, s.Profiles().AddRecentJob(uid, types.RecentJob{Title: "Dev", Company: "Acme"}).Success)
	require.True(t, s.CVs().Add(store.NewCV{UserID: uid, OriginalFileName: "cv.pdf"}).Success)
	require.True(t, s.CVContent().Upsert(uid, map[string]any{"fullName": "A"}, nil).Success)
	require.True(t, s.Preferences().Set(uid, []any{"Dev"}, []any{}).Success)
	require.True(t, s.Applied().Apply(uid, map[string]any{"jobTitle": "Dev", "company": "Acme"}).Success)
	require.True(t, s.Explore().Replace([]types.ExploreJob{{Job: "Nurse", Country: "Ireland"}}).Success)
	require.True(t, s.Jobs().Replace([]types.Job{{Title: "Dev"}}).Success)

	reports, err := CheckDir(dir)
	require.NoError(t, err)
	require.Len(t, reports, len(types.TableNames))
	for _, r := range reports {
		assert.True(t, r.Valid, "%s: %v", r.Table, r.Errors)
		assert.False(t, r.Missing, r.Table)
	}
}

func TestCheckDirReportsProblems(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, types.JobsTable), []byte(`[{"title": ""}]`), 0o644))

	reports, err := CheckDir(dir)
	require.NoError(t, err)

	byTable := map[string]TableReport{}
	for _, r := range reports {
		byTable[r.Table] = r
	}
	assert.True(t, byTable[types.UsersTable].Missing)
	assert.True(t, byTable[types.UsersTable].Valid)
	assert.False(t, byTable[types.JobsTable].Valid)
	assert.NotEmpty(t, byTable[types.JobsTable].Errors)
}
