package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

func jsonValue(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestCVContentUpsert(t *testing.T) {
	env := newTestEnv(t)
	content := env.store.CVContent()

	res := content.Upsert("u1",
		jsonValue(t, `{"fullName": "Jane", "email": "jane@example.com"}`),
		jsonValue(t, `{"professionalSummary": "Engineer", "skills": ["Go"]}`),
	)
	require.True(t, res.Success)
	assert.Equal(t, map[string]string{"fullName": "Jane", "email": "jane@example.com"}, res.Data.PersonalDetails)
	assert.Equal(t, "Engineer", res.Data.Content.ProfessionalSummary)
	assert.Equal(t, []types.Experience{}, res.Data.Content.Experience)
	created := res.Data.CreatedAt

	env.clock.Advance(time.Hour)
	res = content.Upsert("u1",
		jsonValue(t, `{"fullName": "Jane Doe"}`),
		jsonValue(t, `{"experience": [{"title": "Dev", "company": "Acme"}]}`),
	)
	require.True(t, res.Success)

	c := res.Data
	assert.Equal(t, map[string]string{"fullName": "Jane Doe"}, c.PersonalDetails, "personal details are replaced as a whole")
	assert.Equal(t, "Engineer", c.Content.ProfessionalSummary, "absent sections are kept")
	assert.Equal(t, []string{"Go"}, c.Content.Skills)
	assert.Equal(t, []types.Experience{{Title: "Dev", Company: "Acme"}}, c.Content.Experience)
	assert.Equal(t, created, c.CreatedAt)
	assert.Equal(t, env.clock.Now(), c.UpdatedAt)

	stored := content.FindByUserID("u1")
	require.NotNil(t, stored)
	assert.Equal(t, c, *stored)
	assert.Nil(t, content.FindByUserID("u2"))
}

func TestCVContentIgnoresMalformedInput(t *testing.T) {
	env := newTestEnv(t)
	content := env.store.CVContent()
	require.True(t, content.Upsert("u1", jsonValue(t, `{"fullName": "Jane"}`), nil).Success)

	res := content.Upsert("u1", jsonValue(t, `"Jane"`), jsonValue(t, `[1, 2]`))

	require.True(t, res.Success)
	assert.Equal(t, map[string]string{"fullName": "Jane"}, res.Data.PersonalDetails)
	assert.ErrorIs(t, content.Upsert("", nil, nil).Err(), types.ErrInvalidKey)
}

func TestPreferencesSet(t *testing.T) {
	env := newTestEnv(t)
	prefs := env.store.Preferences()

	assert.Nil(t, prefs.FindByUserID("u1"))

	res := prefs.Set("u1", jsonValue(t, `["Developer", " Designer ", ""]`), nil)
	require.True(t, res.Success)
	assert.Equal(t, []string{"Developer", "Designer"}, res.Data.Roles)
	assert.Equal(t, []string{}, res.Data.Countries)

	res = prefs.Set("u1", "not a list", jsonValue(t, `["Germany"]`))
	require.True(t, res.Success)
	assert.Equal(t, []string{"Developer", "Designer"}, res.Data.Roles, "malformed roles leave the stored list")
	assert.Equal(t, []string{"Germany"}, res.Data.Countries)

	res = prefs.Set("u1", jsonValue(t, `[]`), nil)
	require.True(t, res.Success)
	assert.Empty(t, res.Data.Roles, "an empty list clears")
	assert.Equal(t, []string{"Germany"}, res.Data.Countries)

	assert.Len(t, env.readTable(t, types.JobPreferencesTable), 1)
}

func TestAppliedDedup(t *testing.T) {
	env := newTestEnv(t)
	applied := env.store.Applied()
	entry := jsonValue(t, `{"jobId": "J1", "jobTitle": "X", "company": "Y"}`)

	require.True(t, applied.Apply("u1", entry).Success)
	require.True(t, applied.Apply("u1", jsonValue(t, `{"jobTitle": "Other", "company": "Z"}`)).Success)

	env.clock.Advance(time.Hour)
	second := env.clock.Now()
	res := applied.Apply("u1", entry)
	require.True(t, res.Success)

	jobs := applied.ListByUser("u1")
	require.Len(t, jobs, 2)
	assert.Equal(t, "J1", jobs[0].JobID, "reapplied job moves to the front")
	assert.Equal(t, second, jobs[0].AppliedDate)
	assert.Equal(t, "Other", jobs[1].JobTitle)

	count := 0
	for _, j := range jobs {
		if j.JobID == "J1" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, env.readTable(t, types.AppliedJobsTable), 1)
}

func TestAppliedDedupByTitleAndCompany(t *testing.T) {
	env := newTestEnv(t)
	applied := env.store.Applied()

	require.True(t, applied.Apply("u1", jsonValue(t, `{"jobTitle": "Dev", "company": "Acme"}`)).Success)
	res := applied.Apply("u1", jsonValue(t, `{"jobTitle": " DEV ", "company": "acme", "country": "Ireland"}`))
	require.True(t, res.Success)

	require.Len(t, res.Data.Jobs, 1)
	assert.Equal(t, "Ireland", res.Data.Jobs[0].Country)
}

func TestAppliedRejectsIncompleteEntry(t *testing.T) {
	env := newTestEnv(t)
	applied := env.store.Applied()

	res := applied.Apply("u1", jsonValue(t, `{"jobTitle": "Dev"}`))

	assert.ErrorIs(t, res.Err(), types.ErrInvalidKey)
	assert.Empty(t, applied.ListByUser("u1"))
	assert.ErrorIs(t, applied.Apply(" ", nil).Err(), types.ErrInvalidKey)
}

func TestExploreFilterAndCountries(t *testing.T) {
	env := newTestEnv(t)
	explore := env.store.Explore()
	res := explore.Replace([]types.ExploreJob{
		{Job: "Software Developer", Country: "Germany", CompanyName: "A"},
		{Job: "Nurse", Country: "Ireland", CompanyName: "B"},
		{Job: "Web developer", Country: " germany ", CompanyName: "C"},
		{Job: "  ", Country: "France"},
	})
	require.True(t, res.Success)
	assert.Len(t, res.Data, 3)

	tests := []struct {
		name  string
		query ExploreQuery
		want  []string
	}{
		{"no filter", ExploreQuery{}, []string{"A", "B", "C"}},
		{"title substring", ExploreQuery{Title: "DEVELOPER"}, []string{"A", "C"}},
		{"country equality", ExploreQuery{Country: "ireland"}, []string{"B"}},
		{"both", ExploreQuery{Title: "web", Country: "Germany"}, []string{"C"}},
		{"no match", ExploreQuery{Country: "Spain"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, j := range explore.Filter(tt.query) {
				got = append(got, j.CompanyName)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, []string{"Germany", "Ireland"}, explore.Countries())
}
