package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

var listing = []types.Job{
	{ID: "1", Title: "Senior Developer", Country: "USA"},
	{ID: "2", Title: "Accountant", Country: "Germany"},
	{ID: "3", Title: "Nurse", Country: "Ireland"},
}

func ids(jobs []types.Job) []string {
	out := []string{}
	for _, j := range jobs {
		out = append(out, j.ID)
	}
	return out
}

func TestMatchJobs(t *testing.T) {
	tests := []struct {
		name string
		pref types.JobPreference
		want []string
	}{
		{
			name: "role substring only",
			pref: types.JobPreference{Roles: []string{"Developer"}, Countries: []string{}},
			want: []string{"1"},
		},
		{
			name: "role ignores case",
			pref: types.JobPreference{Roles: []string{"developer"}},
			want: []string{"1"},
		},
		{
			name: "country equality",
			pref: types.JobPreference{Countries: []string{"germany"}},
			want: []string{"2"},
		},
		{
			name: "role or country",
			pref: types.JobPreference{Roles: []string{"nurse"}, Countries: []string{"USA"}},
			want: []string{"1", "3"},
		},
		{
			name: "country is not a substring match",
			pref: types.JobPreference{Countries: []string{"Germ"}},
			want: []string{},
		},
		{
			name: "no roles and no countries",
			pref: types.JobPreference{Roles: []string{}, Countries: []string{}},
			want: []string{},
		},
		{
			name: "blank entries match nothing",
			pref: types.JobPreference{Roles: []string{"  "}, Countries: []string{""}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(MatchJobs(listing, tt.pref)))
		})
	}
}

func TestJobsReplaceAndFind(t *testing.T) {
	env := newTestEnv(t)
	jobs := env.store.Jobs()

	res := jobs.Replace([]types.Job{
		{ID: "j1", Title: "Developer"},
		{Title: "Designer"},
		{ID: "j3", Title: " "},
	})
	require.True(t, res.Success)
	assert.Equal(t, []string{"j1", "job_1"}, ids(res.Data))

	assert.Equal(t, "Designer", jobs.Find("job_1").Title)
	assert.Nil(t, jobs.Find("j3"))
	assert.Nil(t, jobs.Find(""))
	assert.Len(t, jobs.All(), 2)
}

func TestJobsRecommend(t *testing.T) {
	env := newTestEnv(t)
	s := env.store
	require.True(t, s.Jobs().Replace(listing).Success)

	assert.Empty(t, s.Jobs().Recommend("u1"), "no preference, no recommendations")

	require.True(t, s.Preferences().Set("u1", jsonValue(t, `["Developer"]`), jsonValue(t, `[]`)).Success)
	assert.Equal(t, []string{"1"}, ids(s.Jobs().Recommend("u1")))

	require.True(t, s.Preferences().Set("u1", jsonValue(t, `[]`), jsonValue(t, `[]`)).Success)
	assert.Empty(t, s.Jobs().Recommend("u1"))
}
