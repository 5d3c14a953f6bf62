package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppliedJobDedupKey(t *testing.T) {
	tests := []struct {
		name string
		a, b AppliedJob
		same bool
	}{
		{
			name: "same job id",
			a:    AppliedJob{JobID: "J1", JobTitle: "X", Company: "Y"},
			b:    AppliedJob{JobID: "J1", JobTitle: "Other", Company: "Z"},
			same: true,
		},
		{
			name: "title and company ignore case and space",
			a:    AppliedJob{JobTitle: "Backend Dev", Company: "Acme"},
			b:    AppliedJob{JobTitle: " backend dev", Company: "ACME "},
			same: true,
		},
		{
			name: "different companies",
			a:    AppliedJob{JobTitle: "Backend Dev", Company: "Acme"},
			b:    AppliedJob{JobTitle: "Backend Dev", Company: "Globex"},
		},
		{
			name: "id does not collide with composite key",
			a:    AppliedJob{JobID: "x|y"},
			b:    AppliedJob{JobTitle: "x", Company: "y"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, tt.a.DedupKey() == tt.b.DedupKey())
		})
	}
}

func TestJobPreferenceEmpty(t *testing.T) {
	assert.True(t, JobPreference{}.Empty())
	assert.False(t, JobPreference{Roles: []string{"dev"}}.Empty())
	assert.False(t, JobPreference{Countries: []string{"Kenya"}}.Empty())
}
