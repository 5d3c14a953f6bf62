package store

import (
	"github.com/mesh-intelligence/jobdesk/internal/jsonfile"
	"github.com/mesh-intelligence/jobdesk/internal/sanitize"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// Preferences is the userJobPreferences.json sub-store.
type Preferences struct {
	s *Store
	t *jsonfile.Table[types.JobPreference]
}

// All returns every stored preference.
func (p *Preferences) All() []types.JobPreference {
	return p.t.LoadAll()
}

// FindByUserID returns the user's job preference, or nil.
func (p *Preferences) FindByUserID(userID string) *types.JobPreference {
	userID, ok := normKey(userID)
	if !ok {
		return nil
	}
	return found[types.JobPreference](p.t.Find(prefOf(userID)))
}

// Set replaces roles and countries with the sanitized inputs. A list that
// is not an array of strings is left as stored; an empty array clears it.
func (p *Preferences) Set(userID string, roles, countries any) types.Result[types.JobPreference] {
	userID, ok := normKey(userID)
	if !ok {
		return types.Fail[types.JobPreference](types.ErrInvalidKey)
	}
	now := p.s.Now()
	r, hasRoles := sanitize.Strings(roles)
	c, hasCountries := sanitize.Strings(countries)

	merge := func(rec *types.JobPreference) {
		if hasRoles {
			rec.Roles = r
		}
		if hasCountries {
			rec.Countries = c
		}
		rec.UpdatedAt = now
	}

	return upsert(p.t, prefOf(userID),
		func() types.JobPreference {
			rec := types.JobPreference{UserID: userID, Roles: []string{}, Countries: []string{}}
			merge(&rec)
			return rec
		},
		merge,
	)
}

func prefOf(userID string) func(types.JobPreference) bool {
	return func(r types.JobPreference) bool { return r.UserID == userID }
}
