package store

import (
	"github.com/mesh-intelligence/jobdesk/internal/jsonfile"
	"github.com/mesh-intelligence/jobdesk/internal/sanitize"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// CVContents is the cvData.json sub-store of structured CV content.
type CVContents struct {
	s *Store
	t *jsonfile.Table[types.CVContent]
}

// FindByUserID returns the user's CV content, or nil.
func (c *CVContents) FindByUserID(userID string) *types.CVContent {
	userID, ok := normKey(userID)
	if !ok {
		return nil
	}
	return found[types.CVContent](c.t.Find(contentOf(userID)))
}

// Upsert merges untrusted personalDetails and cvContent into the user's
// record. personalDetails is replaced as a whole when it sanitizes to a
// value; within cvContent each recognized section replaces the stored one.
func (c *CVContents) Upsert(userID string, personalDetails, cvContent any) types.Result[types.CVContent] {
	userID, ok := normKey(userID)
	if !ok {
		return types.Fail[types.CVContent](types.ErrInvalidKey)
	}
	now := c.s.Now()
	details, hasDetails := sanitize.PersonalDetails(personalDetails)
	body, hasBody := sanitize.CVBody(cvContent)

	merge := func(r *types.CVContent) {
		if hasDetails {
			r.PersonalDetails = details
		}
		if hasBody {
			body.Apply(&r.Content)
		}
		r.UpdatedAt = now
	}

	return upsert(c.t, contentOf(userID),
		func() types.CVContent {
			r := types.CVContent{
				UserID:          userID,
				PersonalDetails: map[string]string{},
				Content: types.CVBody{
					Experience: []types.Experience{},
					Education:  []types.Education{},
					Skills:     []string{},
				},
				CreatedAt: now,
			}
			merge(&r)
			return r
		},
		merge,
	)
}

func contentOf(userID string) func(types.CVContent) bool {
	return func(r types.CVContent) bool { return r.UserID == userID }
}
