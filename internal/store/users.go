package store

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/jobdesk/internal/clock"
	"github.com/mesh-intelligence/jobdesk/internal/jsonfile"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// Users is the users.json sub-store.
type Users struct {
	s *Store
	t *jsonfile.Table[types.User]
}

// NewUser holds the fields of an account being created. PasswordHash is
// already hashed by the caller.
type NewUser struct {
	Email        string
	PasswordHash string
	GoogleID     string
	AuthProvider string
	FullName     string
}

// UserPatch holds optional account changes; nil fields are left alone.
type UserPatch struct {
	FullName     *string
	PasswordHash *string
}

// All returns every user.
func (u *Users) All() []types.User {
	return u.t.LoadAll()
}

// FindByID returns the user with id, or nil.
func (u *Users) FindByID(id string) *types.User {
	id, ok := normKey(id)
	if !ok {
		return nil
	}
	return found[types.User](u.t.Find(func(r types.User) bool { return r.ID == id }))
}

// FindByEmail returns the user whose normalized email matches, or nil.
func (u *Users) FindByEmail(email string) *types.User {
	email = types.NormalizeEmail(email)
	if email == "" {
		return nil
	}
	return found[types.User](u.t.Find(func(r types.User) bool { return types.NormalizeEmail(r.Email) == email }))
}

// FindByGoogleID returns the user linked to googleID, or nil.
func (u *Users) FindByGoogleID(googleID string) *types.User {
	googleID, ok := normKey(googleID)
	if !ok {
		return nil
	}
	return found[types.User](u.t.Find(func(r types.User) bool { return r.GoogleID == googleID }))
}

// Create appends a new user. The email is stored normalized and must not
// already be registered. The ID is the creation time in milliseconds
// followed by a random token.
func (u *Users) Create(in NewUser) types.Result[types.User] {
	email := types.NormalizeEmail(in.Email)
	if email == "" {
		return types.Fail[types.User](fmt.Errorf("%w: email is required", types.ErrInvalidKey))
	}

	if _, taken := u.t.Find(func(r types.User) bool { return types.NormalizeEmail(r.Email) == email }); taken {
		return types.Fail[types.User](types.ErrEmailTaken)
	}

	now := u.s.Now()
	provider := in.AuthProvider
	if provider == "" {
		provider = types.AuthEmail
	}
	user := types.User{
		ID:           fmt.Sprintf("%d%s", now.UnixMilli(), clock.Token(u.s.ids)),
		Email:        email,
		Password:     in.PasswordHash,
		GoogleID:     strings.TrimSpace(in.GoogleID),
		AuthProvider: provider,
		FullName:     strings.TrimSpace(in.FullName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !u.t.Append(user) {
		return types.Fail[types.User](writeFailed(u.t))
	}
	u.s.log.Info("user created", "user", user.ID, "provider", provider)
	return types.OK(user)
}

// LinkGoogle records googleID on an existing user.
func (u *Users) LinkGoogle(userID, googleID string) types.Result[types.User] {
	userID, okID := normKey(userID)
	googleID, okGoogle := normKey(googleID)
	if !okID || !okGoogle {
		return types.Fail[types.User](types.ErrInvalidKey)
	}
	return modify(u.t, func(r types.User) bool { return r.ID == userID }, func(r *types.User) {
		r.GoogleID = googleID
		r.UpdatedAt = u.s.Now()
	})
}

// Update applies patch to the user with userID.
func (u *Users) Update(userID string, patch UserPatch) types.Result[types.User] {
	userID, ok := normKey(userID)
	if !ok {
		return types.Fail[types.User](types.ErrInvalidKey)
	}
	return modify(u.t, func(r types.User) bool { return r.ID == userID }, func(r *types.User) {
		if patch.FullName != nil {
			r.FullName = strings.TrimSpace(*patch.FullName)
		}
		if patch.PasswordHash != nil {
			r.Password = *patch.PasswordHash
		}
		r.UpdatedAt = u.s.Now()
	})
}
