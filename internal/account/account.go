// Package account implements sign-up, sign-in and Google sign-in over the
// user and profile stores. Google token verification happens before this
// package is called; GoogleSignIn trusts the identity it is given.
package account

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mesh-intelligence/jobdesk/internal/logging"
	"github.com/mesh-intelligence/jobdesk/internal/store"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// ErrInvalidInput wraps validation failures of account inputs.
var ErrInvalidInput = errors.New("invalid input")

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	HashPassword(pw string) (string, error)
	VerifyPassword(pw, storedHash string) bool
}

// RegisterInput is an email/password sign-up.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required,min=1"`
}

// GoogleInput is an already-verified Google identity.
type GoogleInput struct {
	GoogleID string `json:"googleId" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName"`
}

// Service runs the account flows.
type Service struct {
	store    *store.Store
	hasher   PasswordHasher
	validate *validator.Validate
	log      logging.Logger
}

// NewService creates a Service over s using hasher for passwords.
func NewService(s *store.Store, hasher PasswordHasher) *Service {
	return &Service{
		store:    s,
		hasher:   hasher,
		validate: validator.New(),
		log:      s.Logger(),
	}
}

// Register validates in, hashes the password and creates an email account.
// The user's profile is created with defaults. The returned user carries no
// password hash.
func (s *Service) Register(in RegisterInput) (types.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return types.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	hash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return types.User{}, err
	}
	res := s.store.Users().Create(store.NewUser{
		Email:        in.Email,
		PasswordHash: hash,
		AuthProvider: types.AuthEmail,
		FullName:     in.FullName,
	})
	if err := res.Err(); err != nil {
		return types.User{}, err
	}
	s.touchProfile(res.Data.ID)
	return res.Data.Public(), nil
}

// Login checks email and password. Unknown emails, accounts without a
// password and wrong passwords all fail with ErrInvalidCredentials.
func (s *Service) Login(email, password string) (types.User, error) {
	user := s.store.Users().FindByEmail(email)
	if user == nil || !user.HasPassword() || !s.hasher.VerifyPassword(password, user.Password) {
		return types.User{}, types.ErrInvalidCredentials
	}
	s.touchProfile(user.ID)
	return user.Public(), nil
}

// GoogleSignIn finds the account linked to in.GoogleID, else links the
// account registered with in.Email, else creates a google account. created
// reports whether a new account was made.
func (s *Service) GoogleSignIn(in GoogleInput) (user types.User, created bool, err error) {
	if err := s.validate.Struct(in); err != nil {
		return types.User{}, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	users := s.store.Users()

	if u := users.FindByGoogleID(in.GoogleID); u != nil {
		s.touchProfile(u.ID)
		return u.Public(), false, nil
	}

	if u := users.FindByEmail(in.Email); u != nil {
		if u.GoogleID != "" {
			return types.User{}, false, types.ErrGoogleAccountLinked
		}
		res := users.LinkGoogle(u.ID, in.GoogleID)
		if err := res.Err(); err != nil {
			return types.User{}, false, err
		}
		linked := res.Data
		if linked.FullName == "" && in.FullName != "" {
			name := in.FullName
			if upd := users.Update(linked.ID, store.UserPatch{FullName: &name}); upd.Success {
				linked = upd.Data
			}
		}
		s.log.Info("google account linked", "user", linked.ID)
		s.touchProfile(linked.ID)
		return linked.Public(), false, nil
	}

	res := users.Create(store.NewUser{
		Email:        in.Email,
		GoogleID:     in.GoogleID,
		AuthProvider: types.AuthGoogle,
		FullName:     in.FullName,
	})
	if err := res.Err(); err != nil {
		return types.User{}, false, err
	}
	s.touchProfile(res.Data.ID)
	return res.Data.Public(), true, nil
}

// ChangePassword replaces the password of userID after checking current.
// Google-only accounts have no current password and may set one with an
// empty current.
func (s *Service) ChangePassword(userID, current, next string) error {
	user := s.store.Users().FindByID(userID)
	if user == nil {
		return types.ErrNotFound
	}
	if user.HasPassword() && !s.hasher.VerifyPassword(current, user.Password) {
		return types.ErrInvalidCredentials
	}
	if err := s.validate.Var(next, "required,min=8,max=72"); err != nil {
		return fmt.Errorf("%w: password: %v", ErrInvalidInput, err)
	}
	hash, err := s.hasher.HashPassword(next)
	if err != nil {
		return err
	}
	return s.store.Users().Update(user.ID, store.UserPatch{PasswordHash: &hash}).Err()
}

// touchProfile makes sure the user has a profile. Failure is logged only;
// a missing profile is served from defaults.
func (s *Service) touchProfile(userID string) {
	if s.store.Profiles().FindByUserID(userID) != nil {
		return
	}
	if res := s.store.Profiles().Upsert(userID, store.ProfilePatch{}); !res.Success {
		s.log.Warn("creating profile", "user", userID, "err", res.Error)
	}
}
