package account

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jobdesk/internal/auth"
	"github.com/mesh-intelligence/jobdesk/internal/store"
	"github.com/mesh-intelligence/jobdesk/internal/testutil"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// fakeHasher keeps tests fast; bcrypt is covered in the auth package.
type fakeHasher struct{}

func (fakeHasher) HashPassword(pw string) (string, error) { return "hashed:" + pw, nil }

func (fakeHasher) VerifyPassword(pw, stored string) bool {
	return stored != "" && stored == "hashed:"+pw
}

func newService(t *testing.T, hasher PasswordHasher) (*Service, *store.Store) {
	t.Helper()
	s, err := store.Open(types.Config{DataDir: t.TempDir()},
		store.WithClock(testutil.FixedClock()),
		store.WithIDGenerator(testutil.NewStubIDGenerator()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewService(s, hasher), s
}

func TestRegister(t *testing.T) {
	svc, s := newService(t, fakeHasher{})

	u, err := svc.Register(RegisterInput{Email: "Jane@Example.com", Password: "longenough", FullName: "Jane"})
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", u.Email)
	assert.Empty(t, u.Password, "returned user has no hash")
	assert.Equal(t, types.AuthEmail, u.AuthProvider)
	assert.Equal(t, "hashed:longenough", s.Users().FindByID(u.ID).Password)
	assert.NotNil(t, s.Profiles().FindByUserID(u.ID), "profile created on sign-up")
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing email", RegisterInput{Password: "longenough", FullName: "J"}},
		{"bad email", RegisterInput{Email: "not-an-email", Password: "longenough", FullName: "J"}},
		{"short password", RegisterInput{Email: "j@example.com", Password: "short", FullName: "J"}},
		{"long password", RegisterInput{Email: "j@example.com", Password: strings.Repeat("p", 73), FullName: "J"}},
		{"missing name", RegisterInput{Email: "j@example.com", Password: "longenough"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, s := newService(t, fakeHasher{})
			_, err := svc.Register(tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, s.Users().All())
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService(t, fakeHasher{})
	_, err := svc.Register(RegisterInput{Email: "a@example.com", Password: "longenough", FullName: "A"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Email: "A@example.com", Password: "longenough", FullName: "B"})

	assert.ErrorIs(t, err, types.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t, fakeHasher{})
	registered, err := svc.Register(RegisterInput{Email: "a@example.com", Password: "longenough", FullName: "A"})
	require.NoError(t, err)

	u, err := svc.Login(" A@example.com ", "longenough")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.Empty(t, u.Password)

	_, err = svc.Login("a@example.com", "wrong-password")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "longenough")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
}

func TestLoginGoogleOnlyAccount(t *testing.T) {
	svc, _ := newService(t, fakeHasher{})
	_, _, err := svc.GoogleSignIn(GoogleInput{GoogleID: "g1", Email: "g@example.com"})
	require.NoError(t, err)

	_, err = svc.Login("g@example.com", "")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
}

func TestGoogleSignIn(t *testing.T) {
	t.Run("creates a google account", func(t *testing.T) {
		svc, s := newService(t, fakeHasher{})

		u, created, err := svc.GoogleSignIn(GoogleInput{GoogleID: "g1", Email: "g@example.com", FullName: "G"})
		require.NoError(t, err)

		assert.True(t, created)
		assert.Equal(t, types.AuthGoogle, u.AuthProvider)
		assert.Equal(t, "g1", u.GoogleID)
		assert.NotNil(t, s.Profiles().FindByUserID(u.ID))

		again, created, err := svc.GoogleSignIn(GoogleInput{GoogleID: "g1", Email: "g@example.com"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, u.ID, again.ID)
		assert.Len(t, s.Users().All(), 1)
	})

	t.Run("links an existing email account", func(t *testing.T) {
		svc, s := newService(t, fakeHasher{})
		registered, err := svc.Register(RegisterInput{Email: "e@example.com", Password: "longenough", FullName: "E"})
		require.NoError(t, err)

		u, created, err := svc.GoogleSignIn(GoogleInput{GoogleID: "g2", Email: "E@example.com"})
		require.NoError(t, err)

		assert.False(t, created)
		assert.Equal(t, registered.ID, u.ID)
		assert.Equal(t, "g2", u.GoogleID)
		assert.Equal(t, types.AuthEmail, u.AuthProvider)
		assert.Len(t, s.Users().All(), 1)

		_, err = svc.Login("e@example.com", "longenough")
		assert.NoError(t, err, "password still works after linking")
	})

	t.Run("refuses a second google identity", func(t *testing.T) {
		svc, _ := newService(t, fakeHasher{})
		_, _, err := svc.GoogleSignIn(GoogleInput{GoogleID: "g3", Email: "x@example.com"})
		require.NoError(t, err)

		_, _, err = svc.GoogleSignIn(GoogleInput{GoogleID: "g4", Email: "x@example.com"})
		assert.ErrorIs(t, err, types.ErrGoogleAccountLinked)
	})

	t.Run("requires an identity", func(t *testing.T) {
		svc, _ := newService(t, fakeHasher{})
		_, _, err := svc.GoogleSignIn(GoogleInput{Email: "x@example.com"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestChangePassword(t *testing.T) {
	svc, _ := newService(t, fakeHasher{})
	u, err := svc.Register(RegisterInput{Email: "c@example.com", Password: "firstpass", FullName: "C"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(u.ID, "wrong", "secondpass"), types.ErrInvalidCredentials)
	assert.ErrorIs(t, svc.ChangePassword(u.ID, "firstpass", "short"), ErrInvalidInput)
	assert.ErrorIs(t, svc.ChangePassword("nobody", "", "secondpass"), types.ErrNotFound)

	require.NoError(t, svc.ChangePassword(u.ID, "firstpass", "secondpass"))
	_, err = svc.Login("c@example.com", "secondpass")
	assert.NoError(t, err)
	_, err = svc.Login("c@example.com", "firstpass")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)
}

func TestRegisterWithBcrypt(t *testing.T) {
	hasher, err := auth.NewPasswordConfig(auth.MinCost, "")
	require.NoError(t, err)
	svc, s := newService(t, hasher)

	u, err := svc.Register(RegisterInput{Email: "b@example.com", Password: "bcrypted!", FullName: "B"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(s.Users().FindByID(u.ID).Password, "$2a$"))
	_, err = svc.Login("b@example.com", "bcrypted!")
	assert.NoError(t, err)
}
