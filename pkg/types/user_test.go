package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ada@Example.COM", "ada@example.com"},
		{"  bob@example.com\t", "bob@example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEmail(tt.in))
	}
}

func TestUserPublicStripsPassword(t *testing.T) {
	u := User{ID: "1", Email: "a@b.c", Password: "$2a$12$hash"}
	pub := u.Public()

	assert.Empty(t, pub.Password)
	assert.True(t, u.HasPassword(), "original must keep its hash")
	assert.False(t, pub.HasPassword())
}
