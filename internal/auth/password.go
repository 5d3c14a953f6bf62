// Package auth hashes and verifies account passwords with bcrypt.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt cost bounds accepted by NewPasswordConfig.
const (
	MinCost     = 10
	MaxCost     = 14
	DefaultCost = 12
)

// ErrCostOutOfRange is returned for a bcrypt cost outside MinCost..MaxCost.
var ErrCostOutOfRange = errors.New("bcrypt cost out of range")

// PasswordConfig holds configuration for password hashing and verification.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // optional global secret appended before hashing
}

// NewPasswordConfig validates cost and returns a config. A zero cost means
// DefaultCost.
func NewPasswordConfig(cost int, pepper string) (*PasswordConfig, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	c := &PasswordConfig{BcryptCost: cost, Pepper: pepper}
	if err := c.normalize(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < MinCost || c.BcryptCost > MaxCost {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrCostOutOfRange, c.BcryptCost, MinCost, MaxCost)
	}
	return nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword hashes a password using bcrypt (with optional pepper).
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash. An empty hash never
// matches.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}
