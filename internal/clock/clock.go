// Package clock abstracts time and random ID generation so storage logic is
// deterministic in tests.
package clock

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator produces random tokens.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random (v4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// Token returns a short random token drawn from gen: the last dash-separated
// group of the generated ID, which is random for both UUIDs and stub IDs.
func Token(gen IDGenerator) string {
	id := gen.New()
	if i := strings.LastIndexByte(id, '-'); i >= 0 && i < len(id)-1 {
		return id[i+1:]
	}
	return id
}

// Prefixed returns prefix + "_" + Token(gen), e.g. "cv_3f9a0c1b2d4e".
func Prefixed(prefix string, gen IDGenerator) string {
	return prefix + "_" + Token(gen)
}
