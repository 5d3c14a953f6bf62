// Package store is the job-seeker record store. A Store owns one JSON array
// file per entity type in a data directory and exposes one sub-store per
// entity with its upsert, merge and query operations.
//
// Reads return values directly (nil or an empty slice when nothing matches).
// Writes return a types.Result carrying the full record as persisted. No
// operation panics or returns an error a caller must handle to keep running;
// I/O failures are logged and surface as empty reads or failed results.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mesh-intelligence/jobdesk/internal/clock"
	"github.com/mesh-intelligence/jobdesk/internal/jsonfile"
	"github.com/mesh-intelligence/jobdesk/internal/logging"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// Store is an open data directory.
type Store struct {
	cfg   types.Config
	clock clock.Clock
	ids   clock.IDGenerator
	log   logging.Logger

	users      *Users
	profiles   *Profiles
	cvs        *CVs
	cvContent  *CVContents
	prefs      *Preferences
	applied    *Applied
	explore    *Explore
	jobs       *Jobs
	raw        map[string]*jsonfile.Table[json.RawMessage]
	primaryKey map[string]string
}

// Option configures Open.
type Option func(*Store)

// WithClock sets the time source used for timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator sets the source of random tokens used in record IDs.
func WithIDGenerator(g clock.IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithLogger sets the logger for fail-soft reporting.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open validates cfg, creates the data and upload directories and ensures
// every table file exists. Existing files are left untouched.
func Open(cfg types.Config, opts ...Option) (*Store, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		cfg:   cfg,
		clock: clock.RealClock{},
		ids:   clock.UUIDGenerator{},
		log:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	s.users = &Users{s: s, t: newTable[types.User](s, types.UsersTable)}
	s.profiles = &Profiles{s: s, t: newTable[types.Profile](s, types.ProfilesTable)}
	s.cvs = &CVs{s: s, t: newTable[types.CV](s, types.CVsTable)}
	s.cvContent = &CVContents{s: s, t: newTable[types.CVContent](s, types.CVContentTable)}
	s.prefs = &Preferences{s: s, t: newTable[types.JobPreference](s, types.JobPreferencesTable)}
	s.applied = &Applied{s: s, t: newTable[types.AppliedJobs](s, types.AppliedJobsTable)}
	s.explore = &Explore{s: s, t: newTable[types.ExploreJob](s, types.ExploreJobsTable)}
	s.jobs = &Jobs{s: s, t: newTable[types.Job](s, types.JobsTable)}

	s.raw = make(map[string]*jsonfile.Table[json.RawMessage], len(types.TableNames))
	for _, name := range types.TableNames {
		t := newTable[json.RawMessage](s, name)
		if err := t.Ensure(); err != nil {
			return nil, err
		}
		s.raw[name] = t
	}
	s.primaryKey = map[string]string{
		types.UsersTable:          "id",
		types.ProfilesTable:       "userId",
		types.CVsTable:            "id",
		types.CVContentTable:      "userId",
		types.JobPreferencesTable: "userId",
		types.AppliedJobsTable:    "userId",
		types.JobsTable:           "id",
	}

	s.log.Debug("store opened", "data_dir", cfg.DataDir, "atomic_writes", cfg.AtomicWrites)
	return s, nil
}

func newTable[T any](s *Store, name string) *jsonfile.Table[T] {
	return jsonfile.New[T](s.cfg.DataDir, name,
		jsonfile.WithAtomicWrites(s.cfg.AtomicWrites),
		jsonfile.WithLogger(s.log),
	)
}

// Close releases the store. It is idempotent. The store caches nothing, so
// there is nothing to flush.
func (s *Store) Close() error {
	return nil
}

// Config returns the effective configuration.
func (s *Store) Config() types.Config { return s.cfg }

// Logger returns the store's logger.
func (s *Store) Logger() logging.Logger { return s.log }

// Now returns the store clock's current time.
func (s *Store) Now() time.Time { return s.clock.Now().UTC() }

// Users returns the users.json sub-store.
func (s *Store) Users() *Users { return s.users }

// Profiles returns the profileData.json sub-store.
func (s *Store) Profiles() *Profiles { return s.profiles }

// CVs returns the cvs.json sub-store.
func (s *Store) CVs() *CVs { return s.cvs }

// CVContent returns the cvData.json sub-store.
func (s *Store) CVContent() *CVContents { return s.cvContent }

// Preferences returns the userJobPreferences.json sub-store.
func (s *Store) Preferences() *Preferences { return s.prefs }

// Applied returns the appliedJobs.json sub-store.
func (s *Store) Applied() *Applied { return s.applied }

// Explore returns the exploreJobs.json sub-store.
func (s *Store) Explore() *Explore { return s.explore }

// Jobs returns the jobs.json sub-store.
func (s *Store) Jobs() *Jobs { return s.jobs }

// Records returns the raw elements of a table. name may be a file name or
// an alias such as "users".
func (s *Store) Records(name string) ([]json.RawMessage, error) {
	file, err := types.ResolveTable(name)
	if err != nil {
		return nil, err
	}
	return s.raw[file].LoadAll(), nil
}

// Get returns the raw record of a table whose primary key field equals key.
// It returns ErrNotFound when no record matches and ErrInvalidKey for tables
// without a primary key.
func (s *Store) Get(name, key string) (json.RawMessage, error) {
	file, err := types.ResolveTable(name)
	if err != nil {
		return nil, err
	}
	field, ok := s.primaryKey[file]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no primary key", types.ErrInvalidKey, file)
	}
	key = strings.TrimSpace(key)
	for _, rec := range s.raw[file].LoadAll() {
		var fields map[string]any
		if err := json.Unmarshal(rec, &fields); err != nil {
			continue
		}
		if v, ok := fields[field].(string); ok && v == key {
			return rec, nil
		}
	}
	return nil, types.ErrNotFound
}

// writeFailed builds the failure for a table that could not be saved.
func writeFailed[T any](t *jsonfile.Table[T]) error {
	return fmt.Errorf("%w: %s", types.ErrWriteFailed, t.Name())
}

// upsert wraps Table.Upsert in a Result.
func upsert[T any](t *jsonfile.Table[T], match func(T) bool, create func() T, update func(*T)) types.Result[T] {
	rec, ok := t.Upsert(match, create, update)
	if !ok {
		return types.Fail[T](writeFailed(t))
	}
	return types.OK(rec)
}

// modify applies mutate to the first record matching match and saves. A
// missing record fails with ErrNotFound and nothing is written.
func modify[T any](t *jsonfile.Table[T], match func(T) bool, mutate func(*T)) types.Result[T] {
	rec, found, ok := t.Update(match, mutate)
	switch {
	case !found:
		return types.Fail[T](types.ErrNotFound)
	case !ok:
		return types.Fail[T](writeFailed(t))
	}
	return types.OK(rec)
}

// found returns a pointer to rec when ok, else nil.
func found[T any](rec T, ok bool) *T {
	if !ok {
		return nil
	}
	return &rec
}

// normKey trims a lookup key; empty keys never match.
func normKey(k string) (string, bool) {
	k = strings.TrimSpace(k)
	return k, k != ""
}
