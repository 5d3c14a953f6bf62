package types

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Config holds the storage settings used by store.Open.
type Config struct {
	DataDir         string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	UploadDir       string `json:"upload_dir" yaml:"upload_dir" mapstructure:"upload_dir"`
	AtomicWrites    bool   `json:"atomic_writes" yaml:"atomic_writes" mapstructure:"atomic_writes"`
	LogLevel        string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	BcryptCost      int    `json:"bcrypt_cost" yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
	RecentJobsLimit int    `json:"recent_jobs_limit" yaml:"recent_jobs_limit" mapstructure:"recent_jobs_limit"`
}

// Defaults applied by WithDefaults.
const (
	DefaultLogLevel        = "info"
	DefaultBcryptCost      = 12
	DefaultRecentJobsLimit = 5
	DefaultUploadDirName   = "uploads"
)

// Config validation errors.
var (
	ErrDataDirEmpty    = errors.New("data directory must not be empty")
	ErrLogLevelUnknown = errors.New("unknown log level")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// WithDefaults returns a copy of c with zero-valued optional fields filled in.
// UploadDir defaults to <DataDir>/uploads.
func (c Config) WithDefaults() Config {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = DefaultBcryptCost
	}
	if c.RecentJobsLimit <= 0 {
		c.RecentJobsLimit = DefaultRecentJobsLimit
	}
	if c.UploadDir == "" && c.DataDir != "" {
		c.UploadDir = filepath.Join(c.DataDir, DefaultUploadDirName)
	}
	return c
}

// Validate checks that the Config is usable.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.LogLevel != "" && !knownLogLevels[c.LogLevel] {
		return fmt.Errorf("%w: %q", ErrLogLevelUnknown, c.LogLevel)
	}
	if c.BcryptCost != 0 && (c.BcryptCost < 10 || c.BcryptCost > 14) {
		return fmt.Errorf("%w: bcrypt cost %d out of range 10-14", ErrInvalidConfig, c.BcryptCost)
	}
	return nil
}
