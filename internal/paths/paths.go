// Package paths resolves the configuration, data and upload directories.
//
// Every resolver returns an absolute path. Relative overrides are taken
// relative to the working directory.
package paths

import (
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// CWD-relative directory names used when nothing overrides them.
const (
	DefaultConfigDirName = ".jobdesk"
	DefaultDataDirName   = "data"
	ConfigFileName       = "config.yaml"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "JOBDESK_CONFIG_DIR"
	EnvDataDir   = "JOBDESK_DATA_DIR"
	EnvUploadDir = "JOBDESK_UPLOAD_DIR"
)

// getwd can be overridden in tests.
var getwd = os.Getwd

func cwdJoin(name string) (string, error) {
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, name), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > JOBDESK_CONFIG_DIR env > $(CWD)/.jobdesk.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return cwdJoin(DefaultConfigDirName)
}

// ConfigFile returns the path of config.yaml inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > JOBDESK_DATA_DIR env > $(CWD)/data.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return cwdJoin(DefaultDataDirName)
}

// ResolveUploadDir returns the CV upload directory: configYAMLValue >
// JOBDESK_UPLOAD_DIR env > <dataDir>/uploads.
func ResolveUploadDir(configYAMLValue, dataDir string) (string, error) {
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvUploadDir); env != "" {
		return filepath.Abs(env)
	}
	return filepath.Abs(filepath.Join(dataDir, types.DefaultUploadDirName))
}
