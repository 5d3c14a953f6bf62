package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/jobdesk/internal/logging"
	"github.com/mesh-intelligence/jobdesk/internal/paths"
	"github.com/mesh-intelligence/jobdesk/internal/store"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "JOBDESK"

	cfgKeyDataDir         = "data_dir"
	cfgKeyUploadDir       = "upload_dir"
	cfgKeyAtomicWrites    = "atomic_writes"
	cfgKeyLogLevel        = "log_level"
	cfgKeyBcryptCost      = "bcrypt_cost"
	cfgKeyRecentJobsLimit = "recent_jobs_limit"
	cfgKeyPasswordPepper  = "password_pepper"
)

// envKeys are the settings that JOBDESK_<KEY> environment variables
// override. Directories are absent: paths resolves them so that config.yaml
// wins over the environment.
var envKeys = []string{
	cfgKeyAtomicWrites,
	cfgKeyLogLevel,
	cfgKeyBcryptCost,
	cfgKeyRecentJobsLimit,
	cfgKeyPasswordPepper,
}

// configFile is the structure written to config.yaml by init.
type configFile struct {
	DataDir         string `yaml:"data_dir,omitempty"`
	UploadDir       string `yaml:"upload_dir,omitempty"`
	AtomicWrites    bool   `yaml:"atomic_writes"`
	LogLevel        string `yaml:"log_level"`
	BcryptCost      int    `yaml:"bcrypt_cost"`
	RecentJobsLimit int    `yaml:"recent_jobs_limit"`
}

func defaultConfigFile() configFile {
	return configFile{
		AtomicWrites:    true,
		LogLevel:        types.DefaultLogLevel,
		BcryptCost:      types.DefaultBcryptCost,
		RecentJobsLimit: types.DefaultRecentJobsLimit,
	}
}

// loadConfig reads config.yaml from configDir. A missing file is not an
// error; defaults and environment overrides still apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	def := defaultConfigFile()
	v := viper.New()
	v.SetDefault(cfgKeyAtomicWrites, def.AtomicWrites)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyBcryptCost, def.BcryptCost)
	v.SetDefault(cfgKeyRecentJobsLimit, def.RecentJobsLimit)

	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with cfg if the file does not
// exist. It reports whether the file was written.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// configure loads .env, config.yaml and the directory overrides, and
// builds the logger. It runs at most once per invocation.
func (a *app) configure(cmd *cobra.Command) error {
	if a.v != nil {
		return nil
	}

	envErr := godotenv.Load()
	if errors.Is(envErr, fs.ErrNotExist) {
		envErr = nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return userError(err)
	}

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	uploadDir, err := paths.ResolveUploadDir(v.GetString(cfgKeyUploadDir), dataDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve upload dir: %w", err))
	}

	cfg := types.Config{
		DataDir:         dataDir,
		UploadDir:       uploadDir,
		AtomicWrites:    v.GetBool(cfgKeyAtomicWrites),
		LogLevel:        v.GetString(cfgKeyLogLevel),
		BcryptCost:      v.GetInt(cfgKeyBcryptCost),
		RecentJobsLimit: v.GetInt(cfgKeyRecentJobsLimit),
	}
	if err := cfg.Validate(); err != nil {
		return userError(fmt.Errorf("%w: %v", types.ErrInvalidConfig, err))
	}

	a.configDir = configDir
	a.v = v
	a.cfg = cfg.WithDefaults()
	a.log = logging.New(cmd.ErrOrStderr(), "jobdesk", a.cfg.LogLevel)
	if envErr != nil {
		a.log.Warn("loading .env", "err", envErr)
	}
	a.log.Debug("configuration loaded",
		"config_dir", configDir,
		"data_dir", a.cfg.DataDir,
		"upload_dir", a.cfg.UploadDir,
	)
	return nil
}

// open configures the app and opens the store.
func (a *app) open(cmd *cobra.Command) (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if err := a.configure(cmd); err != nil {
		return nil, err
	}
	opts := append([]store.Option{store.WithLogger(a.log)}, a.storeOpts...)
	s, err := store.Open(a.cfg, opts...)
	if err != nil {
		return nil, sysError(fmt.Errorf("open store: %w", err))
	}
	a.store = s
	return s, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}
