package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jobdesk/internal/paths"
	"github.com/mesh-intelligence/jobdesk/pkg/types"
)

// initResult is printed by init.
type initResult struct {
	ConfigFile    string   `json:"configFile"`
	ConfigWritten bool     `json:"configWritten"`
	DataDir       string   `json:"dataDir"`
	UploadDir     string   `json:"uploadDir"`
	Tables        []string `json:"tables"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize jobdesk storage",
		Long: "Create the configuration directory with a default config.yaml, then\n" +
			"create the data directory and every table file that is missing.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return sysError(fmt.Errorf("resolve config dir: %w", err))
			}
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				return sysError(fmt.Errorf("create config directory: %w", err))
			}

			cfg := defaultConfigFile()
			if a.flags.dataDir != "" {
				dataDir, err := paths.ResolveDataDir(a.flags.dataDir, "")
				if err != nil {
					return sysError(fmt.Errorf("resolve data dir: %w", err))
				}
				cfg.DataDir = dataDir
			}
			configPath := paths.ConfigFile(configDir)
			written, err := writeConfigIfMissing(configPath, cfg)
			if err != nil {
				return sysError(fmt.Errorf("write config: %w", err))
			}

			s, err := a.open(cmd)
			if err != nil {
				return err
			}
			if written {
				a.log.Info("config written", "path", configPath)
			}
			return printJSON(cmd.OutOrStdout(), initResult{
				ConfigFile:    configPath,
				ConfigWritten: written,
				DataDir:       s.Config().DataDir,
				UploadDir:     s.Config().UploadDir,
				Tables:        types.TableNames,
			})
		},
	}
}
